package types

import (
	"maps"
	"sort"
	"strings"
)

// ImportRef is one import directive in normalized form.
//
//	{Module: m}                        cimport m
//	{Module: m, Alias: a}              cimport m as a
//	{Module: m, Name: n}               from m cimport n
//	{Module: m, Name: n, Alias: a}     from m cimport n as a
type ImportRef struct {
	Module string
	Name   string
	Alias  string
}

// ImportSet is a deduplicated collection of import directives.
type ImportSet map[ImportRef]struct{}

func (s ImportSet) Add(r ImportRef) { s[r] = struct{}{} }

// AddAll merges another set into this one.
func (s ImportSet) AddAll(o ImportSet) {
	for r := range o {
		s[r] = struct{}{}
	}
}

// DeclImports collects the declaration-time imports a generated wrapper
// for t needs.
func (ts *TypeSystem) DeclImports(t any) (ImportSet, error) {
	s, err := memo(ts, "declimports", keyOf(t), func() (ImportSet, error) {
		set := ImportSet{}
		c, err := ts.Canon(t)
		if err != nil {
			return nil, err
		}
		if err := ts.collectImports(c, ts.declImports, set); err != nil {
			return nil, err
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(s), nil
}

// RunImports collects the runtime imports a generated wrapper for t
// needs.
func (ts *TypeSystem) RunImports(t any) (ImportSet, error) {
	s, err := memo(ts, "runimports", keyOf(t), func() (ImportSet, error) {
		set := ImportSet{}
		c, err := ts.Canon(t)
		if err != nil {
			return nil, err
		}
		if err := ts.collectImports(c, ts.runImports, set); err != nil {
			return nil, err
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(s), nil
}

func (ts *TypeSystem) collectImports(c Type, table map[string]ImportEntry, set ImportSet) error {
	switch c := c.(type) {
	case Atomic:
		return ts.addImportEntry(string(c), RefTag{}, table, set)
	case Predicated:
		if tag, ok := c.Pred.(RefTag); ok {
			if err := ts.addImportEntry(tag.Name, tag, table, set); err != nil {
				return err
			}
			for _, a := range tag.Args {
				if err := ts.collectImports(a, table, set); err != nil {
					return err
				}
			}
			for _, d := range tag.Deps {
				if err := ts.collectImports(d.Type, table, set); err != nil {
					return err
				}
			}
		}
		return ts.collectImports(c.Base, table, set)
	case Templated:
		if err := ts.addImportEntry(c.Head, RefTag{Name: c.Head}, table, set); err != nil {
			return err
		}
		for _, s := range c.Slots {
			if st, ok := s.(Type); ok {
				if err := ts.collectImports(st, table, set); err != nil {
					return err
				}
			}
		}
		if tag, ok := c.Pred.(RefTag); ok {
			if err := ts.addImportEntry(tag.Name, tag, table, set); err != nil {
				return err
			}
		}
		return nil
	case Family:
		return ts.addImportEntry(c.Sig.Name, RefTag{Name: c.Sig.Name}, table, set)
	default:
		return unresolvedf("unknown canonical type %T", c)
	}
}

func (ts *TypeSystem) addImportEntry(key string, tag RefTag, table map[string]ImportEntry, set ImportSet) error {
	e, ok := table[key]
	if !ok {
		return nil
	}
	if e.Fn != nil {
		return e.Fn(tag, ts, set)
	}
	for _, r := range e.Refs {
		set.Add(ts.expandRef(r))
	}
	return nil
}

// expandRef substitutes module-name placeholders in an import ref. The
// placeholder expansion appends a qualifying dot for spellings, which a
// module path must not carry.
func (ts *TypeSystem) expandRef(r ImportRef) ImportRef {
	r.Module = strings.TrimSuffix(ts.expandModules(r.Module), ".")
	return r
}

// DeclImportLines renders a set as sorted cimport directives.
func DeclImportLines(set ImportSet) []string {
	return importLines(set, "cimport")
}

// RunImportLines renders a set as sorted import directives.
func RunImportLines(set ImportSet) []string {
	return importLines(set, "import")
}

func importLines(set ImportSet, keyword string) []string {
	lines := make([]string, 0, len(set))
	for r := range set {
		if r.Module == "" {
			continue
		}
		var b strings.Builder
		if r.Name != "" {
			b.WriteString("from ")
			b.WriteString(r.Module)
			b.WriteString(" ")
			b.WriteString(keyword)
			b.WriteString(" ")
			b.WriteString(r.Name)
		} else {
			b.WriteString(keyword)
			b.WriteString(" ")
			b.WriteString(r.Module)
		}
		if r.Alias != "" {
			b.WriteString(" as ")
			b.WriteString(r.Alias)
		}
		lines = append(lines, b.String())
	}
	sort.Strings(lines)
	return lines
}
