package types

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Mangled names. Registry entries are format fragments with {param}
// holes; holes are filled with the fragment of the corresponding slot.
// Unregistered atomic names fall back to a case-converted form of the
// name itself, so user classes mangle sensibly without registration.

// fillFormat substitutes every {key} hole with its value.
func fillFormat(format string, vals map[string]string) string {
	if !strings.ContainsRune(format, '{') {
		return format
	}
	pairs := make([]string, 0, 2*len(vals))
	for k, v := range vals {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(format)
}

// slotFormatVals maps a template's parameter names to the fragments of
// the instantiated slots.
func (ts *TypeSystem) slotFormatVals(c Templated, frag func(Slot) (string, error)) (map[string]string, error) {
	params := ts.templates[c.Head]
	vals := make(map[string]string, len(params))
	for i, p := range params {
		if i >= len(c.Slots) {
			break
		}
		f, err := frag(c.Slots[i])
		if err != nil {
			return nil, err
		}
		vals[p] = f
	}
	return vals, nil
}

// HumanName returns a prose description of t, e.g.
// "map of (string, integer) items".
func (ts *TypeSystem) HumanName(t any) (string, error) {
	return memo(ts, "human", keyOf(t), func() (string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return "", err
		}
		return ts.humanName(c)
	})
}

func (ts *TypeSystem) humanName(c Type) (string, error) {
	switch c := c.(type) {
	case Atomic:
		if h, ok := ts.humanNames[string(c)]; ok {
			return h, nil
		}
		return string(c), nil
	case Predicated:
		if tag, ok := c.Pred.(RefTag); ok {
			if h, found := ts.humanNames[tag.Name]; found {
				return h, nil
			}
		}
		return ts.humanName(c.Base)
	case Templated:
		format, ok := ts.humanNames[c.Head]
		if !ok {
			return c.Head, nil
		}
		vals, err := ts.slotFormatVals(c, ts.humanFragment)
		if err != nil {
			return "", err
		}
		return fillFormat(format, vals), nil
	case Family:
		return c.Sig.Name, nil
	default:
		return "", unresolvedf("unknown canonical type %T", c)
	}
}

func (ts *TypeSystem) humanFragment(s Slot) (string, error) {
	switch s := s.(type) {
	case Type:
		return ts.humanName(s)
	case Str:
		return string(s), nil
	default:
		return s.Key(), nil
	}
}

// FuncName returns the lowercase_underscore mangling of t, used to name
// generated converter functions, e.g. "map_str_int".
func (ts *TypeSystem) FuncName(t any) (string, error) {
	return memo(ts, "funcname", keyOf(t), func() (string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return "", err
		}
		return ts.funcName(c)
	})
}

func (ts *TypeSystem) funcName(c Type) (string, error) {
	switch c := c.(type) {
	case Atomic:
		if f, ok := ts.funcNames[string(c)]; ok {
			return f, nil
		}
		return strcase.ToSnake(string(c)), nil
	case Predicated:
		if tag, ok := c.Pred.(RefTag); ok {
			if format, found := ts.funcNames[tag.Name]; found {
				return fillFormat(format, ts.tagFormatVals(tag)), nil
			}
		}
		return ts.funcName(c.Base)
	case Templated:
		vals, err := ts.slotFormatVals(c, ts.funcFragment)
		if err != nil {
			return "", err
		}
		format, ok := ts.funcNames[c.Head]
		if !ok {
			parts := []string{strcase.ToSnake(c.Head)}
			for _, p := range ts.templates[c.Head] {
				parts = append(parts, vals[p])
			}
			return strings.Join(parts, "_"), nil
		}
		return fillFormat(format, vals), nil
	case Family:
		return strcase.ToSnake(c.Sig.Name), nil
	default:
		return "", unresolvedf("unknown canonical type %T", c)
	}
}

func (ts *TypeSystem) funcFragment(s Slot) (string, error) {
	switch s := s.(type) {
	case Type:
		return ts.funcName(s)
	case Str:
		return strcase.ToSnake(string(s)), nil
	case Float:
		return strings.ReplaceAll(s.Key(), ".", "_"), nil
	default:
		return s.Key(), nil
	}
}

// ClassName returns the CapCase mangling of t, used to name generated
// proxy classes, e.g. "MapStrInt".
func (ts *TypeSystem) ClassName(t any) (string, error) {
	return memo(ts, "classname", keyOf(t), func() (string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return "", err
		}
		return ts.className(c)
	})
}

func (ts *TypeSystem) className(c Type) (string, error) {
	switch c := c.(type) {
	case Atomic:
		if n, ok := ts.classNames[string(c)]; ok {
			return n, nil
		}
		return strcase.ToCamel(string(c)), nil
	case Predicated:
		if tag, ok := c.Pred.(RefTag); ok {
			if format, found := ts.classNames[tag.Name]; found {
				return fillFormat(format, ts.tagFormatVals(tag)), nil
			}
		}
		return ts.className(c.Base)
	case Templated:
		vals, err := ts.slotFormatVals(c, ts.classNameFragment)
		if err != nil {
			return "", err
		}
		format, ok := ts.classNames[c.Head]
		if !ok {
			var b strings.Builder
			b.WriteString(strcase.ToCamel(c.Head))
			for _, p := range ts.templates[c.Head] {
				b.WriteString(vals[p])
			}
			return b.String(), nil
		}
		return fillFormat(format, vals), nil
	case Family:
		return strcase.ToCamel(c.Sig.Name), nil
	default:
		return "", unresolvedf("unknown canonical type %T", c)
	}
}

func (ts *TypeSystem) classNameFragment(s Slot) (string, error) {
	switch s := s.(type) {
	case Type:
		return ts.className(s)
	case Str:
		return strcase.ToCamel(string(s)), nil
	case Bool:
		if s {
			return "True", nil
		}
		return "False", nil
	case Float:
		return strings.ReplaceAll(s.Key(), ".", "_"), nil
	default:
		return s.Key(), nil
	}
}

// tagFormatVals maps a dependent refinement's bound names to string
// fragments, for filling refinement-specific name formats.
func (ts *TypeSystem) tagFormatVals(tag RefTag) map[string]string {
	vals := make(map[string]string, len(tag.Deps))
	for _, d := range tag.Deps {
		vals[d.Name] = valueFragment(d.Value)
	}
	return vals
}

func valueFragment(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case Str:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case Int:
		return v.Key()
	case Slot:
		return v.Key()
	default:
		return keyOf(v)
	}
}

// NativeFuncName spells a possibly templated function name in the
// native backend: a plain name passes through, a (name, args...)
// sequence renders as an explicit template instantiation.
func (ts *TypeSystem) NativeFuncName(name any) (string, error) {
	switch name := name.(type) {
	case string:
		return name, nil
	case []any:
		if len(name) == 0 {
			return "", unresolvedf("empty function name")
		}
		base, ok := name[0].(string)
		if !ok {
			return "", unresolvedf("%v is not a function name", keyOf(name[0]))
		}
		args := make([]string, len(name)-1)
		for i, a := range name[1:] {
			c, err := ts.Canon(a)
			if err != nil {
				s, serr := slotOf(a)
				if serr != nil {
					return "", err
				}
				args[i], err = ts.NativeLiteral(s)
				if err != nil {
					return "", err
				}
				continue
			}
			args[i], err = ts.nativeType(c)
			if err != nil {
				return "", err
			}
		}
		return base + "< " + strings.Join(args, ", ") + " >", nil
	default:
		return "", unresolvedf("%v (%T) is not a function name", name, name)
	}
}

// BindingFuncName spells a possibly templated function name in the
// binding backend, joining template arguments with underscores.
func (ts *TypeSystem) BindingFuncName(name any) (string, error) {
	switch name := name.(type) {
	case string:
		return name, nil
	case []any:
		if len(name) == 0 {
			return "", unresolvedf("empty function name")
		}
		base, ok := name[0].(string)
		if !ok {
			return "", unresolvedf("%v is not a function name", keyOf(name[0]))
		}
		parts := []string{base}
		for _, a := range name[1:] {
			c, err := ts.Canon(a)
			if err != nil {
				s, serr := slotOf(a)
				if serr != nil {
					return "", err
				}
				frag, ferr := ts.funcFragment(s)
				if ferr != nil {
					return "", ferr
				}
				parts = append(parts, frag)
				continue
			}
			frag, err := ts.funcName(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, frag)
		}
		return strings.Join(parts, "_"), nil
	default:
		return "", unresolvedf("%v (%T) is not a function name", name, name)
	}
}
