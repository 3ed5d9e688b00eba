package types

import (
	"strconv"
	"strings"
)

// Backend spellings. Each renderer canonicalizes its argument, walks the
// canonical structure, and consults the matching registry table. A type
// that genuinely needs rendering but has no entry fails with
// [ErrSpellingMissing]; spellings are never silently defaulted.

// NativeType returns the native (C++) spelling of t,
// e.g. "std::map< int, double >".
func (ts *TypeSystem) NativeType(t any) (string, error) {
	return memo(ts, "native", keyOf(t), func() (string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return "", err
		}
		return ts.nativeType(c)
	})
}

func (ts *TypeSystem) nativeType(c Type) (string, error) {
	// A full-key entry beats structural rendering, so specializations
	// can pin the spelling of one exact instantiation.
	if e, ok := ts.nativeTypes[c.Key()]; ok {
		return e.resolve(RefTag{}, ts)
	}
	switch c := c.(type) {
	case Atomic:
		e, ok := ts.nativeTypes[string(c)]
		if !ok {
			return "", spellingf("native", c)
		}
		return e.resolve(RefTag{Name: string(c)}, ts)
	case Predicated:
		if tag, ok := c.Pred.(RefTag); ok {
			if e, found := ts.spellOverride(ts.nativeTypes, tag); found {
				return e.resolve(tag, ts)
			}
			return ts.nativeType(c.Base)
		}
		base, err := ts.nativeType(c.Base)
		if err != nil {
			return "", err
		}
		return applyNativePred(base, c.Pred)
	case Templated:
		head, ok := ts.nativeTypes[c.Head]
		if !ok {
			return "", spellingf("native", c)
		}
		name, err := head.resolve(RefTag{Name: c.Head}, ts)
		if err != nil {
			return "", err
		}
		args := make([]string, len(c.Slots))
		kinds := ts.slotKinds(c)
		for i, s := range c.Slots {
			args[i], err = ts.nativeSlot(s, kinds[i])
			if err != nil {
				return "", err
			}
		}
		spelled := name + "< " + strings.Join(args, ", ") + " >"
		return applyNativePred(spelled, c.Pred)
	default:
		return "", spellingf("native", c)
	}
}

func applyNativePred(base string, p Predicate) (string, error) {
	switch p := p.(type) {
	case Scalar, RefTag:
		return base, nil
	case Length:
		return base + " [" + strconv.Itoa(int(p)) + "]", nil
	case Flag:
		switch p {
		case Ptr:
			return base + " *", nil
		case Ref:
			return base + " &", nil
		case Const:
			return "const " + base, nil
		}
	}
	return "", spellingf("native", p)
}

func (ts *TypeSystem) nativeSlot(s Slot, kind ArgKind) (string, error) {
	switch kind {
	case ArgType:
		t, ok := s.(Type)
		if !ok {
			return "", spellingf("native", s)
		}
		return ts.nativeType(t)
	case ArgLit:
		return ts.NativeLiteral(s)
	case ArgVar:
		if v, ok := s.(Str); ok {
			return ts.nativeVarName(string(v)), nil
		}
		if t, ok := s.(Type); ok {
			return ts.nativeType(t)
		}
		return ts.NativeLiteral(s)
	default: // ArgNone: probe as type first, then value
		if t, ok := s.(Type); ok {
			return ts.nativeType(t)
		}
		if v, ok := s.(Str); ok {
			return ts.nativeVarName(string(v)), nil
		}
		return ts.NativeLiteral(s)
	}
}

// NativeLiteral spells a literal slot value in the native backend.
// Booleans go through the registry so their spelling can be swapped.
func (ts *TypeSystem) NativeLiteral(s Slot) (string, error) {
	switch s := s.(type) {
	case Int:
		return strconv.FormatInt(int64(s), 10), nil
	case Float:
		return strconv.FormatFloat(float64(s), 'g', -1, 64), nil
	case Bool:
		key := "false"
		if s {
			key = "true"
		}
		e, ok := ts.nativeTypes[key]
		if !ok {
			return "", spellingf("native", s)
		}
		return e.resolve(RefTag{}, ts)
	case Str:
		return ts.nativeVarName(string(s)), nil
	default:
		return "", spellingf("native", s)
	}
}

// nativeVarName qualifies a free variable with its registered namespace.
func (ts *TypeSystem) nativeVarName(name string) string {
	if ns, ok := ts.varNS[name]; ok && ns != "" {
		return ns + "::" + name
	}
	return name
}

// slotKinds returns the argument kinds for a templated type, defaulting
// every slot to [ArgNone] when none are registered.
func (ts *TypeSystem) slotKinds(c Templated) []ArgKind {
	if ks, ok := ts.argKinds[c.Key()]; ok && len(ks) == len(c.Slots) {
		return ks
	}
	if ks, ok := ts.argKinds[c.Head]; ok && len(ks) == len(c.Slots) {
		return ks
	}
	return make([]ArgKind, len(c.Slots))
}

// spellOverride finds a refinement-specific spelling, trying the full
// instantiated tag key before the bare family name.
func (ts *TypeSystem) spellOverride(table map[string]SpellEntry, tag RefTag) (SpellEntry, bool) {
	if e, ok := table[tag.Key()]; ok {
		return e, true
	}
	if e, ok := table[tag.Name]; ok {
		return e, true
	}
	return SpellEntry{}, false
}

// NativeTypeCompact is the native spelling in the tight form some
// declaration parsers emit: no space inside template brackets except
// between consecutive closers.
func (ts *TypeSystem) NativeTypeCompact(t any) (string, error) {
	return memo(ts, "nativecompact", keyOf(t), func() (string, error) {
		s, err := ts.NativeType(t)
		if err != nil {
			return "", err
		}
		s = strings.ReplaceAll(s, "< ", "<")
		s = strings.ReplaceAll(s, " >", ">")
		s = strings.ReplaceAll(s, ", ", ",")
		s = strings.ReplaceAll(s, ">>", "> >")
		return s, nil
	})
}

// InteropType returns the low-level interop spelling of t,
// e.g. "cpp_map[int, double]".
func (ts *TypeSystem) InteropType(t any) (string, error) {
	return memo(ts, "interop", keyOf(t), func() (string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return "", err
		}
		return ts.interopType(c)
	})
}

func (ts *TypeSystem) interopType(c Type) (string, error) {
	// A full-key entry beats structural rendering, so specializations
	// can pin the spelling of one exact instantiation.
	if e, ok := ts.interopSpec[c.Key()]; ok {
		return e.resolve(RefTag{}, ts)
	}
	switch c := c.(type) {
	case Atomic:
		e, ok := ts.interopSpec[string(c)]
		if !ok {
			return "", spellingf("interop", c)
		}
		return e.resolve(RefTag{Name: string(c)}, ts)
	case Predicated:
		if tag, ok := c.Pred.(RefTag); ok {
			if e, found := ts.spellOverride(ts.interopSpec, tag); found {
				return e.resolve(tag, ts)
			}
			return ts.interopType(c.Base)
		}
		base, err := ts.interopType(c.Base)
		if err != nil {
			return "", err
		}
		switch p := c.Pred.(type) {
		case Scalar:
			return base, nil
		case Length:
			return base + " [" + strconv.Itoa(int(p)) + "]", nil
		case Flag:
			switch p {
			case Ptr:
				return base + " *", nil
			case Ref:
				return base + " &", nil
			case Const:
				return "const " + base, nil
			}
		}
		return "", spellingf("interop", c.Pred)
	case Templated:
		head, ok := ts.interopSpec[c.Head]
		if !ok {
			return "", spellingf("interop", c)
		}
		name, err := head.resolve(RefTag{Name: c.Head}, ts)
		if err != nil {
			return "", err
		}
		args := make([]string, len(c.Slots))
		kinds := ts.slotKinds(c)
		for i, s := range c.Slots {
			args[i], err = ts.interopSlot(s, kinds[i])
			if err != nil {
				return "", err
			}
		}
		return name + "[" + strings.Join(args, ", ") + "]", nil
	default:
		return "", spellingf("interop", c)
	}
}

func (ts *TypeSystem) interopSlot(s Slot, kind ArgKind) (string, error) {
	if kind == ArgType {
		t, ok := s.(Type)
		if !ok {
			return "", spellingf("interop", s)
		}
		return ts.interopType(t)
	}
	switch s := s.(type) {
	case Type:
		return ts.interopType(s)
	case Int:
		return strconv.FormatInt(int64(s), 10), nil
	case Float:
		return strconv.FormatFloat(float64(s), 'g', -1, 64), nil
	case Bool:
		if s {
			return "True", nil
		}
		return "False", nil
	case Str:
		return string(s), nil
	default:
		return "", spellingf("interop", s)
	}
}

// BindingType returns the high-level binding spelling of t, e.g.
// "stlcontainers._MapIntDouble". Template spellings are format strings
// filled with the class-name fragments of their slots.
func (ts *TypeSystem) BindingType(t any) (string, error) {
	return memo(ts, "binding", keyOf(t), func() (string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return "", err
		}
		return ts.bindingType(c)
	})
}

func (ts *TypeSystem) bindingType(c Type) (string, error) {
	if e, ok := ts.bindSpec[c.Key()]; ok {
		return e.resolve(RefTag{}, ts)
	}
	switch c := c.(type) {
	case Atomic:
		e, ok := ts.bindSpec[string(c)]
		if !ok {
			return "", spellingf("binding", c)
		}
		return e.resolve(RefTag{Name: string(c)}, ts)
	case Predicated:
		if tag, ok := c.Pred.(RefTag); ok {
			if e, found := ts.spellOverride(ts.bindSpec, tag); found {
				return e.resolve(tag, ts)
			}
			return ts.bindingType(c.Base)
		}
		base, err := ts.bindingType(c.Base)
		if err != nil {
			return "", err
		}
		switch p := c.Pred.(type) {
		case Scalar:
			return base, nil
		case Length:
			return base + " [" + strconv.Itoa(int(p)) + "]", nil
		case Flag:
			if p == Ptr {
				return base + " *", nil
			}
			// Reference and const carry no meaning at binding level.
			return base, nil
		}
		return "", spellingf("binding", c.Pred)
	case Templated:
		head, ok := ts.bindSpec[c.Head]
		if !ok {
			return "", spellingf("binding", c)
		}
		format, err := head.resolve(RefTag{Name: c.Head}, ts)
		if err != nil {
			return "", err
		}
		return ts.fillBindFormat(format, c)
	default:
		return "", spellingf("binding", c)
	}
}

// fillBindFormat substitutes {param} holes in a binding-template format
// string with the class-name fragments of the corresponding slots.
func (ts *TypeSystem) fillBindFormat(format string, c Templated) (string, error) {
	if !strings.ContainsRune(format, '{') {
		return format, nil
	}
	params := ts.templates[c.Head]
	vals := make(map[string]string, len(params))
	for i, p := range params {
		if i >= len(c.Slots) {
			break
		}
		frag, err := ts.classNameFragment(c.Slots[i])
		if err != nil {
			return "", err
		}
		vals[p] = frag
	}
	return ts.expandModules(fillFormat(format, vals)), nil
}

// ElemKind returns the array element-kind constant for t, falling back
// to the generic object kind when no entry matches.
func (ts *TypeSystem) ElemKind(t any) (string, error) {
	return memo(ts, "elemkind", keyOf(t), func() (string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return "", err
		}
		return ts.expandModules(ts.elemKind(c)), nil
	})
}

const objectElemKind = "np.NPY_OBJECT"

func (ts *TypeSystem) elemKind(c Type) string {
	if k, ok := ts.elemKinds[c.Key()]; ok {
		return k
	}
	switch c := c.(type) {
	case Atomic:
		if k, ok := ts.elemKinds[string(c)]; ok {
			return k
		}
	case Predicated:
		if tag, ok := c.Pred.(RefTag); ok {
			if k, found := ts.elemKinds[tag.Name]; found {
				return k
			}
		}
		return ts.elemKind(c.Base)
	case Templated:
		// A single-slot template collapses to its element's kind.
		if len(c.Slots) == 1 {
			if inner, ok := c.Slots[0].(Type); ok {
				return ts.elemKind(inner)
			}
		}
		if k, ok := ts.elemKinds[c.Head]; ok {
			return k
		}
	}
	return objectElemKind
}

// ElemKinds returns the element kind of each slot of a templated type,
// one nesting level deep. A scalar yields its own kind as a
// single-element list.
func (ts *TypeSystem) ElemKinds(t any) ([]string, error) {
	return memo(ts, "elemkinds", keyOf(t), func() ([]string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return nil, err
		}
		tc, ok := c.(Templated)
		if !ok {
			return []string{ts.expandModules(ts.elemKind(c))}, nil
		}
		kinds := make([]string, len(tc.Slots))
		for i, s := range tc.Slots {
			if inner, ok := s.(Type); ok {
				kinds[i] = ts.expandModules(ts.elemKind(inner))
			} else {
				kinds[i] = objectElemKind
			}
		}
		return kinds, nil
	})
}
