package types

// Structural queries over canonical types. Each accepts a loose
// descriptor, canonicalizes it, and memoizes the answer.

// IsTemplate reports whether t is (an instantiation of) a registered
// template type. A bare template head name counts.
func (ts *TypeSystem) IsTemplate(t any) (bool, error) {
	if name, ok := t.(string); ok {
		if _, found := ts.templates[name]; found {
			return true, nil
		}
	}
	return memo(ts, "istemplate", keyOf(t), func() (bool, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return false, err
		}
		_, ok := c.(Templated)
		return ok, nil
	})
}

// IsRefinement reports whether t carries a refinement predicate. A bare
// refinement name counts.
func (ts *TypeSystem) IsRefinement(t any) (bool, error) {
	if name, ok := t.(string); ok {
		if _, found := ts.refined[name]; found {
			return true, nil
		}
	}
	return memo(ts, "isrefinement", keyOf(t), func() (bool, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return false, err
		}
		switch c := c.(type) {
		case Predicated:
			_, ok := c.Pred.(RefTag)
			return ok, nil
		case Templated:
			_, ok := c.Pred.(RefTag)
			return ok, nil
		case Family:
			return true, nil
		}
		return false, nil
	})
}

// IsDependent reports whether t is (an instantiation of) a dependent
// refinement, i.e. one whose signature declares parameters.
func (ts *TypeSystem) IsDependent(t any) (bool, error) {
	if name, ok := t.(string); ok {
		if def, found := ts.refined[name]; found {
			return len(def.Sig.Params) > 0, nil
		}
	}
	return memo(ts, "isdependent", keyOf(t), func() (bool, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return false, err
		}
		tag, ok := refinementTag(c)
		if !ok {
			if _, fam := c.(Family); fam {
				return true, nil
			}
			return false, nil
		}
		def, found := ts.refined[tag.Name]
		return found && len(def.Sig.Params) > 0, nil
	})
}

// IsEnum reports whether t is an enum refinement instance.
func (ts *TypeSystem) IsEnum(t any) (bool, error) {
	return ts.isRefinementOf(t, "enum")
}

// IsFuncPointer reports whether t is a function-pointer refinement
// instance.
func (ts *TypeSystem) IsFuncPointer(t any) (bool, error) {
	return ts.isRefinementOf(t, "function_pointer")
}

func (ts *TypeSystem) isRefinementOf(t any, name string) (bool, error) {
	return memo(ts, "isrefof:"+name, keyOf(t), func() (bool, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return false, err
		}
		tag, ok := refinementTag(c)
		return ok && tag.Name == name, nil
	})
}

func refinementTag(t Type) (RefTag, bool) {
	switch t := t.(type) {
	case Predicated:
		tag, ok := t.Pred.(RefTag)
		return tag, ok
	case Templated:
		tag, ok := t.Pred.(RefTag)
		return tag, ok
	}
	return RefTag{}, false
}

// StripPredicates removes the outermost predicate from t. Refinements
// collapse to their (stripped) parent; pointer, reference, const and
// length predicates are replaced by the scalar predicate; scalar types
// are returned unchanged.
func (ts *TypeSystem) StripPredicates(t any) (Type, error) {
	return memo(ts, "strip", keyOf(t), func() (Type, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return nil, err
		}
		return ts.stripType(c)
	})
}

func (ts *TypeSystem) stripType(t Type) (Type, error) {
	switch t := t.(type) {
	case Predicated:
		if _, ok := t.Pred.(RefTag); ok {
			return ts.stripType(t.Base)
		}
		base, err := ts.stripType(t.Base)
		if err != nil {
			return nil, err
		}
		// A stripped compound already carries the scalar predicate.
		if _, ok := base.(Atomic); !ok {
			return base, nil
		}
		return Predicated{Base: base, Pred: Scalar{}}, nil
	case Templated:
		return Templated{Head: t.Head, Slots: t.Slots, Pred: Scalar{}}, nil
	default:
		return t, nil
	}
}

// BaseName returns the innermost head name of t: the base type name, the
// template head, or the refinement family name.
func (ts *TypeSystem) BaseName(t any) (string, error) {
	return memo(ts, "basename", keyOf(t), func() (string, error) {
		c, err := ts.Canon(t)
		if err != nil {
			return "", err
		}
		for {
			switch v := c.(type) {
			case Atomic:
				return string(v), nil
			case Predicated:
				c = v.Base
			case Templated:
				return v.Head, nil
			case Family:
				return v.Sig.Name, nil
			default:
				return "", unresolvedf("unknown canonical type %T", c)
			}
		}
	})
}
