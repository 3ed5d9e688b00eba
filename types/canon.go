package types

import (
	"errors"
	"fmt"
)

// Canon turns a loose descriptor into its canonical form.
//
// Descriptors are strings (base types, aliases, refinement names),
// numbers, bools, canonical types, or sequences ([]any) whose first
// element is a head name: a template instantiation, a dependent
// refinement instantiation, or a (base, predicate) pair. Length-1
// sequences are shorthand for a scalar of the head type.
//
// Results are memoized per descriptor; the memo is cleared whenever the
// registry mutates.
func (ts *TypeSystem) Canon(t any) (Type, error) {
	return memo(ts, "canon", keyOf(t), func() (Type, error) {
		return ts.canon(t)
	})
}

// canon is the unmemoized recursion behind Canon. Keeping the inner
// recursion out of the cache means the temporary parameter aliases used
// during dependent-type resolution can never leak into memoized
// results for unrelated descriptors.
func (ts *TypeSystem) canon(t any) (Type, error) {
	switch t := t.(type) {
	case Type:
		return ts.canonType(t)
	case string:
		return ts.canonName(t)
	case []any:
		return ts.canonSeq(t)
	default:
		return nil, unresolvedf("%v (%T) is not a type descriptor", t, t)
	}
}

func (ts *TypeSystem) canonName(name string) (Type, error) {
	if _, ok := ts.baseTypes[name]; ok {
		return Atomic(name), nil
	}
	if target, ok := ts.aliases[name]; ok {
		return ts.canon(target)
	}
	if def, ok := ts.refined[name]; ok {
		if len(def.Sig.Params) == 0 {
			parent, err := ts.canon(def.Parent)
			if err != nil {
				return nil, err
			}
			return Predicated{Base: parent, Pred: RefTag{Name: name}}, nil
		}
		// A bare reference to a dependent refinement stands for the
		// whole family; it is instantiated later, e.g. when used as an
		// explicit predicate.
		return ts.resolveDependent(name, nil)
	}
	return nil, unresolvedf("unknown type name %q", name)
}

func (ts *TypeSystem) canonSeq(s []any) (Type, error) {
	if len(s) == 0 {
		return nil, unresolvedf("empty type descriptor")
	}
	head := s[0]
	switch head.(type) {
	case string, []any, Type:
	default:
		return nil, unresolvedf("%v (%T) cannot head a type descriptor", head, head)
	}
	if name, ok := head.(string); ok {
		if def, found := ts.refined[name]; found && len(def.Sig.Params) > 0 {
			return ts.resolveDependent(name, s)
		}
		if params, found := ts.templates[name]; found {
			return ts.canonTemplate(name, params, s)
		}
	}
	// Non-template compound: (base, predicate), predicate defaulting
	// to scalar.
	base, err := ts.canon(head)
	if err != nil {
		return nil, err
	}
	switch len(s) {
	case 1:
		return Predicated{Base: base, Pred: Scalar{}}, nil
	case 2:
		pred, err := ts.parsePredicate(s[1])
		if err != nil {
			return nil, err
		}
		return Predicated{Base: base, Pred: pred}, nil
	default:
		return nil, arityf("%v is not a template but got %d arguments", keyOf(head), len(s)-1)
	}
}

func (ts *TypeSystem) canonTemplate(name string, params []string, s []any) (Type, error) {
	n := len(params)
	if len(s) != n+1 && len(s) != n+2 {
		return nil, arityf("template %v takes %d arguments, got %d", name, n, len(s)-1)
	}
	pred := Predicate(Scalar{})
	if len(s) == n+2 {
		var err error
		pred, err = ts.parsePredicate(s[n+1])
		if err != nil {
			return nil, err
		}
	}
	slots := make([]Slot, 0, n)
	for _, arg := range s[1 : n+1] {
		slot, err := ts.canonSlot(arg)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return Templated{Head: name, Slots: slots, Pred: pred}, nil
}

func (ts *TypeSystem) canonSlot(arg any) (Slot, error) {
	switch arg := arg.(type) {
	case int, int64, float64, bool, Int, Float, Bool:
		return slotOf(arg)
	case string:
		// Names that don't resolve to a type are kept verbatim; they
		// name free variables or literals, disambiguated at render
		// time by the argument kinds.
		c, err := ts.canon(arg)
		if errors.Is(err, ErrUnresolvedType) {
			return Str(arg), nil
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	case []any:
		// A two-element sequence tagged with an explicit argument kind
		// canonicalizes only its payload.
		if len(arg) == 2 {
			if _, ok := arg[0].(ArgKind); ok {
				return ts.canon(arg[1])
			}
		}
		return ts.canon(arg)
	case Type:
		return ts.canonType(arg)
	default:
		return nil, unresolvedf("%v (%T) is not a valid template argument", arg, arg)
	}
}

func (ts *TypeSystem) canonType(t Type) (Type, error) {
	switch t := t.(type) {
	case Atomic:
		return ts.canonName(string(t))
	case Predicated:
		base, err := ts.canonType(t.Base)
		if err != nil {
			return nil, err
		}
		return Predicated{Base: base, Pred: t.Pred}, nil
	case Templated:
		params, ok := ts.templates[t.Head]
		if !ok {
			return nil, unresolvedf("unknown template %q", t.Head)
		}
		if len(t.Slots) != len(params) {
			return nil, arityf("template %v takes %d arguments, got %d", t.Head, len(params), len(t.Slots))
		}
		slots := make([]Slot, len(t.Slots))
		for i, s := range t.Slots {
			if st, ok := s.(Type); ok {
				c, err := ts.canonType(st)
				if err != nil {
					return nil, err
				}
				slots[i] = c
			} else {
				slots[i] = s
			}
		}
		return Templated{Head: t.Head, Slots: slots, Pred: t.Pred}, nil
	case Family:
		return ts.resolveDependent(t.Sig.Name, nil)
	default:
		return nil, unresolvedf("unknown canonical type %T", t)
	}
}

func (ts *TypeSystem) parsePredicate(v any) (Predicate, error) {
	switch v := v.(type) {
	case Predicate:
		return v, nil
	case int:
		return lengthPredicate(v)
	case int64:
		return lengthPredicate(int(v))
	case Int:
		return lengthPredicate(int(v))
	case string:
		switch Flag(v) {
		case Ptr, Ref, Const:
			return Flag(v), nil
		}
		if _, ok := ts.refined[v]; ok {
			return RefTag{Name: v}, nil
		}
		return nil, unresolvedf("unknown predicate %q", v)
	case []any:
		c, err := ts.canonSeq(v)
		if err != nil {
			return nil, err
		}
		if p, ok := c.(Predicated); ok {
			if tag, ok := p.Pred.(RefTag); ok {
				return tag, nil
			}
		}
		return nil, unresolvedf("%v is not a refinement predicate", keyOf(v))
	default:
		return nil, unresolvedf("%v (%T) is not a valid predicate", v, v)
	}
}

func lengthPredicate(n int) (Predicate, error) {
	switch {
	case n == 0:
		return Scalar{}, nil
	case n > 0:
		return Length(n), nil
	default:
		return nil, unresolvedf("negative array length %d", n)
	}
}

// resolveDependent resolves a dependent-refinement head. With no
// instantiation it returns the bare [Family]. Otherwise it consumes
// exactly as many arguments as the signature declares and produces the
// refined parent carrying the full dependency tag.
//
// For templated signatures the bare type parameters are bound as
// temporary aliases while the parent and dependency types are resolved,
// and removed again (together with any stale canon memo for their
// names) on every exit path.
func (ts *TypeSystem) resolveDependent(name string, inst []any) (Type, error) {
	def, ok := ts.refined[name]
	if !ok || len(def.Sig.Params) == 0 {
		return nil, unresolvedf("%q is not a dependent refinement", name)
	}
	if inst == nil {
		return Family{Sig: def.Sig}, nil
	}
	if len(inst) != len(def.Sig.Params)+1 {
		return nil, arityf("refinement %v takes %d arguments, got %d",
			name, len(def.Sig.Params), len(inst)-1)
	}
	if !def.Sig.Templated() {
		tag := RefTag{Name: name}
		for i, p := range def.Sig.Params {
			pt, err := ts.canon(p.Type)
			if err != nil {
				return nil, err
			}
			tag.Deps = append(tag.Deps, Binding{Name: p.Name, Type: pt, Value: inst[i+1]})
		}
		parent, err := ts.canon(def.Parent)
		if err != nil {
			return nil, err
		}
		return Predicated{Base: parent, Pred: tag}, nil
	}

	// Templated signature: bind bare params as temporary aliases.
	bound := map[string]struct{}{}
	for i, p := range def.Sig.Params {
		if p.Type != nil {
			continue
		}
		if _, exists := ts.aliases[p.Name]; exists {
			return nil, fmt.Errorf("%w: refinement parameter %q shadows an existing alias",
				ErrKeyConflict, p.Name)
		}
		ts.aliases[p.Name] = inst[i+1]
		bound[p.Name] = struct{}{}
	}
	defer func() {
		for k := range bound {
			delete(ts.aliases, k)
			ts.delMemo("canon", k)
		}
	}()

	parent, err := ts.canon(def.Parent)
	if err != nil {
		return nil, err
	}
	tag := RefTag{Name: name}
	for _, p := range def.Sig.Params {
		if p.Type == nil {
			at, err := ts.canon(p.Name)
			if err != nil {
				return nil, err
			}
			tag.Args = append(tag.Args, at)
		}
	}
	for i, p := range def.Sig.Params {
		if p.Type == nil {
			continue
		}
		pt, err := ts.canon(p.Type)
		if err != nil {
			return nil, err
		}
		tag.Deps = append(tag.Deps, Binding{Name: p.Name, Type: pt, Value: inst[i+1]})
	}
	return Predicated{Base: parent, Pred: tag}, nil
}
