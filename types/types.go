/*
Package types implements a small dynamic type system for API generation.

Types are known by string identifiers and may be aliased. A loose
descriptor (a name, a number, or a nested sequence) is normalized into a
canonical form by [TypeSystem.Canon]. Canonical forms are a closed set of
values ([Atomic], [Predicated], [Templated], [Family]) with a stable
string key, so they can be stored in and looked up from registry tables.

From the canonical form the [TypeSystem] derives textual spellings for
several backends (native, low-level interop, high-level binding and
array element kinds), mangled human/function/class names, import
directives, and native<->binding converter code fragments consumed by a
code emitter.

The TypeSystem is mutable shared state for a single generation run. It
is not safe for concurrent use with mutation; callers needing
parallelism should use one TypeSystem per worker.
*/
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is a filled template argument: a canonical type, a literal
// number, bool or string, or an unresolved name (a free variable).
type Slot interface {
	// Key returns a stable string form, unique within the slot's kind.
	Key() string
	isSlot()
}

// Type is the canonical form of a type descriptor.
// Every Type is also a valid Slot.
type Type interface {
	Slot
	isType()
}

// Atomic is a registered base type, e.g. "int32" or "FCComp".
type Atomic string

// Predicated pairs a base type with a trailing predicate:
// a pointer/reference flag, an array length, or a refinement tag.
type Predicated struct {
	Base Type
	Pred Predicate
}

// Templated is an instantiated template type. Its canonical form always
// holds exactly as many slots as the template's declared arity.
type Templated struct {
	Head  string
	Slots []Slot
	Pred  Predicate
}

// Family is an uninstantiated dependent-refinement reference, e.g. a
// bare "intrange". It stands for the whole family of instantiations and
// is produced when a dependent name is canonicalized without arguments.
type Family struct {
	Sig Signature
}

func (Atomic) isType()     {}
func (Predicated) isType() {}
func (Templated) isType()  {}
func (Family) isType()     {}

func (Atomic) isSlot()     {}
func (Predicated) isSlot() {}
func (Templated) isSlot()  {}
func (Family) isSlot()     {}

// Int is a literal integer slot or dependency value.
type Int int64

// Float is a literal floating-point slot or dependency value.
type Float float64

// Bool is a literal boolean slot or dependency value.
type Bool bool

// Str is a string slot: a name that did not resolve to a type, kept
// verbatim. It usually names a free variable.
type Str string

func (Int) isSlot()   {}
func (Float) isSlot() {}
func (Bool) isSlot()  {}
func (Str) isSlot()   {}

// Predicate is the trailing modifier of a type: scalar (zero), a
// positive array length, a pointer/reference/const flag, or a
// refinement tag.
type Predicate interface {
	Key() string
	isPredicate()
}

// Scalar is the zero predicate.
type Scalar struct{}

// Length is a fixed array length. Always positive.
type Length int

// Flag is a pointer ("*"), reference ("&") or const ("const") marker.
type Flag string

const (
	Ptr   Flag = "*"
	Ref   Flag = "&"
	Const Flag = "const"
)

// RefTag is a refinement predicate. For a simple refinement only Name
// is set. For a dependent refinement Args carries the canonicalized
// bare type parameters and Deps the named dependency bindings.
type RefTag struct {
	Name string
	Args []Type
	Deps []Binding
}

func (Scalar) isPredicate() {}
func (Length) isPredicate() {}
func (Flag) isPredicate()   {}
func (RefTag) isPredicate() {}

// Binding is one bound dependency of a dependent refinement:
// the declared name, its canonicalized type, and the raw bound value.
type Binding struct {
	Name  string
	Type  Type
	Value any
}

// Signature declares a refinement. A simple refinement has no params.
// A param with a nil Type is a bare type parameter that is filled by
// the instantiation itself (a "templated" refinement).
type Signature struct {
	Name   string
	Params []Param
}

// Param is one declared dependency of a refinement signature.
// Type holds a descriptor, not a canonical type: it is resolved at
// instantiation time, possibly through temporary parameter aliases.
type Param struct {
	Name string
	Type any
}

// Templated returns whether any param is a bare type parameter.
func (s Signature) Templated() bool {
	for _, p := range s.Params {
		if p.Type == nil {
			return true
		}
	}
	return false
}

// Key implementations. Keys are s-expression-like strings, unique per
// canonical value, and are what registry tables and the memo cache use
// as map keys.

func (t Atomic) Key() string { return string(t) }

func (t Predicated) Key() string {
	return "(" + t.Base.Key() + " " + t.Pred.Key() + ")"
}

func (t Templated) Key() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(t.Head)
	for _, s := range t.Slots {
		b.WriteByte(' ')
		b.WriteString(s.Key())
	}
	b.WriteByte(' ')
	b.WriteString(t.Pred.Key())
	b.WriteByte(')')
	return b.String()
}

func (t Family) Key() string {
	var b strings.Builder
	b.WriteString("(family ")
	b.WriteString(t.Sig.Name)
	for _, p := range t.Sig.Params {
		b.WriteByte(' ')
		if p.Type == nil {
			b.WriteString(p.Name)
		} else {
			fmt.Fprintf(&b, "(%s %s)", p.Name, keyOf(p.Type))
		}
	}
	b.WriteByte(')')
	return b.String()
}

func (v Int) Key() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float) Key() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Bool) Key() string  { return strconv.FormatBool(bool(v)) }
func (v Str) Key() string   { return string(v) }

func (Scalar) Key() string   { return "0" }
func (l Length) Key() string { return strconv.Itoa(int(l)) }
func (f Flag) Key() string   { return string(f) }

func (r RefTag) Key() string {
	if len(r.Args) == 0 && len(r.Deps) == 0 {
		return r.Name
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(r.Name)
	for _, a := range r.Args {
		b.WriteByte(' ')
		b.WriteString(a.Key())
	}
	for _, d := range r.Deps {
		fmt.Fprintf(&b, " (%s %s %v)", d.Name, d.Type.Key(), d.Value)
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports whether two canonical types are the same.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// keyOf returns a stable cache key for a loose descriptor.
func keyOf(t any) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case Slot: // includes Type
		return t.Key()
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case ArgKind:
		return "argkind:" + t.String()
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = keyOf(e)
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("%#v", t)
	}
}

// slotOf converts a raw literal to a Slot. Strings become Str; they are
// not resolved against the registry here.
func slotOf(v any) (Slot, error) {
	switch v := v.(type) {
	case Slot:
		return v, nil
	case string:
		return Str(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case float64:
		return Float(v), nil
	default:
		return nil, fmt.Errorf("%w: %v (%T) is not a valid slot value", ErrUnresolvedType, v, v)
	}
}

// Descriptor returns the loose-descriptor form of a canonical type,
// suitable for serialization and for feeding back into Canon.
func Descriptor(t Type) any {
	switch t := t.(type) {
	case Atomic:
		return string(t)
	case Predicated:
		return []any{Descriptor(t.Base), predicateDescriptor(t.Pred)}
	case Templated:
		d := make([]any, 0, len(t.Slots)+2)
		d = append(d, t.Head)
		for _, s := range t.Slots {
			d = append(d, slotDescriptor(s))
		}
		d = append(d, predicateDescriptor(t.Pred))
		return d
	case Family:
		return t.Sig.Name
	default:
		panic(fmt.Sprintf("unknown canonical type %T", t))
	}
}

func slotDescriptor(s Slot) any {
	switch s := s.(type) {
	case Type:
		return Descriptor(s)
	case Int:
		return int(s)
	case Float:
		return float64(s)
	case Bool:
		return bool(s)
	case Str:
		return string(s)
	default:
		panic(fmt.Sprintf("unknown slot %T", s))
	}
}

func valueDescriptor(v any) any {
	switch v := v.(type) {
	case Type:
		return Descriptor(v)
	case Slot:
		return slotDescriptor(v)
	default:
		return v
	}
}

func predicateDescriptor(p Predicate) any {
	switch p := p.(type) {
	case Scalar:
		return 0
	case Length:
		return int(p)
	case Flag:
		return string(p)
	case RefTag:
		if len(p.Args) == 0 && len(p.Deps) == 0 {
			return p.Name
		}
		// Emit the loose instantiation form, so the descriptor feeds
		// straight back into Canon: bare type arguments first, then the
		// bound dependency values.
		d := make([]any, 0, len(p.Args)+len(p.Deps)+1)
		d = append(d, p.Name)
		for _, a := range p.Args {
			d = append(d, Descriptor(a))
		}
		for _, dep := range p.Deps {
			d = append(d, valueDescriptor(dep.Value))
		}
		return d
	default:
		panic(fmt.Sprintf("unknown predicate %T", p))
	}
}

// ArgKind tags how a template slot should be rendered.
type ArgKind uint8

const (
	ArgNone ArgKind = iota // unknown: probe type first, then variable
	ArgType                // render with the type renderer
	ArgLit                 // render as a backend literal
	ArgVar                 // render as a namespaced variable
)

func (k ArgKind) String() string {
	switch k {
	case ArgNone:
		return "none"
	case ArgType:
		return "type"
	case ArgLit:
		return "lit"
	case ArgVar:
		return "var"
	default:
		panic("invalid argument kind")
	}
}

// ParseArgKind is the inverse of [ArgKind.String].
func ParseArgKind(s string) (ArgKind, error) {
	switch s {
	case "none":
		return ArgNone, nil
	case "type":
		return ArgType, nil
	case "lit":
		return ArgLit, nil
	case "var":
		return ArgVar, nil
	default:
		return ArgNone, fmt.Errorf("invalid argument kind %q", s)
	}
}
