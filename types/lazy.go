package types

// Registry table entries are either static data or a callable that
// computes the data lazily from the type and the type system. A lazy
// entry is resolved at most once per cache generation; converter
// entries are materialized back into the table as static entries keyed
// by the exact type (see convert.go).

// SpellEntry is one backend-spelling table entry.
type SpellEntry struct {
	Value string
	Fn    func(RefTag, *TypeSystem) (string, error)
}

// Spell wraps a static spelling string.
func Spell(s string) SpellEntry { return SpellEntry{Value: s} }

func (e SpellEntry) lazy() bool { return e.Fn != nil }

// resolve evaluates the entry for the given refinement tag, expanding
// module-name placeholders in static values.
func (e SpellEntry) resolve(tag RefTag, ts *TypeSystem) (string, error) {
	if e.Fn != nil {
		return e.Fn(tag, ts)
	}
	return ts.expandModules(e.Value), nil
}

// ImportEntry is one import-dependency table entry: a static list of
// references, or a collector invoked with the refinement tag and the
// set accumulated so far.
type ImportEntry struct {
	Refs []ImportRef
	Fn   func(RefTag, *TypeSystem, ImportSet) error
}

// Imports wraps a static reference list.
func Imports(refs ...ImportRef) ImportEntry { return ImportEntry{Refs: refs} }

// ToBindTemplate holds 1 to 3 native-to-binding template variants:
// a bare expression, a proxy-materializing body, and a cache-guarded
// body, in that order. Missing trailing variants are simply absent.
type ToBindTemplate []string

// FromBindTemplate holds the binding-to-native body template and the
// return-expression template. An empty Ret means the body template is
// itself the full conversion expression.
type FromBindTemplate struct {
	Body string
	Ret  string
}

// ToBindEntry is a converter-table entry for the native-to-binding
// direction.
type ToBindEntry struct {
	Tmpl ToBindTemplate
	Fn   func(Type, *TypeSystem) (ToBindTemplate, error)
}

// FromBindEntry is a converter-table entry for the binding-to-native
// direction.
type FromBindEntry struct {
	Tmpl FromBindTemplate
	Fn   func(Type, *TypeSystem) (FromBindTemplate, error)
}
