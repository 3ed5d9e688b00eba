package types

import "strings"

// Scoped registry swaps. Each returns a restore function; callers defer
// it so the original state comes back on every exit path, panics
// included. The cache is cleared on both entry and restore.

// SwapDtypesModule temporarily renames the dtypes module.
func (ts *TypeSystem) SwapDtypesModule(name string) (restore func()) {
	old := ts.dtypesModule
	ts.dtypesModule = name
	ts.invalidate()
	return func() {
		ts.dtypesModule = old
		ts.invalidate()
	}
}

// SwapContainersModule temporarily renames the containers module.
func (ts *TypeSystem) SwapContainersModule(name string) (restore func()) {
	old := ts.containersModule
	ts.containersModule = name
	ts.invalidate()
	return func() {
		ts.containersModule = old
		ts.invalidate()
	}
}

// SwapExtraTypesModule temporarily renames the extra-types module.
func (ts *TypeSystem) SwapExtraTypesModule(name string) (restore func()) {
	old := ts.extraTypesModule
	ts.extraTypesModule = name
	ts.invalidate()
	return func() {
		ts.extraTypesModule = old
		ts.invalidate()
	}
}

// LocalClassNames temporarily strips the module qualifier from the
// binding spellings of the named classes, for emitting code inside the
// module that defines them. Only static entries are rewritten.
func (ts *TypeSystem) LocalClassNames(names ...string) (restore func()) {
	saved := map[string]SpellEntry{}
	for _, name := range names {
		for key, e := range ts.bindSpec {
			if e.Fn != nil {
				continue
			}
			if local, ok := undotted(e.Value, name); ok {
				if _, seen := saved[key]; !seen {
					saved[key] = e
				}
				ts.bindSpec[key] = Spell(local)
			}
		}
	}
	ts.invalidate()
	return func() {
		for key, e := range saved {
			ts.bindSpec[key] = e
		}
		ts.invalidate()
	}
}

// undotted strips a trailing module qualifier from a spelling that ends
// in the given class name.
func undotted(spelling, name string) (string, bool) {
	if spelling == name || !strings.HasSuffix(spelling, "."+name) {
		return "", false
	}
	return name, true
}
