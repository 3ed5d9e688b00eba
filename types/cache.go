package types

// Memoization over all derivation methods. Keys pair an operation tag
// with the stable string key of the arguments. Derivations may read any
// part of the registry, not just their arguments, so mutation never
// patches the cache selectively: it clears it wholesale.

type cacheKey struct {
	op  string
	arg string
}

// memo returns the cached value for (op, arg) or computes, stores and
// returns it. Errors are not cached.
func memo[T any](ts *TypeSystem, op, arg string, f func() (T, error)) (T, error) {
	k := cacheKey{op, arg}
	if v, ok := ts.cache[k]; ok {
		return v.(T), nil
	}
	v, err := f()
	if err != nil {
		var zero T
		return zero, err
	}
	ts.cache[k] = v
	return v, nil
}

// invalidate drops every memoized result. Called after every
// successful registry mutation.
func (ts *TypeSystem) invalidate() {
	clear(ts.cache)
}

// delMemo drops a single memoized entry.
func (ts *TypeSystem) delMemo(op, arg string) {
	delete(ts.cache, cacheKey{op, arg})
}
