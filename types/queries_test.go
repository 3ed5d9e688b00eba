package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTemplate(t *testing.T) {
	require := require.New(t)
	ts := Default()

	for d, want := range map[string]bool{"vector": true, "map": true, "int32": false, "posint": false} {
		got, err := ts.IsTemplate(d)
		require.NoError(err)
		require.Equal(want, got, "istemplate(%v)", d)
	}

	got, err := ts.IsTemplate([]any{"vector", "int32", 0})
	require.NoError(err)
	require.True(got)

	got, err = ts.IsTemplate([]any{"int32", "*"})
	require.NoError(err)
	require.False(got)
}

func TestIsRefinement(t *testing.T) {
	require := require.New(t)
	ts := Default()

	got, err := ts.IsRefinement("posint")
	require.NoError(err)
	require.True(got)

	got, err = ts.IsRefinement([]any{"intrange", 1, 2})
	require.NoError(err)
	require.True(got)

	got, err = ts.IsRefinement("int32")
	require.NoError(err)
	require.False(got)

	got, err = ts.IsRefinement([]any{"int32", "*"})
	require.NoError(err)
	require.False(got)
}

func TestIsDependent(t *testing.T) {
	require := require.New(t)
	ts := Default()

	got, err := ts.IsDependent("intrange")
	require.NoError(err)
	require.True(got)

	got, err = ts.IsDependent("posint")
	require.NoError(err)
	require.False(got)

	got, err = ts.IsDependent([]any{"range", "int32", 1, 2})
	require.NoError(err)
	require.True(got)
}

func TestIsEnumAndFuncPointer(t *testing.T) {
	require := require.New(t)
	ts := Default()

	enum := []any{"enum", "colors", map[string]int{"red": 1, "blue": 2}}
	got, err := ts.IsEnum(enum)
	require.NoError(err)
	require.True(got)

	got, err = ts.IsEnum("int32")
	require.NoError(err)
	require.False(got)

	fp := []any{"function_pointer",
		[]any{"list", []any{"pair", "str", "type"}},
		"float64",
	}
	got, err = ts.IsFuncPointer(fp)
	require.NoError(err)
	require.True(got)

	got, err = ts.IsFuncPointer(enum)
	require.NoError(err)
	require.False(got)
}

func TestStripPredicates(t *testing.T) {
	require := require.New(t)
	ts := Default()

	// A refinement strips to its parent.
	c, err := ts.StripPredicates("posint")
	require.NoError(err)
	require.Equal(Atomic("int32"), c)

	// Flags and lengths strip to the scalar form.
	c, err = ts.StripPredicates([]any{"int32", "*"})
	require.NoError(err)
	require.Equal(Predicated{Base: Atomic("int32"), Pred: Scalar{}}, c)

	c, err = ts.StripPredicates([]any{"float64", 3})
	require.NoError(err)
	require.Equal(Predicated{Base: Atomic("float64"), Pred: Scalar{}}, c)

	// Stacked predicates strip at every nesting level.
	c, err = ts.StripPredicates([]any{[]any{"int32", "*"}, "&"})
	require.NoError(err)
	require.Equal(Predicated{Base: Atomic("int32"), Pred: Scalar{}}, c)

	c, err = ts.StripPredicates([]any{[]any{[]any{"int32", "*"}, "*"}, "&"})
	require.NoError(err)
	require.Equal(Predicated{Base: Atomic("int32"), Pred: Scalar{}}, c)

	// Scalars are unchanged.
	c, err = ts.StripPredicates("int32")
	require.NoError(err)
	require.Equal(Atomic("int32"), c)

	c, err = ts.StripPredicates([]any{"vector", "int32", 0})
	require.NoError(err)
	require.Equal("(vector int32 0)", c.Key())

	// A templated type's refinement predicate becomes scalar.
	c, err = ts.StripPredicates([]any{"vector", "int32", "posint"})
	require.NoError(err)
	require.Equal("(vector int32 0)", c.Key())
}

func TestBaseName(t *testing.T) {
	require := require.New(t)
	ts := Default()

	for d, want := range map[string]string{
		"int32":  "int32",
		"posint": "int32",
		"range":  "range",
	} {
		got, err := ts.BaseName(d)
		require.NoError(err)
		require.Equal(want, got)
	}

	got, err := ts.BaseName([]any{"vector", "int32", 0})
	require.NoError(err)
	require.Equal("vector", got)

	got, err = ts.BaseName([]any{"int32", "*"})
	require.NoError(err)
	require.Equal("int32", got)
}
