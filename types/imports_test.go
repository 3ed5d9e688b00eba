package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeclImports(t *testing.T) {
	require := require.New(t)
	ts := Default()

	set, err := ts.DeclImports([]any{"map", "str", "int32", 0})
	require.NoError(err)
	require.Equal([]string{
		"from libcpp.map cimport map as cpp_map",
		"from libcpp.string cimport string as std_string",
	}, DeclImportLines(set))

	// Nested slots contribute their own imports, deduplicated.
	set, err = ts.DeclImports([]any{"map", "str", []any{"vector", "str", 0}, 0})
	require.NoError(err)
	require.Equal([]string{
		"cimport numpy as np",
		"from libcpp.map cimport map as cpp_map",
		"from libcpp.string cimport string as std_string",
		"from libcpp.vector cimport vector as cpp_vector",
	}, DeclImportLines(set))

	// Placeholder modules expand to the current module names.
	set, err = ts.DeclImports("complex128")
	require.NoError(err)
	require.Equal([]string{"cimport xdress_extra_types"}, DeclImportLines(set))
}

func TestRunImports(t *testing.T) {
	require := require.New(t)
	ts := Default()

	set, err := ts.RunImports([]any{"map", "str", "int32", 0})
	require.NoError(err)
	require.Equal([]string{"import stlcontainers"}, RunImportLines(set))

	restore := ts.SwapContainersModule("sc")
	defer restore()
	set, err = ts.RunImports([]any{"map", "str", "int32", 0})
	require.NoError(err)
	require.Equal([]string{"import sc"}, RunImportLines(set))
}

func TestImportsOfScalars(t *testing.T) {
	require := require.New(t)
	ts := Default()

	set, err := ts.DeclImports("int32")
	require.NoError(err)
	require.Empty(set)

	set, err = ts.RunImports([]any{"int32", "*"})
	require.NoError(err)
	require.Empty(set)
}

func TestLazyImportEntry(t *testing.T) {
	require := require.New(t)
	ts := Default()
	ts.Update(Tables{DeclImports: map[string]ImportEntry{
		"posint": {Fn: func(tag RefTag, ts *TypeSystem, set ImportSet) error {
			set.Add(ImportRef{Module: "validators", Name: tag.Name})
			return nil
		}},
	}})

	set, err := ts.DeclImports("posint")
	require.NoError(err)
	require.Equal([]string{"from validators cimport posint"}, DeclImportLines(set))
}
