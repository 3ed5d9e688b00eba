package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHumanName(t *testing.T) {
	require := require.New(t)
	ts := Default()

	cases := map[string]any{
		"integer":                         "int32",
		"string":                          "str",
		"set of double":                   []any{"set", "float64", 0},
		"map of (string, integer) items":  []any{"map", "str", "int32", 0},
		"vector [ndarray] of complex":     []any{"vector", "complex128", 0},
		"set of vector [ndarray] of float": []any{"set", []any{"vector", "float32", 0}, 0},
	}
	for want, d := range cases {
		got, err := ts.HumanName(d)
		require.NoError(err, "humanname(%v)", d)
		require.Equal(want, got)
	}

	// Refinements without their own entry read as their parent.
	got, err := ts.HumanName("posint")
	require.NoError(err)
	require.Equal("integer", got)
}

func TestFuncName(t *testing.T) {
	require := require.New(t)
	ts := Default()

	cases := map[string]any{
		"int":             "int32",
		"str":             "str",
		"set_double":      []any{"set", "float64", 0},
		"map_str_int":     []any{"map", "str", "int32", 0},
		"vector_set_int":  []any{"vector", []any{"set", "int32", 0}, 0},
		"pair_str_double": []any{"pair", "str", "f8", 0},
	}
	for want, d := range cases {
		got, err := ts.FuncName(d)
		require.NoError(err, "funcname(%v)", d)
		require.Equal(want, got)
	}
}

func TestClassName(t *testing.T) {
	require := require.New(t)
	ts := Default()

	cases := map[string]any{
		"Int":          "int32",
		"Str":          "str",
		"SetDouble":    []any{"set", "float64", 0},
		"MapStrInt":    []any{"map", "str", "int32", 0},
		"VectorSetInt": []any{"vector", []any{"set", "int32", 0}, 0},
	}
	for want, d := range cases {
		got, err := ts.ClassName(d)
		require.NoError(err, "classname(%v)", d)
		require.Equal(want, got)
	}
}

func TestMangleFallbacksForUnregisteredNames(t *testing.T) {
	require := require.New(t)
	ts := Default()
	require.NoError(ts.RegisterClass(ClassSpec{Name: "fuel_cycle_comp"}))

	got, err := ts.ClassName("fuel_cycle_comp")
	require.NoError(err)
	require.Equal("FuelCycleComp", got)

	got, err = ts.FuncName("fuel_cycle_comp")
	require.NoError(err)
	require.Equal("fuel_cycle_comp", got)

	got, err = ts.HumanName("fuel_cycle_comp")
	require.NoError(err)
	require.Equal("fuel_cycle_comp", got)
}

func TestFuncNameTuples(t *testing.T) {
	require := require.New(t)
	ts := Default()

	got, err := ts.NativeFuncName("do_stuff")
	require.NoError(err)
	require.Equal("do_stuff", got)

	got, err = ts.NativeFuncName([]any{"do_stuff", "int32", "str"})
	require.NoError(err)
	require.Equal("do_stuff< int, std::string >", got)

	got, err = ts.BindingFuncName([]any{"do_stuff", "int32", "str"})
	require.NoError(err)
	require.Equal("do_stuff_int_str", got)

	_, err = ts.NativeFuncName(42)
	require.ErrorIs(err, ErrUnresolvedType)
}
