package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNativeType(t *testing.T) {
	require := require.New(t)
	ts := Default()

	cases := map[string]any{
		"int":                             "int32",
		"std::string":                     "str",
		"double":                          "f8",
		"int *":                           []any{"int32", "*"},
		"int &":                           []any{"int32", "&"},
		"const char":                      []any{"char", "const"},
		"double [3]":                      []any{"float64", 3},
		"std::vector< int >":              []any{"vector", "int32", 0},
		"std::map< std::string, double >": []any{"map", "str", "float64", 0},
		"std::map< std::string, std::vector< int > >": []any{"map", "str", []any{"vector", "int32", 0}, 0},
	}
	for want, d := range cases {
		got, err := ts.NativeType(d)
		require.NoError(err, "native(%v)", d)
		require.Equal(want, got)
	}

	// Refinements spell as their parent unless overridden.
	got, err := ts.NativeType("posint")
	require.NoError(err)
	require.Equal("int", got)
}

func TestNativeTypeCustomSpellings(t *testing.T) {
	require := require.New(t)
	ts := Default()

	require.NoError(ts.RegisterClass(ClassSpec{Name: "int32", NativeType: "int32_t"}))
	require.NoError(ts.RegisterClass(ClassSpec{
		Name:         "vector",
		TemplateArgs: []string{"value_type"},
		NativeType:   "MyVector",
	}))

	got, err := ts.NativeType([]any{"vector", "int32", 0})
	require.NoError(err)
	require.Equal("MyVector< int32_t >", got)
}

func TestNativeTypeMissingSpelling(t *testing.T) {
	require := require.New(t)
	ts := Default()
	ts.Update(Tables{BaseTypes: map[string]struct{}{"mystery": {}}})

	_, err := ts.NativeType("mystery")
	require.ErrorIs(err, ErrSpellingMissing)
}

func TestNativeTypeCompact(t *testing.T) {
	require := require.New(t)
	ts := Default()

	got, err := ts.NativeTypeCompact([]any{"map", "str", []any{"vector", "int32", 0}, 0})
	require.NoError(err)
	require.Equal("std::map<std::string,std::vector<int> >", got)
}

func TestNativeLiteralsAndVariables(t *testing.T) {
	require := require.New(t)
	ts := Default()
	require.NoError(ts.RegisterVariableNamespace("N", "myns", nil))

	got, err := ts.NativeType([]any{"vector", "N", 0})
	require.NoError(err)
	require.Equal("std::vector< myns::N >", got)

	got, err = ts.NativeType([]any{"vector", 4, 0})
	require.NoError(err)
	require.Equal("std::vector< 4 >", got)

	got, err = ts.NativeLiteral(Bool(true))
	require.NoError(err)
	require.Equal("true", got)
}

func TestInteropType(t *testing.T) {
	require := require.New(t)
	ts := Default()

	cases := map[string]any{
		"int":                       "int32",
		"std_string":                "str",
		"bint":                      "bool",
		"double *":                  []any{"float64", "*"},
		"cpp_vector[int]":           []any{"vector", "int32", 0},
		"cpp_map[std_string, int]":  []any{"map", "str", "int32", 0},
		"xdress_extra_types.uchar":  "uchar",
		"xdress_extra_types.uint32": "uint32",
	}
	for want, d := range cases {
		got, err := ts.InteropType(d)
		require.NoError(err, "interop(%v)", d)
		require.Equal(want, got)
	}
}

func TestBindingType(t *testing.T) {
	require := require.New(t)
	ts := Default()

	got, err := ts.BindingType([]any{"map", "str", "int32", 0})
	require.NoError(err)
	require.Equal("stlcontainers._MapStrInt", got)

	got, err = ts.BindingType([]any{"set", "float64", 0})
	require.NoError(err)
	require.Equal("stlcontainers._SetDouble", got)

	got, err = ts.BindingType([]any{"vector", "int32", 0})
	require.NoError(err)
	require.Equal("np.ndarray", got)

	got, err = ts.BindingType("bool")
	require.NoError(err)
	require.Equal("bool", got)

	// Pointers survive at binding level, refinements collapse.
	got, err = ts.BindingType([]any{"int32", "*"})
	require.NoError(err)
	require.Equal("int *", got)

	got, err = ts.BindingType("posint")
	require.NoError(err)
	require.Equal("int", got)
}

func TestElemKinds(t *testing.T) {
	require := require.New(t)
	ts := Default()

	got, err := ts.ElemKind("int32")
	require.NoError(err)
	require.Equal("np.NPY_INT32", got)

	got, err = ts.ElemKind("MissingEntirely")
	require.ErrorIs(err, ErrUnresolvedType)
	require.Empty(got)

	// Single-slot templates collapse to their element's kind, through
	// any nesting depth.
	got, err = ts.ElemKind([]any{"vector", "float64", 0})
	require.NoError(err)
	require.Equal("np.NPY_FLOAT64", got)

	got, err = ts.ElemKind([]any{"vector", []any{"vector", "float64", 0}, 0})
	require.NoError(err)
	require.Equal("np.NPY_FLOAT64", got)

	// Multi-slot templates have no single element kind.
	got, err = ts.ElemKind([]any{"pair", "int32", "int32", 0})
	require.NoError(err)
	require.Equal("np.NPY_OBJECT", got)

	// The list form gives one kind per slot, one nesting level deep.
	kinds, err := ts.ElemKinds([]any{"map", "int32", "float64", 0})
	require.NoError(err)
	require.Equal([]string{"np.NPY_INT32", "np.NPY_FLOAT64"}, kinds)

	kinds, err = ts.ElemKinds([]any{"vector", []any{"vector", "float64", 0}, 0})
	require.NoError(err)
	require.Equal([]string{"np.NPY_FLOAT64"}, kinds)

	kinds, err = ts.ElemKinds("int32")
	require.NoError(err)
	require.Equal([]string{"np.NPY_INT32"}, kinds)
}

func TestSpecializationPinsSpelling(t *testing.T) {
	require := require.New(t)
	ts := Default()

	v := []any{"vector", "bool", 0}
	require.NoError(ts.RegisterSpecialization(v, SpecializationSpec{
		NativeType:  "special_vec_bool",
		InteropType: "cpp_vector_bool",
	}))

	got, err := ts.NativeType(v)
	require.NoError(err)
	require.Equal("special_vec_bool", got)

	got, err = ts.InteropType(v)
	require.NoError(err)
	require.Equal("cpp_vector_bool", got)

	// Other instantiations still render structurally.
	got, err = ts.NativeType([]any{"vector", "int32", 0})
	require.NoError(err)
	require.Equal("std::vector< int >", got)

	got, err = ts.InteropType([]any{"vector", "int32", 0})
	require.NoError(err)
	require.Equal("cpp_vector[int]", got)

	require.NoError(ts.DeregisterSpecialization(v))
	got, err = ts.NativeType(v)
	require.NoError(err)
	require.Equal("std::vector< bool >", got)

	got, err = ts.InteropType(v)
	require.NoError(err)
	require.Equal("cpp_vector[bint]", got)
}
