package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToBindingConvExpression(t *testing.T) {
	require := require.New(t)
	ts := Default()

	code, err := ts.ToBindingConv("int32", "x", ConvOpts{})
	require.NoError(err)
	require.Equal(ConvCode{Ret: "int(x)"}, code)

	code, err = ts.ToBindingConv("str", "s", ConvOpts{})
	require.NoError(err)
	require.Equal("bytes(<char *> s.c_str()).decode()", code.Ret)
	require.Empty(code.Body)

	// Refinements convert like their parent.
	code, err = ts.ToBindingConv("posint", "n", ConvOpts{})
	require.NoError(err)
	require.Equal("int(n)", code.Ret)
}

func TestToBindingConvViewAndCached(t *testing.T) {
	require := require.New(t)
	ts := Default()
	m := []any{"map", "str", "int32", 0}

	view, err := ts.ToBindingConv(m, "attr", ConvOpts{View: true})
	require.NoError(err)
	require.Equal("cdef stlcontainers._MapStrInt attr_proxy", view.Decl)
	require.Equal("attr_proxy = stlcontainers._MapStrInt(False, False)\nattr_proxy.map_ptr = &attr", view.Body)
	require.Equal("attr_proxy", view.Ret)
	require.False(view.Cached)

	cached, err := ts.ToBindingConv(m, "attr", DefaultConvOpts())
	require.NoError(err)
	require.True(cached.Cached)
	require.Equal("self._attr", cached.Ret)
	require.Contains(cached.Body, "if self._attr is None:")
	require.Contains(cached.Body, "attr_proxy.map_ptr = &attr")

	// The cache guard wraps the proxy construction, so caching without
	// a view is rejected.
	_, err = ts.ToBindingConv(m, "attr", ConvOpts{Cached: true})
	require.Error(err)
}

func TestFromBindingConv(t *testing.T) {
	require := require.New(t)
	ts := Default()

	// Expression-only conversion.
	code, err := ts.FromBindingConv("float64", "x", ConvOpts{})
	require.NoError(err)
	require.Equal(ConvCode{Ret: "<double> x"}, code)

	// Body-and-return conversion with a proxy declaration.
	code, err = ts.FromBindingConv("str", "s", ConvOpts{})
	require.NoError(err)
	require.Equal("cdef std_string s_proxy", code.Decl)
	require.Equal("s_proxy = std_string(<char *> s)", code.Body)
	require.Equal("s_proxy", code.Ret)

	code, err = ts.FromBindingConv([]any{"set", "int32", 0}, "v", ConvOpts{})
	require.NoError(err)
	require.Equal("v_proxy.set_ptr[0]", code.Ret)
	require.Contains(code.Body, "stlcontainers._SetInt(v, not isinstance(v, stlcontainers._SetInt))")
}

func TestConvMissing(t *testing.T) {
	require := require.New(t)
	ts := Default()

	_, err := ts.ToBindingConv([]any{"pair", "int32", "int32", 0}, "p", ConvOpts{})
	require.ErrorIs(err, ErrConverterMissing)

	_, err = ts.FromBindingConv([]any{"pair", "int32", "int32", 0}, "p", ConvOpts{})
	require.ErrorIs(err, ErrConverterMissing)
}

func TestConvDependencySubstitution(t *testing.T) {
	require := require.New(t)
	ts := Default()
	require.NoError(ts.RegisterRefinement(RefinementSpec{
		Sig: Signature{Name: "bounded", Params: []Param{
			{Name: "low", Type: "int32"},
			{Name: "high", Type: "int32"},
		}},
		Parent:   "int32",
		FromBind: FromBindTemplate{Body: `clamp({{.Var}}, {{.Deps.low}}, {{.Deps.high}})`},
	}))

	code, err := ts.FromBindingConv([]any{"bounded", 0, 100}, "x", ConvOpts{})
	require.NoError(err)
	require.Equal("clamp(x, 0, 100)", code.Ret)
}

func TestConvNestedRefinementDependency(t *testing.T) {
	require := require.New(t)
	ts := Default()
	// A dependency whose declared type is itself a refinement goes
	// through its own conversion before substitution.
	require.NoError(ts.RegisterRefinement(RefinementSpec{
		Sig: Signature{Name: "scaled", Params: []Param{
			{Name: "factor", Type: "posint"},
		}},
		Parent:   "float64",
		FromBind: FromBindTemplate{Body: `{{.Var}} / ({{.Deps.factor}})`},
	}))

	code, err := ts.FromBindingConv([]any{"scaled", 7}, "x", ConvOpts{})
	require.NoError(err)
	require.Equal("x / (<int> 7)", code.Ret)
}

func TestConvLazyMaterialization(t *testing.T) {
	require := require.New(t)
	ts := Default()
	calls := 0
	ts.Update(Tables{ToBind: map[string]ToBindEntry{
		"posint": {Fn: func(c Type, ts *TypeSystem) (ToBindTemplate, error) {
			calls++
			return ToBindTemplate{`check_pos({{.Var}})`}, nil
		}},
	}})

	for i := 0; i < 2; i++ {
		code, err := ts.ToBindingConv("posint", "n", ConvOpts{})
		require.NoError(err)
		require.Equal("check_pos(n)", code.Ret)
	}
	// The entry was materialized under the exact key after the first
	// resolution.
	require.Equal(1, calls)
}
