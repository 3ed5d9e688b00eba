package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwapModules(t *testing.T) {
	require := require.New(t)
	ts := Default()
	m := []any{"map", "str", "int32", 0}

	got, err := ts.BindingType(m)
	require.NoError(err)
	require.Equal("stlcontainers._MapStrInt", got)

	restore := ts.SwapContainersModule("sc_other")
	got, err = ts.BindingType(m)
	require.NoError(err)
	require.Equal("sc_other._MapStrInt", got)

	restore()
	got, err = ts.BindingType(m)
	require.NoError(err)
	require.Equal("stlcontainers._MapStrInt", got)
}

func TestSwapExtraTypesModuleEmpty(t *testing.T) {
	require := require.New(t)
	ts := Default()

	restore := ts.SwapExtraTypesModule("")
	defer restore()

	// With no module, the placeholder and its qualifying dot vanish.
	got, err := ts.NativeType("complex128")
	require.NoError(err)
	require.Equal("complex_t", got)
}

func TestSwapRestoredOnPanic(t *testing.T) {
	require := require.New(t)
	ts := Default()

	func() {
		defer func() { require.NotNil(recover()) }()
		restore := ts.SwapDtypesModule("tmp_dtypes")
		defer restore()
		panic("boom")
	}()

	require.Equal("dtypes", ts.DtypesModule())
}

func TestLocalClassNames(t *testing.T) {
	require := require.New(t)
	ts := Default()
	require.NoError(ts.RegisterClass(ClassSpec{
		Name:        "FCComp",
		BindingType: "fccomp.FCComp",
	}))

	restore := ts.LocalClassNames("FCComp")
	got, err := ts.BindingType("FCComp")
	require.NoError(err)
	require.Equal("FCComp", got)

	restore()
	got, err = ts.BindingType("FCComp")
	require.NoError(err)
	require.Equal("fccomp.FCComp", got)
}
