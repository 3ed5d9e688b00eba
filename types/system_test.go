package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithOverrides(t *testing.T) {
	require := require.New(t)
	ts := New(Tables{
		BaseTypes: map[string]struct{}{"only": {}},
	})

	// The overridden table replaces the default wholesale.
	_, err := ts.Canon("int32")
	require.ErrorIs(err, ErrUnresolvedType)
	c, err := ts.Canon("only")
	require.NoError(err)
	require.Equal(Atomic("only"), c)

	// Tables not overridden keep their defaults.
	require.Contains(ts.Templates(), "vector")
	require.Equal("dtypes", ts.DtypesModule())
}

func TestEmpty(t *testing.T) {
	require := require.New(t)
	ts := Empty()

	_, err := ts.Canon("int32")
	require.ErrorIs(err, ErrUnresolvedType)

	require.NoError(ts.RegisterClass(ClassSpec{Name: "thing", NativeType: "Thing"}))
	got, err := ts.NativeType("thing")
	require.NoError(err)
	require.Equal("Thing", got)
}

func TestUpdateMergesAndInvalidates(t *testing.T) {
	require := require.New(t)
	ts := Default()

	got, err := ts.NativeType("int32")
	require.NoError(err)
	require.Equal("int", got)

	ts.Update(Tables{
		NativeTypes: map[string]SpellEntry{"int32": Spell("i32")},
		Aliases:     map[string]any{"myint": "int32"},
	})

	got, err = ts.NativeType("int32")
	require.NoError(err)
	require.Equal("i32", got)

	c, err := ts.Canon("myint")
	require.NoError(err)
	require.Equal(Atomic("int32"), c)

	// Untouched tables survive the merge.
	require.Contains(ts.BaseTypes(), "float64")
}

func TestUpdateFrom(t *testing.T) {
	require := require.New(t)
	a := Default()
	b := Empty()
	require.NoError(b.RegisterClass(ClassSpec{Name: "Widget", NativeType: "ui::Widget"}))

	a.UpdateFrom(b)
	got, err := a.NativeType("Widget")
	require.NoError(err)
	require.Equal("ui::Widget", got)
	// The source registry still has only its own entries.
	_, err = b.Canon("int32")
	require.ErrorIs(err, ErrUnresolvedType)
}

func TestTableSetIsACopy(t *testing.T) {
	require := require.New(t)
	ts := Default()
	tables := ts.TableSet()
	delete(tables.BaseTypes, "int32")

	_, err := ts.Canon("int32")
	require.NoError(err)
}

func TestDescriptorRoundTrip(t *testing.T) {
	require := require.New(t)
	ts := Default()

	for _, d := range []any{
		"int32",
		[]any{"int32", "*"},
		[]any{"vector", "int32", 0},
		[]any{"map", "str", []any{"set", "f8", 0}, "posint"},
		[]any{"intrange", 1, 2},
	} {
		c, err := ts.Canon(d)
		require.NoError(err)
		back, err := ts.Canon(Descriptor(c))
		require.NoError(err)
		require.True(Equal(c, back), "descriptor round trip broke %v", c.Key())
	}
}

func TestExpandModules(t *testing.T) {
	require := require.New(t)
	ts := Default()

	require.Equal("stlcontainers._Map", ts.expandModules("{stlcontainers}_Map"))
	require.Equal("plain", ts.expandModules("plain"))

	restore := ts.SwapContainersModule("")
	defer restore()
	require.Equal("_Map", ts.expandModules("{stlcontainers}_Map"))
}

func TestArgKindStrings(t *testing.T) {
	require := require.New(t)
	for _, k := range []ArgKind{ArgNone, ArgType, ArgLit, ArgVar} {
		parsed, err := ParseArgKind(k.String())
		require.NoError(err)
		require.Equal(k, parsed)
	}
	_, err := ParseArgKind("nope")
	require.Error(err)
}
