package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")

	ts := Default()
	require.NoError(ts.RegisterClass(ClassSpec{
		Name:        "FCComp",
		NativeType:  "pyne::FCComp",
		BindingType: "fccomp.FCComp",
	}))
	require.NoError(ts.Dump(path))

	loaded := Empty()
	require.NoError(loaded.Load(path))

	c, err := loaded.Canon([]any{"vector", "FCComp", 0})
	require.NoError(err)
	require.Equal("(vector FCComp 0)", c.Key())

	got, err := loaded.NativeType("FCComp")
	require.NoError(err)
	require.Equal("pyne::FCComp", got)

	// Dependent refinements survive with their full signatures.
	c, err = loaded.Canon([]any{"intrange", 1, 2})
	require.NoError(err)
	require.Equal("(int32 (intrange (low int32 1) (high int32 2)))", c.Key())

	got, err = loaded.HumanName([]any{"map", "str", "int32", 0})
	require.NoError(err)
	require.Equal("map of (string, integer) items", got)
}

func TestSnapshotGzip(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "registry.yaml.gz")

	ts := Default()
	require.NoError(ts.Dump(path))

	loaded := Empty()
	require.NoError(loaded.Load(path))
	c, err := loaded.Canon("posint")
	require.NoError(err)
	require.Equal("(int32 posint)", c.Key())
}

func TestSnapshotVersionGate(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "old.yaml")
	require.NoError(os.WriteFile(path, []byte("version: v9.0.0\n"), 0o644))

	ts := Default()
	err := ts.Load(path)
	require.Error(err)
	require.Contains(err.Error(), "v9")

	require.NoError(os.WriteFile(path, []byte("version: junk\n"), 0o644))
	require.Error(ts.Load(path))

	require.Error(ts.Load(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestSnapshotSkipsLazyEntries(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "registry.yaml")

	ts := Default()
	ts.Update(Tables{NativeTypes: map[string]SpellEntry{
		"weird": {Fn: func(RefTag, *TypeSystem) (string, error) { return "w", nil }},
	}})
	require.NoError(ts.Dump(path))

	loaded := Empty()
	require.NoError(loaded.Load(path))
	_, ok := loaded.nativeTypes["weird"]
	require.False(ok)
}
