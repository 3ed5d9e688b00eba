package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scopatz/xdress/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const sampleSource = `package reactor

type FuelCycle struct{}

type coolant struct{}

type Reactor interface{}

var Capacity = 42

var hidden = 1

func Simulate(r Reactor) {}

func (f FuelCycle) Step() {}

func helper() {}
`

func TestScan(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/powerplant\n\ngo 1.24\n")
	src := filepath.Join(dir, "reactor", "reactor.go")
	writeFile(t, src, sampleSource)

	tu, err := Scan(src, Options{})
	require.NoError(err)
	require.Equal("example.com/powerplant/reactor", tu.Package)
	require.Equal([]string{"FuelCycle", "Reactor"}, tu.Classes)
	require.Equal([]string{"Simulate"}, tu.Funcs)
	require.Equal([]string{"Capacity"}, tu.Vars)

	tu, err = Scan(src, Options{IncludeUnexported: true})
	require.NoError(err)
	require.Equal([]string{"FuelCycle", "Reactor", "coolant"}, tu.Classes)
	require.Equal([]string{"Simulate", "helper"}, tu.Funcs)
}

func TestScanWithoutGoMod(t *testing.T) {
	require := require.New(t)
	src := filepath.Join(t.TempDir(), "lone.go")
	writeFile(t, src, "package lone\n\ntype Thing struct{}\n")

	tu, err := Scan(src, Options{})
	require.NoError(err)
	// Falls back to the bare package name.
	require.Equal("lone", tu.Package)
	require.Equal([]string{"Thing"}, tu.Classes)
}

func TestRegister(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/powerplant\n\ngo 1.24\n")
	src := filepath.Join(dir, "reactor.go")
	writeFile(t, src, "package powerplant\n\ntype FuelCycle struct{}\n")

	tu, err := Scan(src, Options{})
	require.NoError(err)

	ts := types.Default()
	require.NoError(tu.Register(ts, Options{}))

	got, err := ts.ClassName("FuelCycle")
	require.NoError(err)
	require.Equal("FuelCycle", got)

	set, err := ts.DeclImports("FuelCycle")
	require.NoError(err)
	require.Contains(set, types.ImportRef{Module: "example.com/powerplant", Name: "FuelCycle"})
}

func TestScanErrors(t *testing.T) {
	require := require.New(t)
	_, err := Scan(filepath.Join(t.TempDir(), "missing.go"), Options{})
	require.Error(err)

	bad := filepath.Join(t.TempDir(), "bad.go")
	writeFile(t, bad, "this is not go\n")
	_, err = Scan(bad, Options{})
	require.Error(err)
}
