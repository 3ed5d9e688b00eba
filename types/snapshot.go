package types

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/mod/semver"
)

// Registry snapshots. Dump writes every static table to YAML (gzipped
// for .gz paths); Load merges a snapshot back in. Lazy entries cannot
// be serialized and are skipped with a warning. Snapshots carry a
// format version; loading rejects snapshots from another major version.

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "v1.0.0"

type snapshot struct {
	Version     string              `yaml:"version"`
	BaseTypes   []string            `yaml:"base_types,omitempty"`
	Templates   map[string][]string `yaml:"templates,omitempty"`
	Refined     []refinedSnap       `yaml:"refined,omitempty"`
	Aliases     map[string]any      `yaml:"aliases,omitempty"`
	HumanNames  map[string]string   `yaml:"human_names,omitempty"`
	NativeTypes map[string]string   `yaml:"native_types,omitempty"`
	InteropSpec map[string]string   `yaml:"interop_spec,omitempty"`
	BindSpec    map[string]string   `yaml:"bind_spec,omitempty"`
	ElemKinds   map[string]string   `yaml:"elem_kinds,omitempty"`
	FuncNames   map[string]string   `yaml:"func_names,omitempty"`
	ClassNames  map[string]string   `yaml:"class_names,omitempty"`

	DeclImports map[string][]importSnap `yaml:"decl_imports,omitempty"`
	RunImports  map[string][]importSnap `yaml:"run_imports,omitempty"`

	ToBind   map[string][]string     `yaml:"to_bind,omitempty"`
	FromBind map[string]fromBindSnap `yaml:"from_bind,omitempty"`

	ArgKinds map[string][]string `yaml:"arg_kinds,omitempty"`
	VarNS    map[string]string   `yaml:"var_ns,omitempty"`

	ExtraTypesModule string `yaml:"extra_types_module,omitempty"`
	DtypesModule     string `yaml:"dtypes_module,omitempty"`
	ContainersModule string `yaml:"containers_module,omitempty"`
}

type refinedSnap struct {
	Name   string      `yaml:"name"`
	Params []paramSnap `yaml:"params,omitempty"`
	Parent any         `yaml:"parent"`
}

type paramSnap struct {
	Name string `yaml:"name"`
	Type any    `yaml:"type,omitempty"`
}

type importSnap struct {
	Module string `yaml:"module"`
	Name   string `yaml:"name,omitempty"`
	Alias  string `yaml:"alias,omitempty"`
}

type fromBindSnap struct {
	Body string `yaml:"body"`
	Ret  string `yaml:"ret,omitempty"`
}

// Dump writes the registry tables to path. A .gz suffix selects gzip
// compression.
func (ts *TypeSystem) Dump(path string) error {
	data, err := yaml.Marshal(ts.makeSnapshot())
	if err != nil {
		return fmt.Errorf("marshaling registry snapshot: %w", err)
	}
	if strings.HasSuffix(path, ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	return os.WriteFile(path, data, 0o644)
}

// Load merges a snapshot file into the registry and invalidates the
// cache.
func (ts *TypeSystem) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("reading snapshot %v: %w", path, err)
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return fmt.Errorf("reading snapshot %v: %w", path, err)
		}
		if err := zr.Close(); err != nil {
			return err
		}
	}
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parsing snapshot %v: %w", path, err)
	}
	if !semver.IsValid(snap.Version) {
		return fmt.Errorf("snapshot %v has invalid version %q", path, snap.Version)
	}
	if semver.Major(snap.Version) != semver.Major(SnapshotVersion) {
		return fmt.Errorf("snapshot %v is format %v, want %v",
			path, semver.Major(snap.Version), semver.Major(SnapshotVersion))
	}
	ts.Update(snap.tables())
	return nil
}

func (ts *TypeSystem) makeSnapshot() snapshot {
	snap := snapshot{
		Version:     SnapshotVersion,
		Templates:   ts.templates,
		Aliases:     map[string]any{},
		HumanNames:  ts.humanNames,
		ElemKinds:   ts.elemKinds,
		FuncNames:   ts.funcNames,
		ClassNames:  ts.classNames,
		NativeTypes: map[string]string{},
		InteropSpec: map[string]string{},
		BindSpec:    map[string]string{},
		DeclImports: map[string][]importSnap{},
		RunImports:  map[string][]importSnap{},
		ToBind:      map[string][]string{},
		FromBind:    map[string]fromBindSnap{},
		ArgKinds:    map[string][]string{},
		VarNS:       ts.varNS,

		ExtraTypesModule: ts.extraTypesModule,
		DtypesModule:     ts.dtypesModule,
		ContainersModule: ts.containersModule,
	}
	for name := range ts.baseTypes {
		snap.BaseTypes = append(snap.BaseTypes, name)
	}
	sort.Strings(snap.BaseTypes)
	for name, def := range ts.refined {
		r := refinedSnap{Name: name, Parent: descriptorize(def.Parent)}
		for _, p := range def.Sig.Params {
			r.Params = append(r.Params, paramSnap{Name: p.Name, Type: descriptorize(p.Type)})
		}
		snap.Refined = append(snap.Refined, r)
	}
	sort.Slice(snap.Refined, func(i, j int) bool { return snap.Refined[i].Name < snap.Refined[j].Name })
	for name, v := range ts.aliases {
		snap.Aliases[name] = descriptorize(v)
	}
	ts.snapSpells("native", ts.nativeTypes, snap.NativeTypes)
	ts.snapSpells("interop", ts.interopSpec, snap.InteropSpec)
	ts.snapSpells("binding", ts.bindSpec, snap.BindSpec)
	ts.snapImports("decl", ts.declImports, snap.DeclImports)
	ts.snapImports("run", ts.runImports, snap.RunImports)
	for key, e := range ts.toBind {
		if e.Fn != nil {
			ts.warn("skipping lazy to-binding converter %q in snapshot", key)
			continue
		}
		snap.ToBind[key] = e.Tmpl
	}
	for key, e := range ts.fromBind {
		if e.Fn != nil {
			ts.warn("skipping lazy from-binding converter %q in snapshot", key)
			continue
		}
		snap.FromBind[key] = fromBindSnap{Body: e.Tmpl.Body, Ret: e.Tmpl.Ret}
	}
	for key, kinds := range ts.argKinds {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		snap.ArgKinds[key] = names
	}
	return snap
}

func (ts *TypeSystem) snapSpells(table string, src map[string]SpellEntry, dst map[string]string) {
	for key, e := range src {
		if e.Fn != nil {
			ts.warn("skipping lazy %s spelling %q in snapshot", table, key)
			continue
		}
		dst[key] = e.Value
	}
}

func (ts *TypeSystem) snapImports(table string, src map[string]ImportEntry, dst map[string][]importSnap) {
	for key, e := range src {
		if e.Fn != nil {
			ts.warn("skipping lazy %s import %q in snapshot", table, key)
			continue
		}
		refs := make([]importSnap, len(e.Refs))
		for i, r := range e.Refs {
			refs[i] = importSnap{Module: r.Module, Name: r.Name, Alias: r.Alias}
		}
		dst[key] = refs
	}
}

func (snap snapshot) tables() Tables {
	t := Tables{
		Templates:   snap.Templates,
		HumanNames:  snap.HumanNames,
		ElemKinds:   snap.ElemKinds,
		FuncNames:   snap.FuncNames,
		ClassNames:  snap.ClassNames,
		Aliases:     snap.Aliases,
		VarNS:       snap.VarNS,
		BaseTypes:   map[string]struct{}{},
		Refined:     map[string]RefinedDef{},
		NativeTypes: map[string]SpellEntry{},
		InteropSpec: map[string]SpellEntry{},
		BindSpec:    map[string]SpellEntry{},
		DeclImports: map[string]ImportEntry{},
		RunImports:  map[string]ImportEntry{},
		ToBind:      map[string]ToBindEntry{},
		FromBind:    map[string]FromBindEntry{},
		ArgKinds:    map[string][]ArgKind{},

		ExtraTypesModule: snap.ExtraTypesModule,
		DtypesModule:     snap.DtypesModule,
		ContainersModule: snap.ContainersModule,
	}
	for _, name := range snap.BaseTypes {
		t.BaseTypes[name] = struct{}{}
	}
	for _, r := range snap.Refined {
		def := RefinedDef{Sig: Signature{Name: r.Name}, Parent: r.Parent}
		for _, p := range r.Params {
			def.Sig.Params = append(def.Sig.Params, Param{Name: p.Name, Type: p.Type})
		}
		t.Refined[r.Name] = def
	}
	for key, v := range snap.NativeTypes {
		t.NativeTypes[key] = Spell(v)
	}
	for key, v := range snap.InteropSpec {
		t.InteropSpec[key] = Spell(v)
	}
	for key, v := range snap.BindSpec {
		t.BindSpec[key] = Spell(v)
	}
	for key, refs := range snap.DeclImports {
		t.DeclImports[key] = importEntryOf(refs)
	}
	for key, refs := range snap.RunImports {
		t.RunImports[key] = importEntryOf(refs)
	}
	for key, tmpl := range snap.ToBind {
		t.ToBind[key] = ToBindEntry{Tmpl: tmpl}
	}
	for key, f := range snap.FromBind {
		t.FromBind[key] = FromBindEntry{Tmpl: FromBindTemplate{Body: f.Body, Ret: f.Ret}}
	}
	for key, names := range snap.ArgKinds {
		kinds := make([]ArgKind, 0, len(names))
		for _, n := range names {
			if k, err := ParseArgKind(n); err == nil {
				kinds = append(kinds, k)
			}
		}
		t.ArgKinds[key] = kinds
	}
	return t
}

func importEntryOf(refs []importSnap) ImportEntry {
	e := ImportEntry{Refs: make([]ImportRef, len(refs))}
	for i, r := range refs {
		e.Refs[i] = ImportRef{Module: r.Module, Name: r.Name, Alias: r.Alias}
	}
	return e
}

// descriptorize turns table values that may hold canonical types back
// into loose descriptors for serialization.
func descriptorize(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case Type:
		return Descriptor(v)
	case Slot:
		return slotDescriptor(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = descriptorize(e)
		}
		return out
	default:
		return v
	}
}
