package types

import (
	"maps"
	"strings"
)

// RefinedDef declares a refinement: its signature (empty params for a
// simple refinement) and the parent type descriptor it refines.
type RefinedDef struct {
	Sig    Signature
	Parent any
}

// Tables is the full registry table set. Nil fields passed to [New]
// fall back to the built-in defaults.
type Tables struct {
	BaseTypes   map[string]struct{}
	Templates   map[string][]string // template name -> ordered slot names
	Refined     map[string]RefinedDef
	Aliases     map[string]any // alias name -> descriptor
	HumanNames  map[string]string
	NativeTypes map[string]SpellEntry
	InteropSpec map[string]SpellEntry
	BindSpec    map[string]SpellEntry
	ElemKinds   map[string]string
	FuncNames   map[string]string // lowercase_underscore format fragments
	ClassNames  map[string]string // CapCase format fragments
	DeclImports map[string]ImportEntry
	RunImports  map[string]ImportEntry
	ToBind      map[string]ToBindEntry
	FromBind    map[string]FromBindEntry
	ArgKinds    map[string][]ArgKind
	VarNS       map[string]string

	// Module-name strings substituted into spellings and imports.
	ExtraTypesModule string
	DtypesModule     string
	ContainersModule string
}

// TypeSystem is a registry of type knowledge plus a memo cache over all
// derivations. Mutate it only through the Register/Deregister methods
// and the scoped swaps; every mutation invalidates the cache.
type TypeSystem struct {
	baseTypes   map[string]struct{}
	templates   map[string][]string
	refined     map[string]RefinedDef
	aliases     map[string]any
	humanNames  map[string]string
	nativeTypes map[string]SpellEntry
	interopSpec map[string]SpellEntry
	bindSpec    map[string]SpellEntry
	elemKinds   map[string]string
	funcNames   map[string]string
	classNames  map[string]string
	declImports map[string]ImportEntry
	runImports  map[string]ImportEntry
	toBind      map[string]ToBindEntry
	fromBind    map[string]FromBindEntry
	argKinds    map[string][]ArgKind
	varNS       map[string]string

	extraTypesModule string
	dtypesModule     string
	containersModule string

	logger *Logger
	cache  map[cacheKey]any
}

// New creates a TypeSystem from t, filling every nil table with the
// built-in default.
func New(t Tables) *TypeSystem {
	d := defaultTables()
	ts := &TypeSystem{
		baseTypes:   pick(t.BaseTypes, d.BaseTypes),
		templates:   pick(t.Templates, d.Templates),
		refined:     pick(t.Refined, d.Refined),
		aliases:     pick(t.Aliases, d.Aliases),
		humanNames:  pick(t.HumanNames, d.HumanNames),
		nativeTypes: pick(t.NativeTypes, d.NativeTypes),
		interopSpec: pick(t.InteropSpec, d.InteropSpec),
		bindSpec:    pick(t.BindSpec, d.BindSpec),
		elemKinds:   pick(t.ElemKinds, d.ElemKinds),
		funcNames:   pick(t.FuncNames, d.FuncNames),
		classNames:  pick(t.ClassNames, d.ClassNames),
		declImports: pick(t.DeclImports, d.DeclImports),
		runImports:  pick(t.RunImports, d.RunImports),
		toBind:      pick(t.ToBind, d.ToBind),
		fromBind:    pick(t.FromBind, d.FromBind),
		argKinds:    pick(t.ArgKinds, d.ArgKinds),
		varNS:       pick(t.VarNS, d.VarNS),

		extraTypesModule: pickStr(t.ExtraTypesModule, d.ExtraTypesModule),
		dtypesModule:     pickStr(t.DtypesModule, d.DtypesModule),
		containersModule: pickStr(t.ContainersModule, d.ContainersModule),

		cache: map[cacheKey]any{},
	}
	return ts
}

// Default creates a TypeSystem with all built-in tables.
func Default() *TypeSystem { return New(Tables{}) }

// Empty creates a TypeSystem with every table empty, for callers
// building a fully custom type universe.
func Empty() *TypeSystem {
	return &TypeSystem{
		baseTypes:   map[string]struct{}{},
		templates:   map[string][]string{},
		refined:     map[string]RefinedDef{},
		aliases:     map[string]any{},
		humanNames:  map[string]string{},
		nativeTypes: map[string]SpellEntry{},
		interopSpec: map[string]SpellEntry{},
		bindSpec:    map[string]SpellEntry{},
		elemKinds:   map[string]string{},
		funcNames:   map[string]string{},
		classNames:  map[string]string{},
		declImports: map[string]ImportEntry{},
		runImports:  map[string]ImportEntry{},
		toBind:      map[string]ToBindEntry{},
		fromBind:    map[string]FromBindEntry{},
		argKinds:    map[string][]ArgKind{},
		varNS:       map[string]string{},
		cache:       map[cacheKey]any{},
	}
}

func pick[M ~map[K]V, K comparable, V any](override, def M) M {
	if override != nil {
		return maps.Clone(override)
	}
	return def
}

func pickStr(override, def string) string {
	if override != "" {
		return override
	}
	return def
}

// SetLogger sets the logger used for registration warnings. A nil
// logger silences them.
func (ts *TypeSystem) SetLogger(l *Logger) { ts.logger = l }

func (ts *TypeSystem) warn(format string, args ...any) {
	if ts.logger != nil {
		ts.logger.Log(WARN, format, args...)
	}
}

// Update merges another table set into this one, then invalidates the
// cache. Non-nil maps are merged key-by-key (new values win); non-empty
// module names replace the current ones.
func (ts *TypeSystem) Update(t Tables) {
	defer ts.invalidate()
	maps.Copy(ts.baseTypes, t.BaseTypes)
	maps.Copy(ts.templates, t.Templates)
	maps.Copy(ts.refined, t.Refined)
	maps.Copy(ts.aliases, t.Aliases)
	maps.Copy(ts.humanNames, t.HumanNames)
	maps.Copy(ts.nativeTypes, t.NativeTypes)
	maps.Copy(ts.interopSpec, t.InteropSpec)
	maps.Copy(ts.bindSpec, t.BindSpec)
	maps.Copy(ts.elemKinds, t.ElemKinds)
	maps.Copy(ts.funcNames, t.FuncNames)
	maps.Copy(ts.classNames, t.ClassNames)
	maps.Copy(ts.declImports, t.DeclImports)
	maps.Copy(ts.runImports, t.RunImports)
	maps.Copy(ts.toBind, t.ToBind)
	maps.Copy(ts.fromBind, t.FromBind)
	maps.Copy(ts.argKinds, t.ArgKinds)
	maps.Copy(ts.varNS, t.VarNS)
	if t.ExtraTypesModule != "" {
		ts.extraTypesModule = t.ExtraTypesModule
	}
	if t.DtypesModule != "" {
		ts.dtypesModule = t.DtypesModule
	}
	if t.ContainersModule != "" {
		ts.containersModule = t.ContainersModule
	}
}

// UpdateFrom merges all tables of another TypeSystem into this one.
func (ts *TypeSystem) UpdateFrom(other *TypeSystem) {
	ts.Update(other.TableSet())
}

// TableSet returns a copy of all registry tables.
func (ts *TypeSystem) TableSet() Tables {
	return Tables{
		BaseTypes:   maps.Clone(ts.baseTypes),
		Templates:   maps.Clone(ts.templates),
		Refined:     maps.Clone(ts.refined),
		Aliases:     maps.Clone(ts.aliases),
		HumanNames:  maps.Clone(ts.humanNames),
		NativeTypes: maps.Clone(ts.nativeTypes),
		InteropSpec: maps.Clone(ts.interopSpec),
		BindSpec:    maps.Clone(ts.bindSpec),
		ElemKinds:   maps.Clone(ts.elemKinds),
		FuncNames:   maps.Clone(ts.funcNames),
		ClassNames:  maps.Clone(ts.classNames),
		DeclImports: maps.Clone(ts.declImports),
		RunImports:  maps.Clone(ts.runImports),
		ToBind:      maps.Clone(ts.toBind),
		FromBind:    maps.Clone(ts.fromBind),
		ArgKinds:    maps.Clone(ts.argKinds),
		VarNS:       maps.Clone(ts.varNS),

		ExtraTypesModule: ts.extraTypesModule,
		DtypesModule:     ts.dtypesModule,
		ContainersModule: ts.containersModule,
	}
}

// BaseTypes returns the registered base type names.
func (ts *TypeSystem) BaseTypes() map[string]struct{} { return maps.Clone(ts.baseTypes) }

// Templates returns the registered template arities.
func (ts *TypeSystem) Templates() map[string][]string { return maps.Clone(ts.templates) }

// Refinements returns the registered refinement definitions.
func (ts *TypeSystem) Refinements() map[string]RefinedDef { return maps.Clone(ts.refined) }

// Aliases returns the registered alias table.
func (ts *TypeSystem) Aliases() map[string]any { return maps.Clone(ts.aliases) }

// ExtraTypesModule returns the extra-types module name.
func (ts *TypeSystem) ExtraTypesModule() string { return ts.extraTypesModule }

// DtypesModule returns the dtypes module name.
func (ts *TypeSystem) DtypesModule() string { return ts.dtypesModule }

// ContainersModule returns the containers module name.
func (ts *TypeSystem) ContainersModule() string { return ts.containersModule }

// expandModules substitutes the {extra_types}, {dtypes} and
// {stlcontainers} placeholders in registry-supplied strings. The
// substituted values change under the scoped swaps, which is one of the
// reasons mutation must clear the whole memo cache.
func (ts *TypeSystem) expandModules(s string) string {
	if !strings.ContainsRune(s, '{') {
		return s
	}
	qual := func(m string) string {
		if m == "" {
			return ""
		}
		return m + "."
	}
	r := strings.NewReplacer(
		"{extra_types}", qual(ts.extraTypesModule),
		"{dtypes}", qual(ts.dtypesModule),
		"{stlcontainers}", qual(ts.containersModule),
	)
	return r.Replace(s)
}
