package types

import (
	"github.com/iancoleman/strcase"
)

// Registration API. Every successful mutation clears the memo cache, so
// previously derived spellings can never reflect a stale registry.
// Re-registering a key with a different value is allowed: the new value
// wins and the conflict is logged as a warning.

// ClassSpec registers one class (or class template) with its
// per-backend spellings. Zero-valued fields are derived from Name or
// left unset.
type ClassSpec struct {
	Name         string
	TemplateArgs []string // non-empty declares a template

	NativeType  string
	InteropType string
	BindingType string
	HumanName   string
	FuncName    string
	ClassName   string
	ElemKind    string

	DeclImports []ImportRef
	RunImports  []ImportRef

	ToBind   ToBindTemplate
	FromBind FromBindTemplate
}

// RegisterClass adds a class or class template to the registry.
func (ts *TypeSystem) RegisterClass(spec ClassSpec) error {
	if spec.Name == "" {
		return unresolvedf("class registration needs a name")
	}
	defer ts.invalidate()
	if len(spec.TemplateArgs) > 0 {
		if old, ok := ts.templates[spec.Name]; ok && !equalStrings(old, spec.TemplateArgs) {
			ts.warn("overwriting template %q: %v -> %v", spec.Name, old, spec.TemplateArgs)
		}
		ts.templates[spec.Name] = spec.TemplateArgs
	} else {
		ts.baseTypes[spec.Name] = struct{}{}
	}

	native := spec.NativeType
	if native == "" {
		native = spec.Name
	}
	ts.setSpell("native", ts.nativeTypes, spec.Name, Spell(native))
	if spec.InteropType != "" {
		ts.setSpell("interop", ts.interopSpec, spec.Name, Spell(spec.InteropType))
	}
	if spec.BindingType != "" {
		ts.setSpell("binding", ts.bindSpec, spec.Name, Spell(spec.BindingType))
	}
	if spec.HumanName != "" {
		ts.setString("humannames", ts.humanNames, spec.Name, spec.HumanName)
	}
	if spec.FuncName != "" {
		ts.setString("funcnames", ts.funcNames, spec.Name, spec.FuncName)
	}
	if spec.ClassName != "" {
		ts.setString("classnames", ts.classNames, spec.Name, spec.ClassName)
	}
	if spec.ElemKind != "" {
		ts.setString("elemkinds", ts.elemKinds, spec.Name, spec.ElemKind)
	}
	if len(spec.DeclImports) > 0 {
		ts.declImports[spec.Name] = Imports(spec.DeclImports...)
	}
	if len(spec.RunImports) > 0 {
		ts.runImports[spec.Name] = Imports(spec.RunImports...)
	}
	if len(spec.ToBind) > 0 {
		ts.toBind[spec.Name] = ToBindEntry{Tmpl: spec.ToBind}
	}
	if spec.FromBind != (FromBindTemplate{}) {
		ts.fromBind[spec.Name] = FromBindEntry{Tmpl: spec.FromBind}
	}
	return nil
}

// DeregisterClass removes a class and all of its table entries. Unknown
// names are ignored.
func (ts *TypeSystem) DeregisterClass(name string) {
	defer ts.invalidate()
	delete(ts.baseTypes, name)
	delete(ts.templates, name)
	ts.dropKey(name)
}

// RegisterClassName registers a scanned class by name alone, deriving
// every spelling from the name: the native and interop spellings are
// the name itself, the binding class gets the CapCase form and
// converter functions the snake_case form. Conversions wrap the native
// value in the binding class through its _inst pointer; pointer and
// reference forms resolve to the same entries through predicate
// stripping. pkg, when non-empty, is recorded as the declaration-time
// import module. With dtype set an array dtype is registered for the
// class as well.
func (ts *TypeSystem) RegisterClassName(name, pkg string, dtype bool) error {
	err := ts.RegisterClass(ClassSpec{
		Name:        name,
		HumanName:   name,
		InteropType: name,
		BindingType: strcase.ToCamel(name),
		FuncName:    strcase.ToSnake(name),
		ClassName:   strcase.ToCamel(name),
		ToBind: ToBindTemplate{
			`{{.T.BindingNoPred}}({{.Var}})`,
			"{{.Proxy}} = {{.T.BindingNoPred}}()\n{{.Proxy}}._inst = &{{.Var}}",
			"if {{.Cache}} is None:\n    {{.Proxy}} = {{.T.BindingNoPred}}()\n    {{.Proxy}}._inst = &{{.Var}}\n    {{.Cache}} = {{.Proxy}}",
		},
		FromBind: FromBindTemplate{
			Body: `{{.Proxy}} = <{{.T.BindingNoPred}}> {{.Var}}`,
			Ret:  `(<{{.T.NativeNoPred}} *> {{.Proxy}}._inst)[0]`,
		},
	})
	if err != nil {
		return err
	}
	if pkg != "" {
		ts.declImports[name] = Imports(ImportRef{Module: pkg, Name: name})
		ts.runImports[name] = Imports(ImportRef{Module: pkg})
		ts.invalidate()
	}
	if dtype {
		return ts.RegisterArrayDtype(name)
	}
	return nil
}

// RegisterArrayDtype registers an array element dtype for t, so vectors
// of t spell their element kind through the generated dtypes module.
func (ts *TypeSystem) RegisterArrayDtype(t any) error {
	c, err := ts.Canon(t)
	if err != nil {
		return err
	}
	fname, err := ts.FuncName(c)
	if err != nil {
		return err
	}
	defer ts.invalidate()
	ts.setString("elemkinds", ts.elemKinds, c.Key(), "{dtypes}xd_"+fname+".num")
	ts.runImports[c.Key()] = Imports(ImportRef{Module: "{dtypes}"})
	return nil
}

// RefinementSpec registers one refinement: its signature, the parent it
// refines, and optional spelling and converter overrides keyed by the
// refinement name.
type RefinementSpec struct {
	Sig    Signature
	Parent any

	NativeType  string
	InteropType string
	BindingType string
	HumanName   string

	DeclImports []ImportRef
	RunImports  []ImportRef

	ToBind   ToBindTemplate
	FromBind FromBindTemplate
}

// RegisterRefinement adds a refinement definition to the registry.
func (ts *TypeSystem) RegisterRefinement(spec RefinementSpec) error {
	name := spec.Sig.Name
	if name == "" {
		return unresolvedf("refinement registration needs a name")
	}
	defer ts.invalidate()
	def := RefinedDef{Sig: spec.Sig, Parent: spec.Parent}
	if old, ok := ts.refined[name]; ok && keyOf(old.Parent) != keyOf(def.Parent) {
		ts.warn("overwriting refinement %q: parent %v -> %v",
			name, keyOf(old.Parent), keyOf(def.Parent))
	}
	ts.refined[name] = def
	if spec.NativeType != "" {
		ts.setSpell("native", ts.nativeTypes, name, Spell(spec.NativeType))
	}
	if spec.InteropType != "" {
		ts.setSpell("interop", ts.interopSpec, name, Spell(spec.InteropType))
	}
	if spec.BindingType != "" {
		ts.setSpell("binding", ts.bindSpec, name, Spell(spec.BindingType))
	}
	if spec.HumanName != "" {
		ts.setString("humannames", ts.humanNames, name, spec.HumanName)
	}
	if len(spec.DeclImports) > 0 {
		ts.declImports[name] = Imports(spec.DeclImports...)
	}
	if len(spec.RunImports) > 0 {
		ts.runImports[name] = Imports(spec.RunImports...)
	}
	if len(spec.ToBind) > 0 {
		ts.toBind[name] = ToBindEntry{Tmpl: spec.ToBind}
	}
	if spec.FromBind != (FromBindTemplate{}) {
		ts.fromBind[name] = FromBindEntry{Tmpl: spec.FromBind}
	}
	return nil
}

// DeregisterRefinement removes a refinement and all of its table
// entries. Unknown names are ignored.
func (ts *TypeSystem) DeregisterRefinement(name string) {
	defer ts.invalidate()
	delete(ts.refined, name)
	ts.dropKey(name)
}

// SpecializationSpec pins the spellings of one exact template
// instantiation, overriding structural rendering for it.
type SpecializationSpec struct {
	NativeType  string
	InteropType string
	BindingType string
	FuncName    string
	ClassName   string
}

// RegisterSpecialization binds spec to the exact instantiation t.
func (ts *TypeSystem) RegisterSpecialization(t any, spec SpecializationSpec) error {
	c, err := ts.Canon(t)
	if err != nil {
		return err
	}
	if _, ok := c.(Templated); !ok {
		return unresolvedf("%v is not a template instantiation", c.Key())
	}
	defer ts.invalidate()
	key := c.Key()
	if spec.NativeType != "" {
		ts.setSpell("native", ts.nativeTypes, key, Spell(spec.NativeType))
	}
	if spec.InteropType != "" {
		ts.setSpell("interop", ts.interopSpec, key, Spell(spec.InteropType))
	}
	if spec.BindingType != "" {
		ts.setSpell("binding", ts.bindSpec, key, Spell(spec.BindingType))
	}
	if spec.FuncName != "" {
		ts.setString("funcnames", ts.funcNames, key, spec.FuncName)
	}
	if spec.ClassName != "" {
		ts.setString("classnames", ts.classNames, key, spec.ClassName)
	}
	return nil
}

// DeregisterSpecialization removes the pinned spellings of t.
func (ts *TypeSystem) DeregisterSpecialization(t any) error {
	c, err := ts.Canon(t)
	if err != nil {
		return err
	}
	defer ts.invalidate()
	ts.dropKey(c.Key())
	return nil
}

// RegisterArgumentKinds declares how each slot of a template (by head
// name) or of one exact instantiation renders.
func (ts *TypeSystem) RegisterArgumentKinds(t any, kinds ...ArgKind) error {
	var key string
	var arity int
	if name, ok := t.(string); ok {
		params, found := ts.templates[name]
		if !found {
			return unresolvedf("unknown template %q", name)
		}
		key, arity = name, len(params)
	} else {
		c, err := ts.Canon(t)
		if err != nil {
			return err
		}
		tc, ok := c.(Templated)
		if !ok {
			return unresolvedf("%v is not a template instantiation", c.Key())
		}
		key, arity = tc.Key(), len(tc.Slots)
	}
	if len(kinds) != arity {
		return arityf("%v takes %d argument kinds, got %d", key, arity, len(kinds))
	}
	defer ts.invalidate()
	if old, ok := ts.argKinds[key]; ok && !equalKinds(old, kinds) {
		ts.warn("overwriting argument kinds for %v: %v -> %v", key, old, kinds)
	}
	ts.argKinds[key] = kinds
	return nil
}

// DeregisterArgumentKinds removes the argument kinds of t.
func (ts *TypeSystem) DeregisterArgumentKinds(t any) {
	defer ts.invalidate()
	if name, ok := t.(string); ok {
		delete(ts.argKinds, name)
		return
	}
	if c, err := ts.Canon(t); err == nil {
		delete(ts.argKinds, c.Key())
	}
}

// RegisterVariableNamespace records the namespace a free variable lives
// in. When t is a registered enum instance, every alias the enum
// declares is namespaced as well.
func (ts *TypeSystem) RegisterVariableNamespace(name, ns string, t any) error {
	defer ts.invalidate()
	ts.setString("varns", ts.varNS, name, ns)
	if t == nil {
		return nil
	}
	enum, err := ts.IsEnum(t)
	if err != nil {
		return err
	}
	if !enum {
		return nil
	}
	c, err := ts.Canon(t)
	if err != nil {
		return err
	}
	tag, _ := refinementTag(c)
	for _, d := range tag.Deps {
		if d.Name != "aliases" {
			continue
		}
		for _, alias := range enumAliasNames(d.Value) {
			ts.setString("varns", ts.varNS, alias, ns)
		}
	}
	return nil
}

// DeregisterVariableNamespace forgets the namespace of a variable.
func (ts *TypeSystem) DeregisterVariableNamespace(name string) {
	defer ts.invalidate()
	delete(ts.varNS, name)
}

func enumAliasNames(v any) []string {
	var names []string
	switch v := v.(type) {
	case map[string]any:
		for k := range v {
			names = append(names, k)
		}
	case map[string]int:
		for k := range v {
			names = append(names, k)
		}
	case []any:
		for _, e := range v {
			if pair, ok := e.([]any); ok && len(pair) > 0 {
				if n, ok := pair[0].(string); ok {
					names = append(names, n)
				}
			}
		}
	}
	return names
}

// dropKey removes a key from every spelling, naming, import, converter
// and kind table.
func (ts *TypeSystem) dropKey(key string) {
	delete(ts.nativeTypes, key)
	delete(ts.interopSpec, key)
	delete(ts.bindSpec, key)
	delete(ts.humanNames, key)
	delete(ts.funcNames, key)
	delete(ts.classNames, key)
	delete(ts.elemKinds, key)
	delete(ts.declImports, key)
	delete(ts.runImports, key)
	delete(ts.toBind, key)
	delete(ts.fromBind, key)
	delete(ts.argKinds, key)
}

func (ts *TypeSystem) setSpell(table string, m map[string]SpellEntry, k string, e SpellEntry) {
	if old, ok := m[k]; ok && old.Fn == nil && e.Fn == nil && old.Value != e.Value {
		ts.warn("overwriting %s spelling of %q: %q -> %q", table, k, old.Value, e.Value)
	}
	m[k] = e
}

func (ts *TypeSystem) setString(table string, m map[string]string, k, v string) {
	if old, ok := m[k]; ok && old != v {
		ts.warn("overwriting %s[%q]: %q -> %q", table, k, old, v)
	}
	m[k] = v
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalKinds(a, b []ArgKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
