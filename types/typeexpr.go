package types

// TypeExpr bundles every spelling of one canonical type behind lazy
// accessors. Converter templates receive it as {{.T}} so a template can
// reference any backend spelling without the resolver computing them
// all up front. Each accessor returns (string, error); text/template
// aborts execution on a non-nil error.
type TypeExpr struct {
	t  Type
	ts *TypeSystem
}

// Expr returns the spelling bundle for t.
func (ts *TypeSystem) Expr(t any) (*TypeExpr, error) {
	c, err := ts.Canon(t)
	if err != nil {
		return nil, err
	}
	return &TypeExpr{t: c, ts: ts}, nil
}

// Type returns the underlying canonical type.
func (x *TypeExpr) Type() Type { return x.t }

// Key returns the canonical key.
func (x *TypeExpr) Key() string { return x.t.Key() }

// Native returns the native spelling.
func (x *TypeExpr) Native() (string, error) { return x.ts.NativeType(x.t) }

// NativeCompact returns the tight native spelling.
func (x *TypeExpr) NativeCompact() (string, error) { return x.ts.NativeTypeCompact(x.t) }

// Interop returns the low-level interop spelling.
func (x *TypeExpr) Interop() (string, error) { return x.ts.InteropType(x.t) }

// Binding returns the high-level binding spelling.
func (x *TypeExpr) Binding() (string, error) { return x.ts.BindingType(x.t) }

// ElemKind returns the array element-kind constant.
func (x *TypeExpr) ElemKind() (string, error) { return x.ts.ElemKind(x.t) }

// ElemKindList returns the per-slot element kinds, one level deep.
func (x *TypeExpr) ElemKindList() ([]string, error) { return x.ts.ElemKinds(x.t) }

// FuncName returns the lowercase_underscore mangled name.
func (x *TypeExpr) FuncName() (string, error) { return x.ts.FuncName(x.t) }

// ClassName returns the CapCase mangled name.
func (x *TypeExpr) ClassName() (string, error) { return x.ts.ClassName(x.t) }

// HumanName returns the prose description.
func (x *TypeExpr) HumanName() (string, error) { return x.ts.HumanName(x.t) }

// stripped returns the predicate-stripped form of the type.
func (x *TypeExpr) stripped() (Type, error) {
	return x.ts.StripPredicates(x.t)
}

// NativeNoPred returns the native spelling with the outermost predicate
// stripped.
func (x *TypeExpr) NativeNoPred() (string, error) {
	s, err := x.stripped()
	if err != nil {
		return "", err
	}
	return x.ts.NativeType(s)
}

// InteropNoPred returns the interop spelling with the outermost
// predicate stripped.
func (x *TypeExpr) InteropNoPred() (string, error) {
	s, err := x.stripped()
	if err != nil {
		return "", err
	}
	return x.ts.InteropType(s)
}

// BindingNoPred returns the binding spelling with the outermost
// predicate stripped.
func (x *TypeExpr) BindingNoPred() (string, error) {
	s, err := x.stripped()
	if err != nil {
		return "", err
	}
	return x.ts.BindingType(s)
}
