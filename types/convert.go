package types

import (
	"fmt"
	"strings"
	"text/template"
)

// Converter-code resolution. Conversion templates live in the ToBind
// and FromBind registry tables keyed by canonical key, refinement name,
// or template head. Resolution walks from the exact type outward to the
// nearest registered ancestor; a lazy entry is materialized once and
// stored back under the exact key. Templates are text/template sources
// over [convData].

// Direction selects which conversion table to resolve against.
type Direction uint8

const (
	ToBinding   Direction = iota // native value to binding object
	FromBinding                  // binding object to native value
)

func (d Direction) String() string {
	switch d {
	case ToBinding:
		return "to-binding"
	case FromBinding:
		return "from-binding"
	default:
		panic("invalid conversion direction")
	}
}

// ConvOpts control which conversion variant is rendered and how the
// helper variables are named.
type ConvOpts struct {
	// View selects the proxy-materializing variant when available.
	View bool
	// Cached selects the cache-guarded variant when available.
	// The guard wraps the proxy construction, so Cached requires View.
	Cached bool
	// ProxyName overrides the generated proxy variable name.
	ProxyName string
	// CacheName overrides the generated cache attribute name.
	CacheName string
	// CachePrefix qualifies the default cache attribute name.
	CachePrefix string
}

// DefaultConvOpts returns the options used for wrapped attribute
// access: viewed and cached, with caches hung off self.
func DefaultConvOpts() ConvOpts {
	return ConvOpts{View: true, Cached: true, CachePrefix: "self"}
}

// ConvCode is one rendered conversion: an optional declaration, an
// optional statement body, and the expression producing the converted
// value. Cached marks the cache-guarded variant.
type ConvCode struct {
	Decl   string
	Body   string
	Ret    string
	Cached bool
}

// convData is the execution context of a conversion template.
type convData struct {
	Var   string
	Proxy string
	Cache string
	T     *TypeExpr
	Deps  map[string]string
}

// ToBindingConv renders the native-to-binding conversion of the value
// held in variable name.
func (ts *TypeSystem) ToBindingConv(t any, name string, opts ConvOpts) (ConvCode, error) {
	if opts.Cached && !opts.View {
		return ConvCode{}, fmt.Errorf("cached conversion of %v requires the view variant", name)
	}
	c, err := ts.Canon(t)
	if err != nil {
		return ConvCode{}, err
	}
	entry, ok := ts.findToBind(c)
	if !ok {
		return ConvCode{}, fmt.Errorf("%w: no %v entry reachable from %v",
			ErrConverterMissing, ToBinding, c.Key())
	}
	tmpl := entry.Tmpl
	if entry.Fn != nil {
		tmpl, err = entry.Fn(c, ts)
		if err != nil {
			return ConvCode{}, err
		}
		ts.toBind[c.Key()] = ToBindEntry{Tmpl: tmpl}
	}
	if len(tmpl) == 0 {
		return ConvCode{}, fmt.Errorf("%w: empty %v entry for %v",
			ErrConverterMissing, ToBinding, c.Key())
	}

	idx := 0
	if opts.View && len(tmpl) >= 2 {
		idx = 1
	}
	if opts.Cached && len(tmpl) >= 3 {
		idx = 2
	}
	data, err := ts.newConvData(c, name, opts, ToBinding)
	if err != nil {
		return ConvCode{}, err
	}
	rendered, err := renderConv(tmpl[idx], data)
	if err != nil {
		return ConvCode{}, err
	}
	if idx == 0 {
		return ConvCode{Ret: rendered}, nil
	}
	code := ConvCode{Body: rendered, Ret: data.Proxy, Cached: idx == 2}
	if code.Cached {
		code.Ret = data.Cache
	}
	if strings.Contains(tmpl[idx], ".Proxy") {
		bind, err := data.T.BindingNoPred()
		if err != nil {
			return ConvCode{}, err
		}
		code.Decl = "cdef " + bind + " " + data.Proxy
	}
	return code, nil
}

// FromBindingConv renders the binding-to-native conversion of the value
// held in variable name.
func (ts *TypeSystem) FromBindingConv(t any, name string, opts ConvOpts) (ConvCode, error) {
	c, err := ts.Canon(t)
	if err != nil {
		return ConvCode{}, err
	}
	entry, ok := ts.findFromBind(c)
	if !ok {
		return ConvCode{}, fmt.Errorf("%w: no %v entry reachable from %v",
			ErrConverterMissing, FromBinding, c.Key())
	}
	tmpl := entry.Tmpl
	if entry.Fn != nil {
		tmpl, err = entry.Fn(c, ts)
		if err != nil {
			return ConvCode{}, err
		}
		ts.fromBind[c.Key()] = FromBindEntry{Tmpl: tmpl}
	}
	data, err := ts.newConvData(c, name, opts, FromBinding)
	if err != nil {
		return ConvCode{}, err
	}
	body, err := renderConv(tmpl.Body, data)
	if err != nil {
		return ConvCode{}, err
	}
	if tmpl.Ret == "" {
		// Expression-only conversion.
		return ConvCode{Ret: body}, nil
	}
	ret, err := renderConv(tmpl.Ret, data)
	if err != nil {
		return ConvCode{}, err
	}
	code := ConvCode{Body: body, Ret: ret}
	if strings.Contains(tmpl.Body, ".Proxy") {
		interop, err := data.T.InteropNoPred()
		if err != nil {
			return ConvCode{}, err
		}
		code.Decl = "cdef " + interop + " " + data.Proxy
	}
	return code, nil
}

func (ts *TypeSystem) findToBind(c Type) (ToBindEntry, bool) {
	var entry ToBindEntry
	found := false
	ts.convKeys(c)(func(key string) bool {
		if e, ok := ts.toBind[key]; ok {
			entry, found = e, true
			return false
		}
		return true
	})
	return entry, found
}

func (ts *TypeSystem) findFromBind(c Type) (FromBindEntry, bool) {
	var entry FromBindEntry
	found := false
	ts.convKeys(c)(func(key string) bool {
		if e, ok := ts.fromBind[key]; ok {
			entry, found = e, true
			return false
		}
		return true
	})
	return entry, found
}

// convKeys yields candidate table keys for c from most to least
// specific: the exact key, the refinement tag (instantiated, then bare
// family name), then the same walk over the stripped base.
func (ts *TypeSystem) convKeys(c Type) func(func(string) bool) {
	return func(yield func(string) bool) {
		for c != nil {
			if !yield(c.Key()) {
				return
			}
			switch v := c.(type) {
			case Atomic:
				return
			case Predicated:
				if tag, ok := v.Pred.(RefTag); ok {
					if tag.Key() != tag.Name && !yield(tag.Key()) {
						return
					}
					if !yield(tag.Name) {
						return
					}
				}
				c = v.Base
			case Templated:
				if tag, ok := v.Pred.(RefTag); ok {
					if tag.Key() != tag.Name && !yield(tag.Key()) {
						return
					}
					if !yield(tag.Name) {
						return
					}
				}
				if !yield(v.Head) {
					return
				}
				return
			case Family:
				yield(v.Sig.Name)
				return
			default:
				return
			}
		}
	}
}

func (ts *TypeSystem) newConvData(c Type, name string, opts ConvOpts, dir Direction) (convData, error) {
	x, err := ts.Expr(c)
	if err != nil {
		return convData{}, err
	}
	d := convData{
		Var:   name,
		Proxy: opts.ProxyName,
		Cache: opts.CacheName,
		T:     x,
	}
	if d.Proxy == "" {
		d.Proxy = name + "_proxy"
	}
	if d.Cache == "" {
		prefix := opts.CachePrefix
		if prefix != "" {
			prefix += "."
		}
		d.Cache = prefix + "_" + name
	}
	if p, ok := c.(Predicated); ok {
		if tag, isTag := p.Pred.(RefTag); isTag {
			d.Deps, err = ts.depVals(tag, dir)
			if err != nil {
				return convData{}, err
			}
		}
	}
	return d, nil
}

// depVals maps a dependent refinement's parameter names to rendered
// fragments: bare type parameters to their interop spelling, value
// dependencies to their literal form. A dependency whose declared type
// is itself refined is converted through its own expression-form
// conversion first.
func (ts *TypeSystem) depVals(tag RefTag, dir Direction) (map[string]string, error) {
	def, ok := ts.refined[tag.Name]
	if !ok {
		return nil, nil
	}
	vals := make(map[string]string, len(def.Sig.Params))
	argIdx := 0
	for _, p := range def.Sig.Params {
		if p.Type == nil {
			if argIdx < len(tag.Args) {
				s, err := ts.InteropType(tag.Args[argIdx])
				if err != nil {
					return nil, err
				}
				vals[p.Name] = s
				argIdx++
			}
			continue
		}
		for _, d := range tag.Deps {
			if d.Name == p.Name {
				frag := valueFragment(d.Value)
				if _, refined := refinementTag(d.Type); refined {
					if inner, err := ts.innerConv(d.Type, frag, dir); err == nil {
						frag = inner
					}
				}
				vals[p.Name] = frag
				break
			}
		}
	}
	return vals, nil
}

// innerConv renders the expression-form conversion of a refined
// dependency type applied to expr.
func (ts *TypeSystem) innerConv(t Type, expr string, dir Direction) (string, error) {
	var code ConvCode
	var err error
	if dir == ToBinding {
		code, err = ts.ToBindingConv(t, expr, ConvOpts{})
	} else {
		code, err = ts.FromBindingConv(t, expr, ConvOpts{})
	}
	if err != nil {
		return "", err
	}
	return code.Ret, nil
}

func renderConv(src string, data convData) (string, error) {
	t, err := template.New("conv").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing conversion template: %w", err)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing conversion template: %w", err)
	}
	return b.String(), nil
}
