// Package config loads TOML overlay files that extend a type registry:
// classes, templates, aliases, refinements, specializations, argument
// kinds and variable namespaces. Files can pull in other files through
// their imports list; imported entries are appended after the local
// ones.
package config

import (
	"bytes"
	"errors"
	"os"
	"strconv"

	"dario.cat/mergo"
	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"

	"github.com/scopatz/xdress/types"
)

// Class declares one class or class template. Descriptor-valued fields
// accept a bare name or a nested TOML array, mirroring the loose
// descriptor forms the registry accepts.
type Class struct {
	Name         string   `toml:"name"`
	TemplateArgs []string `toml:"template-args"`
	NativeType   string   `toml:"native-type"`
	InteropType  string   `toml:"interop-type"`
	BindingType  string   `toml:"binding-type"`
	HumanName    string   `toml:"human-name"`
	FuncName     string   `toml:"func-name"`
	ClassName    string   `toml:"class-name"`
	ElemKind     string   `toml:"elem-kind"`
	Package      string   `toml:"package"`
	Dtype        bool     `toml:"dtype"`
}

type Alias struct {
	Name string `toml:"name"`
	Of   any    `toml:"of"`
}

type RefinementParam struct {
	Name string `toml:"name"`
	Type any    `toml:"type"` // absent declares a bare type parameter
}

type Refinement struct {
	Name        string            `toml:"name"`
	Parent      any               `toml:"parent"`
	Params      []RefinementParam `toml:"param"`
	NativeType  string            `toml:"native-type"`
	InteropType string            `toml:"interop-type"`
	BindingType string            `toml:"binding-type"`
	HumanName   string            `toml:"human-name"`
}

type Specialization struct {
	Of          any    `toml:"of"`
	NativeType  string `toml:"native-type"`
	InteropType string `toml:"interop-type"`
	BindingType string `toml:"binding-type"`
	FuncName    string `toml:"func-name"`
	ClassName   string `toml:"class-name"`
}

type ArgKinds struct {
	Template string   `toml:"template"`
	Kinds    []string `toml:"kinds"`
}

type VarNS struct {
	Name      string `toml:"name"`
	Namespace string `toml:"namespace"`
	Type      any    `toml:"type"` // optional; enums expand their aliases
}

type Modules struct {
	ExtraTypes    string `toml:"extra-types"`
	Dtypes        string `toml:"dtypes"`
	STLContainers string `toml:"stlcontainers"`
}

type Config struct {
	Imports         []string         `toml:"imports"`
	Modules         Modules          `toml:"module"`
	Classes         []Class          `toml:"class"`
	Aliases         []Alias          `toml:"alias"`
	Refinements     []Refinement     `toml:"refinement"`
	Specializations []Specialization `toml:"specialization"`
	ArgKinds        []ArgKinds       `toml:"argkinds"`
	VarNS           []VarNS          `toml:"varns"`
}

type Error struct {
	filePath string
	err      error  // short, single-line error
	str      string // full, multi-line error string, or err string, if none
}

// Error returns a short error message.
func (e *Error) Error() string {
	return e.filePath + ": " + e.err.Error()
}

// String returns the full multi-line error string.
func (e *Error) String() string {
	if e.str != "" {
		return "Error in file " + strconv.Quote(e.filePath) + ":\n" + e.str
	} else {
		return e.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

func Load(path string) (_ *Config, err error) {
	defer func() {
		if err != nil {
			if tErr := (&toml.DecodeError{}); errors.As(err, &tErr) {
				err = &Error{filePath: path, err: err, str: tErr.String()}
			} else if tErr := (&toml.StrictMissingError{}); errors.As(err, &tErr) {
				err = &Error{filePath: path, err: err, str: tErr.String()}
			} else {
				err = &Error{filePath: path, err: err}
			}
		}
	}()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := &Config{}
	err = toml.NewDecoder(bytes.NewReader(file)).
		DisallowUnknownFields().
		Decode(&c)
	if err != nil {
		return nil, err
	}

	var importedCs []*Config // collect imported files first so their imports don't leak into our file's imports
	for _, imp := range c.Imports {
		newC, err := Load(imp)
		if err != nil {
			return nil, err
		}
		importedCs = append(importedCs, newC)
	}
	for _, newC := range importedCs {
		if err := mergo.Merge(c, newC, mergo.WithAppendSlice); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Apply registers every entry of the overlay into ts. All entries are
// attempted; registration failures are collected and returned together.
func (c *Config) Apply(ts *types.TypeSystem) error {
	var merr *multierror.Error

	if m := c.Modules; m.ExtraTypes != "" || m.Dtypes != "" || m.STLContainers != "" {
		ts.Update(types.Tables{
			ExtraTypesModule: m.ExtraTypes,
			DtypesModule:     m.Dtypes,
			ContainersModule: m.STLContainers,
		})
	}

	for _, cl := range c.Classes {
		err := ts.RegisterClass(types.ClassSpec{
			Name:         cl.Name,
			TemplateArgs: cl.TemplateArgs,
			NativeType:   cl.NativeType,
			InteropType:  cl.InteropType,
			BindingType:  cl.BindingType,
			HumanName:    cl.HumanName,
			FuncName:     cl.FuncName,
			ClassName:    cl.ClassName,
			ElemKind:     cl.ElemKind,
		})
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		if cl.Package != "" || cl.Dtype {
			// Route the name through the same path the scanner uses,
			// for import and dtype wiring.
			if err := ts.RegisterClassName(cl.Name, cl.Package, cl.Dtype); err != nil {
				merr = multierror.Append(merr, err)
			}
		}
	}

	aliases := map[string]any{}
	for _, a := range c.Aliases {
		aliases[a.Name] = a.Of
	}
	if len(aliases) > 0 {
		ts.Update(types.Tables{Aliases: aliases})
	}

	for _, r := range c.Refinements {
		sig := types.Signature{Name: r.Name}
		for _, p := range r.Params {
			sig.Params = append(sig.Params, types.Param{Name: p.Name, Type: p.Type})
		}
		err := ts.RegisterRefinement(types.RefinementSpec{
			Sig:         sig,
			Parent:      r.Parent,
			NativeType:  r.NativeType,
			InteropType: r.InteropType,
			BindingType: r.BindingType,
			HumanName:   r.HumanName,
		})
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	for _, s := range c.Specializations {
		err := ts.RegisterSpecialization(s.Of, types.SpecializationSpec{
			NativeType:  s.NativeType,
			InteropType: s.InteropType,
			BindingType: s.BindingType,
			FuncName:    s.FuncName,
			ClassName:   s.ClassName,
		})
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	for _, ak := range c.ArgKinds {
		kinds := make([]types.ArgKind, 0, len(ak.Kinds))
		ok := true
		for _, name := range ak.Kinds {
			k, err := types.ParseArgKind(name)
			if err != nil {
				merr = multierror.Append(merr, err)
				ok = false
				break
			}
			kinds = append(kinds, k)
		}
		if !ok {
			continue
		}
		if err := ts.RegisterArgumentKinds(ak.Template, kinds...); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	for _, v := range c.VarNS {
		if err := ts.RegisterVariableNamespace(v.Name, v.Namespace, v.Type); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	return merr.ErrorOrNil()
}
