// Package scanner extracts wrappable declarations from Go source so
// they can be registered with a type registry: exported type names
// become classes, exported functions and variables are collected for
// the emitter. The package path is resolved from the enclosing module's
// go.mod.
package scanner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/scopatz/xdress/types"
)

// TranslationUnit is the scan result for one source file.
type TranslationUnit struct {
	Path    string // file path as given
	Package string // full package path, or the bare package name without a go.mod
	Classes []string
	Funcs   []string
	Vars    []string
}

// Options control scanning and registration.
type Options struct {
	// IncludeUnexported keeps lowercase declarations too.
	IncludeUnexported bool
	// Dtypes registers an array dtype for every scanned class.
	Dtypes bool
}

// Scan parses a single Go source file and collects its declarations.
func Scan(path string, opts Options) (*TranslationUnit, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("scanning %v: %w", path, err)
	}

	tu := &TranslationUnit{Path: path, Package: f.Name.Name}
	if pkgPath, err := resolvePackagePath(path, f.Name.Name); err == nil {
		tu.Package = pkgPath
	}

	keep := func(name string) bool {
		return opts.IncludeUnexported || ast.IsExported(name)
	}
	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					if keep(spec.Name.Name) {
						tu.Classes = append(tu.Classes, spec.Name.Name)
					}
				case *ast.ValueSpec:
					for _, n := range spec.Names {
						if n.Name != "_" && keep(n.Name) {
							tu.Vars = append(tu.Vars, n.Name)
						}
					}
				}
			}
		case *ast.FuncDecl:
			if decl.Recv == nil && keep(decl.Name.Name) {
				tu.Funcs = append(tu.Funcs, decl.Name.Name)
			}
		}
	}
	sort.Strings(tu.Classes)
	sort.Strings(tu.Funcs)
	sort.Strings(tu.Vars)
	return tu, nil
}

// Register adds every scanned class to the registry by name, with the
// scan's package recorded for import generation.
func (tu *TranslationUnit) Register(ts *types.TypeSystem, opts Options) error {
	for _, name := range tu.Classes {
		if err := ts.RegisterClassName(name, tu.Package, opts.Dtypes); err != nil {
			return err
		}
	}
	return nil
}

// resolvePackagePath walks up from the file to the nearest go.mod and
// joins the module path with the file's directory offset.
func resolvePackagePath(path, pkgName string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)
	for d := dir; ; {
		goModPath := filepath.Join(d, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			data, err := os.ReadFile(goModPath)
			if err != nil {
				return "", err
			}
			mod, err := modfile.Parse(goModPath, data, nil)
			if err != nil {
				return "", err
			}
			rel, err := filepath.Rel(d, dir)
			if err != nil {
				return "", err
			}
			pkgPath := mod.Module.Mod.Path
			if rel != "." {
				pkgPath += "/" + filepath.ToSlash(rel)
			}
			return pkgPath, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("no go.mod above %v", dir)
		}
		d = parent
	}
}

// Summary renders a short human-readable account of the scan.
func (tu *TranslationUnit) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v (package %v): %d classes, %d funcs, %d vars",
		tu.Path, tu.Package, len(tu.Classes), len(tu.Funcs), len(tu.Vars))
	return b.String()
}
