package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/scopatz/xdress/types"
)

var showCmd = &cobra.Command{
	Use:   "show [descriptor...]",
	Short: "Show registry contents or derivations for given types",
	Long: `Without arguments, show prints the registry tables: base types with
their spellings, templates, refinements and aliases. With arguments,
each one is parsed as a type descriptor (comma-separated sequences
allowed, e.g. "map,str,int32,0") and its derivations are printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := newTypeSystem()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			showRegistry(ts)
			return nil
		}
		for _, arg := range args {
			if err := showType(ts, arg); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func newTable(header ...string) *tablewriter.Table {
	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader(header)
	align := make([]int, len(header))
	for i := range align {
		align[i] = tablewriter.ALIGN_LEFT
	}
	tbl.SetColumnAlignment(align)
	tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tbl.SetCenterSeparator("|")
	return tbl
}

// orElse turns a derivation failure into a placeholder cell.
func orElse(s string, err error) string {
	if err != nil {
		return "-"
	}
	return s
}

func showRegistry(ts *types.TypeSystem) {
	fmt.Printf("modules: extra_types=%q dtypes=%q stlcontainers=%q\n\n",
		ts.ExtraTypesModule(), ts.DtypesModule(), ts.ContainersModule())

	base := make([]string, 0, len(ts.BaseTypes()))
	for name := range ts.BaseTypes() {
		base = append(base, name)
	}
	sort.Strings(base)
	tbl := newTable("base type", "native", "interop", "binding")
	for _, name := range base {
		native, err1 := ts.NativeType(name)
		interop, err2 := ts.InteropType(name)
		binding, err3 := ts.BindingType(name)
		tbl.Append([]string{name, orElse(native, err1), orElse(interop, err2), orElse(binding, err3)})
	}
	tbl.Render()
	fmt.Println()

	templates := ts.Templates()
	heads := make([]string, 0, len(templates))
	for head := range templates {
		heads = append(heads, head)
	}
	sort.Strings(heads)
	tbl = newTable("template", "slots")
	for _, head := range heads {
		tbl.Append([]string{head, strings.Join(templates[head], ", ")})
	}
	tbl.Render()
	fmt.Println()

	refined := ts.Refinements()
	names := make([]string, 0, len(refined))
	for name := range refined {
		names = append(names, name)
	}
	sort.Strings(names)
	tbl = newTable("refinement", "params", "parent")
	for _, name := range names {
		def := refined[name]
		params := make([]string, len(def.Sig.Params))
		for i, p := range def.Sig.Params {
			if p.Type == nil {
				params[i] = p.Name
			} else {
				params[i] = fmt.Sprintf("%v: %v", p.Name, p.Type)
			}
		}
		tbl.Append([]string{name, strings.Join(params, ", "), fmt.Sprint(def.Parent)})
	}
	tbl.Render()
	fmt.Println()

	aliases := ts.Aliases()
	names = names[:0]
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	tbl = newTable("alias", "of")
	for _, name := range names {
		tbl.Append([]string{name, fmt.Sprint(aliases[name])})
	}
	tbl.Render()
}

// parseDescriptor turns a comma-separated argument into a loose
// descriptor: "map,str,int32,0" becomes ["map" "str" "int32" 0].
func parseDescriptor(arg string) any {
	parts := strings.Split(arg, ",")
	if len(parts) == 1 {
		return arg
	}
	d := make([]any, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		var n int
		if _, err := fmt.Sscanf(p, "%d", &n); err == nil && fmt.Sprint(n) == p {
			d[i] = n
		} else {
			d[i] = p
		}
	}
	return d
}

func showType(ts *types.TypeSystem, arg string) error {
	d := parseDescriptor(arg)
	c, err := ts.Canon(d)
	if err != nil {
		return fmt.Errorf("canonicalizing %v: %w", arg, err)
	}
	tbl := newTable("derivation", "value")
	tbl.Append([]string{"canonical", c.Key()})
	native, err := ts.NativeType(c)
	tbl.Append([]string{"native", orElse(native, err)})
	interop, err := ts.InteropType(c)
	tbl.Append([]string{"interop", orElse(interop, err)})
	binding, err := ts.BindingType(c)
	tbl.Append([]string{"binding", orElse(binding, err)})
	kind, err := ts.ElemKind(c)
	tbl.Append([]string{"elem kind", orElse(kind, err)})
	human, err := ts.HumanName(c)
	tbl.Append([]string{"human name", orElse(human, err)})
	fname, err := ts.FuncName(c)
	tbl.Append([]string{"func name", orElse(fname, err)})
	cname, err := ts.ClassName(c)
	tbl.Append([]string{"class name", orElse(cname, err)})
	if set, err := ts.DeclImports(c); err == nil {
		tbl.Append([]string{"decl imports", strings.Join(types.DeclImportLines(set), "; ")})
	}
	if set, err := ts.RunImports(c); err == nil {
		tbl.Append([]string{"run imports", strings.Join(types.RunImportLines(set), "; ")})
	}
	tbl.Render()
	fmt.Println()
	return nil
}
