package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scopatz/xdress/scanner"
)

var (
	flagScanDtypes     bool
	flagScanUnexported bool
	flagScanSave       string
)

var scanCmd = &cobra.Command{
	Use:   "scan <file.go>...",
	Short: "Scan Go source files and register their classes",
	Long: `Parses each file, registers every found type as a class with its
package path recorded for import generation, and prints what was
found. --save writes the resulting registry to a snapshot so later
runs can load it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := newTypeSystem()
		if err != nil {
			return err
		}
		opts := scanner.Options{
			IncludeUnexported: flagScanUnexported,
			Dtypes:            flagScanDtypes,
		}
		for _, path := range args {
			tu, err := scanner.Scan(path, opts)
			if err != nil {
				return err
			}
			if err := tu.Register(ts, opts); err != nil {
				return err
			}
			fmt.Println(tu.Summary())
			tbl := newTable("class", "binding", "func name")
			for _, name := range tu.Classes {
				binding, err1 := ts.BindingType(name)
				fname, err2 := ts.FuncName(name)
				tbl.Append([]string{name, orElse(binding, err1), orElse(fname, err2)})
			}
			tbl.Render()
			fmt.Println()
		}
		if flagScanSave != "" {
			if err := ts.Dump(flagScanSave); err != nil {
				return err
			}
			fmt.Println("wrote", flagScanSave)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&flagScanDtypes, "dtypes", false, "also register an array dtype per class")
	scanCmd.Flags().BoolVar(&flagScanUnexported, "unexported", false, "include unexported declarations")
	scanCmd.Flags().StringVar(&flagScanSave, "save", "", "write the registry to this snapshot after scanning")
	rootCmd.AddCommand(scanCmd)
}
