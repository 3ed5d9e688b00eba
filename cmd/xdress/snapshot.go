package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save or load registry snapshots",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <path>",
	Short: "Write the registry tables to a YAML snapshot",
	Long: `Writes every static registry table to a YAML file. A .gz suffix
selects gzip compression. Lazily computed entries cannot be
serialized and are skipped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := newTypeSystem()
		if err != nil {
			return err
		}
		if err := ts.Dump(args[0]); err != nil {
			return err
		}
		fmt.Println("wrote", args[0])
		return nil
	},
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Merge a YAML snapshot into the registry and show it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := newTypeSystem()
		if err != nil {
			return err
		}
		if err := ts.Load(args[0]); err != nil {
			return err
		}
		showRegistry(ts)
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotLoadCmd)
	rootCmd.AddCommand(snapshotCmd)
}
