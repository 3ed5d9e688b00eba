package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/scopatz/xdress/config"
	"github.com/scopatz/xdress/types"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "xdress",
	Short: "Inspect and manage the type registry",
	Long: `xdress works with a registry of type knowledge: canonical type
forms, backend spellings, mangled names, imports and converter
templates. The registry starts from the built-in tables; --config
overlays a TOML file on top before any command runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "TOML overlay file to apply to the registry")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log registry warnings and info to stderr")
}

// newTypeSystem builds the registry every subcommand works against:
// built-in defaults, the --config overlay if given, and a stderr logger
// whose level follows --verbose.
func newTypeSystem() (*types.TypeSystem, error) {
	ts := types.Default()
	level := types.WARN
	if flagVerbose {
		level = types.INFO
	}
	ts.SetLogger(&types.Logger{Writer: os.Stderr, Prefix: "xdress", MinLevel: level})

	if flagConfig != "" {
		c, err := config.Load(flagConfig)
		if err != nil {
			var cfgErr *config.Error
			if errors.As(err, &cfgErr) {
				os.Stderr.WriteString(cfgErr.String() + "\n")
			}
			return nil, err
		}
		if err := c.Apply(ts); err != nil {
			return nil, err
		}
	}
	return ts, nil
}
