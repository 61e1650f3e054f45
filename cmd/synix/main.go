package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("synix.cli")

// errReported is returned by commands that have already printed why they
// failed.
var errReported = errors.New("failed")

type globalOptions struct {
	configPath string
	color      string
	verbose    int
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "synix",
		Short:         "Parse, check and format Nix expressions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbose, nil)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to synix.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "", "colorize diagnostics: auto, always or never (default from config)")
	rootCmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "log more; repeat for debug output")

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newFmtCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
