package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/synix/nix/parser"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|dir|-]...",
		Short: "Report syntax errors in Nix files",
		Long: `Parse every given file and print a diagnostic for each one that fails.

Directories are searched for .nix files. Reads standard input when no
argument is given. Exits non-zero if any file fails to parse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			names, err := expandPaths(args)
			if err != nil {
				return err
			}

			renderer := newRenderer(cmd, cfg)
			failed := 0
			for _, name := range names {
				source, err := readSource(cmd, name)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", displayName(name), err)
					failed++
					continue
				}
				if _, err := parser.Parse(source); err != nil {
					renderer.Render(displayName(name), source, err)
					failed++
					continue
				}
				log.Infof("%s: ok", displayName(name))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, len(names))
			}
			return nil
		},
	}
}
