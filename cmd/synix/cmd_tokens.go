package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/synix/format"
	"github.com/dhamidi/synix/nix/lexer"
)

func newTokensCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "Print the token tree of a Nix file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			name := stdinName
			if len(args) == 1 {
				name = args[0]
			}
			source, err := readSource(cmd, name)
			if err != nil {
				return err
			}

			tokens, err := lexer.Tokenize(source)
			if err != nil {
				newRenderer(cmd, cfg).Render(displayName(name), source, err)
				return errReported
			}
			return format.NewTokenEncoder(cmd.OutOrStdout()).Encode(tokens)
		},
	}
}
