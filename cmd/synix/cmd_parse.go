package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/synix/format"
	"github.com/dhamidi/synix/nix/parser"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a Nix expression and print its syntax tree",
		Long: `Parse a Nix expression and print its syntax tree.

Reads standard input when no file or "-" is given. The output format
defaults to output.format from synix.toml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				outputFormat = cfg.Output.Format
			}

			name := stdinName
			if len(args) == 1 {
				name = args[0]
			}
			source, err := readSource(cmd, name)
			if err != nil {
				return err
			}

			encoder, err := format.New(outputFormat, cmd.OutOrStdout(), format.Options{
				Positions: includePositions,
				Indent:    cfg.Format.Indent,
				MaxWidth:  cfg.Format.MaxWidth,
			})
			if err != nil {
				return err
			}

			expr, err := parser.Parse(source)
			if err != nil {
				newRenderer(cmd, cfg).Render(displayName(name), source, err)
				return errReported
			}
			log.Debugf("parsed %s", displayName(name))

			if err := encoder.Encode(expr); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include spans in tree output")

	return cmd
}
