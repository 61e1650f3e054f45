package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/synix/config"
	"github.com/dhamidi/synix/format"
	"github.com/dhamidi/synix/nix/parser"
)

type fmtOptions struct {
	overwrite    bool
	list         bool
	dropComments bool
}

func newFmtCmd(opts *globalOptions) *cobra.Command {
	fo := &fmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt [file|dir|-]...",
		Short: "Reprint Nix files in canonical layout",
		Long: `Reprint Nix files in canonical layout.

Reads standard input when no argument is given and writes the result to
standard output. Directories are searched for .nix files.

Comments are not kept by the printer, so files containing comments are
refused unless --drop-comments is given.

Use -w to overwrite files in place and -l to only list the files whose
layout differs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			names, err := expandPaths(args)
			if err != nil {
				return err
			}
			if fo.overwrite {
				for _, name := range names {
					if name == stdinName {
						return fmt.Errorf("-w requires a file argument")
					}
				}
			}

			failed := 0
			for _, name := range names {
				if err := formatOne(cmd, cfg, fo, name); err != nil {
					if !errors.Is(err, errReported) {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", displayName(name), err)
					}
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be formatted", failed, len(names))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&fo.overwrite, "write", "w", false, "overwrite files in place")
	cmd.Flags().BoolVarP(&fo.list, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().BoolVar(&fo.dropComments, "drop-comments", false, "format files even though their comments will be lost")

	return cmd
}

// formatOne formats a single file. Parse errors are rendered here and
// reported as errReported.
func formatOne(cmd *cobra.Command, cfg *config.Config, fo *fmtOptions, name string) error {
	source, err := readSource(cmd, name)
	if err != nil {
		return err
	}

	expr, comments, err := parser.ParseWithComments(source)
	if err != nil {
		newRenderer(cmd, cfg).Render(displayName(name), source, err)
		return errReported
	}
	if len(comments) > 0 && !fo.dropComments {
		return fmt.Errorf("contains %d comments, which formatting would drop (use --drop-comments)", len(comments))
	}

	var buf bytes.Buffer
	printer := format.NewNixPrinter(&buf)
	printer.Indent = cfg.Format.Indent
	printer.MaxWidth = cfg.Format.MaxWidth
	if err := printer.Encode(expr); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	changed := buf.String() != source

	if fo.list {
		if changed {
			fmt.Fprintln(cmd.OutOrStdout(), displayName(name))
		}
		if !fo.overwrite {
			return nil
		}
	}
	if fo.overwrite {
		if !changed {
			return nil
		}
		info, err := os.Stat(name)
		if err != nil {
			return err
		}
		log.Infof("formatted %s", name)
		return os.WriteFile(name, buf.Bytes(), info.Mode().Perm())
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
