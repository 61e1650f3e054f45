package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/dhamidi/synix/grammar"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ebnf",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfAcceptCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:           "check [file]",
		Short:         "Parse and verify an EBNF grammar file (default: the built-in grammar)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			if err := g.Verify(startProduction); err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification")

	return cmd
}

func newEbnfAcceptCmd() *cobra.Command {
	var grammarFile string
	var startProduction string

	cmd := &cobra.Command{
		Use:           "accept <source.nix>",
		Short:         "Check that a source file is a sentence of the grammar",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var grammarArgs []string
			if grammarFile != "" {
				grammarArgs = []string{grammarFile}
			}
			g, err := loadGrammar(grammarArgs)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return err
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}

			if err := g.AcceptFrom(startProduction, string(src)); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%v\n", args[0], err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "EBNF grammar file (default: the built-in grammar)")
	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "production the source must match")

	return cmd
}

func loadGrammar(args []string) (*grammar.Grammar, error) {
	if len(args) == 0 {
		return grammar.Load()
	}
	return grammar.ParseFile(args[0])
}

// printErrors prints each error of an error list on its own line.
func printErrors(w io.Writer, err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
