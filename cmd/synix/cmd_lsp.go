package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/synix/lsp"
)

func newLSPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			server := lsp.NewServer(version, cfg)
			return server.RunStdio()
		},
	}
}
