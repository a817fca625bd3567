// Server entry point. The default command starts the HTTP API; the seed
// subcommand loads a small starter catalog for local development.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "biblioteca-familiar",
		Short:         "API da biblioteca familiar",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Inicia o servidor HTTP",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Carrega membros e livros de exemplo",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSeed(cmd.Context())
			},
		},
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
