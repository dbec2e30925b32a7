package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/minilang/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC and publishes
structural, parser and typo diagnostics for open documents.`,
		Example: `  # Start LSP server (usually called by an editor)
  minilang lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.Options{
		Analyzer: cc.Analyzer,
		Logger:   cc.Logger,
		Version:  cmd.Root().Version,
	})
	return server.Run(cmd.Context())
}
