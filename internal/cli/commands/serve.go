package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/minilang/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer over HTTP",
		Long: `Start the HTTP service.

Endpoints:
  POST /run       {"code": "...", "auto_correct": true}
  POST /add_typo  {"typo": "...", "correction": "..."}
  GET  /typos     current typo dictionary
  GET  /healthz   liveness check

Typos added through /add_typo live until the process exits.`,
		Example: `  # Serve on the default address
  minilang serve

  # Serve on all interfaces and keep a history of analyses
  minilang serve --addr :8080 --history ./minilang-history.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default \"127.0.0.1:5000\")")
	cmd.Flags().Int64("max-body-bytes", 0, "Maximum request body size in bytes")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := cc.OpenHistory(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	srv := server.New(server.Config{
		Addr:              cc.Cfg.Server.Addr,
		ReadHeaderTimeout: cc.Cfg.Server.ReadHeaderTimeout,
		MaxBodyBytes:      cc.Cfg.Server.MaxBodyBytes,
		Analyzer:          cc.Analyzer,
		History:           store,
		Logger:            cc.Logger,
	})
	cc.Renderer.Success("Serving on http://" + cc.Cfg.Server.Addr)
	return srv.Serve(ctx)
}
