package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP ranking service.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rankings over HTTP",
	Long: `Start an HTTP server that ranks uploaded decision matrices.

Endpoints:
  POST /rank    multipart form with input_file, weights, impacts and
                optional email and format (json or csv)
  GET  /health  liveness check

Logs are written to stdout as JSON. The server shuts down gracefully on
SIGINT or SIGTERM.

Examples:
  # Listen on the default address
  topsis serve

  # Enable email delivery and a smaller upload limit
  TOPSIS_SMTP_PASSWORD=secret topsis serve --addr :9000 --max-upload-mb 2 \
    --smtp-host smtp.example.com --smtp-user bot --smtp-from bot@example.com

  # Rank a file
  curl -F input_file=@phones.csv -F weights=0.25,0.25,0.5 -F impacts=-,+,+ localhost:8080/rank`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		m, err := newMailer(cfg.SMTP)
		if err != nil {
			return err
		}
		if m == nil {
			logger.Warn("email delivery disabled", "reason", "smtp-host and smtp-from are not set")
		}

		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, cacheManager, m, logger)
		if err := srv.ListenAndServe(ctx); err != nil {
			contract.LogWarn("HTTP server stopped", err)
			return err
		}
		return nil
	},
}
