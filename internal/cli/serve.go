package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rentora/rentora/internal/logging"
	"github.com/rentora/rentora/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the rentora HTTP API server.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default: RENTORA_PORT or 8080)")

	return cmd
}

func runServe(port int) error {
	cfg := loadConfig()
	logging.Setup(cfg.DevMode)

	d, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := d.Close(); closeErr != nil {
			slog.Error("closing database", "error", closeErr)
		}
	}()

	srv, err := web.NewServer(d, web.Config{
		JWTSecret:           cfg.JWTSecret,
		StripeSecretKey:     cfg.StripeSecretKey,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
		UploadURL:           cfg.UploadURL,
		UploadPreset:        cfg.UploadPreset,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if port == 0 {
		port = cfg.Port
	}

	slog.Info("starting API server", "port", port)
	return srv.ListenAndServe(port)
}
