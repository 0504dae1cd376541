package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/marcextract/internal/cataloging"
	"github.com/lehigh-university-libraries/marcextract/internal/handlers"
)

func newServeCmd() *cobra.Command {
	var port string
	var maxUploadMB int64

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the extraction API",
		Long: `Starts the HTTP API on the specified port.

POST a document as multipart form field "file" to /extract and receive the
record as MARC mnemonic text, a structured record and MARCXML.

The port defaults to $PORT, then 3000. The upload limit defaults to
$MARCEXTRACT_MAX_UPLOAD_MB, then 10.`,
		Example: `  # Start server on default port 3000
  marcextract serve

  # Start server on custom port
  marcextract serve --port 8080

  # Extract a record
  curl -F file=@book.pdf http://localhost:3000/extract`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = envOr("PORT", port)
			}
			if !cmd.Flags().Changed("max-upload-mb") {
				if v, err := strconv.ParseInt(os.Getenv("MARCEXTRACT_MAX_UPLOAD_MB"), 10, 64); err == nil && v > 0 {
					maxUploadMB = v
				}
			}

			logger := slog.Default()
			service := cataloging.NewService(cataloging.WithLogger(logger))
			handler := handlers.New(service, maxUploadMB*1024*1024, logger)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("marcextract API available", "addr", addr, "url", "http://localhost"+addr, "max_upload_mb", maxUploadMB)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "3000", "Port to listen on")
	cmd.Flags().Int64Var(&maxUploadMB, "max-upload-mb", 10, "Largest accepted upload in megabytes")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
