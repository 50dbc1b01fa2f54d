package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP verification API",
	Long: `Start an HTTP server that accepts document uploads and verifies them
asynchronously.

The server provides the following endpoints:
  POST /upload        - Submit a document for verification
  GET  /result/{id}   - Fetch the verdict for a submitted task
  GET  /requirements  - List required documents for a category
  GET  /health        - Health check endpoint
  GET  /info          - Pipeline configuration summary
  GET  /ws/tasks      - WebSocket stream of task completions
  GET  /metrics       - Prometheus metrics

Examples:
  scholardoc serve
  scholardoc serve --port 8080
  scholardoc serve --host 0.0.0.0 --port 3000 --workers 8`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Get configuration from centralized system (includes CLI flags, config file, env vars, and defaults)
		cfg := GetConfig()

		serverConfig := cfg.ToServerConfig()

		// Extract server configuration with CLI flag overrides
		if cmd.Flags().Changed("host") {
			serverConfig.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			serverConfig.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("cors-origin") {
			serverConfig.CORSOrigin, _ = cmd.Flags().GetString("cors-origin")
		}
		if cmd.Flags().Changed("max-upload-size") {
			serverConfig.MaxUploadMB, _ = cmd.Flags().GetInt64("max-upload-size")
		}
		if cmd.Flags().Changed("timeout") {
			serverConfig.TimeoutSec, _ = cmd.Flags().GetInt("timeout")
		}
		if cmd.Flags().Changed("workers") {
			serverConfig.Workers, _ = cmd.Flags().GetInt("workers")
		}

		// Rate limiting overrides
		if cmd.Flags().Changed("requests-per-minute") {
			serverConfig.RequestsPerMinute, _ = cmd.Flags().GetInt("requests-per-minute")
		}
		if cmd.Flags().Changed("requests-per-hour") {
			serverConfig.RequestsPerHour, _ = cmd.Flags().GetInt("requests-per-hour")
		}
		if cmd.Flags().Changed("max-requests-per-day") {
			serverConfig.MaxRequestsPerDay, _ = cmd.Flags().GetInt("max-requests-per-day")
		}
		if cmd.Flags().Changed("max-data-per-day") {
			serverConfig.MaxDataPerDay, _ = cmd.Flags().GetInt64("max-data-per-day")
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if cmd.Flags().Changed("shutdown-timeout") {
			shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
		}

		if serverConfig.Port < 1 || serverConfig.Port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", serverConfig.Port)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		verificationServer, err := server.NewServer(ctx, serverConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		mux := http.NewServeMux()
		verificationServer.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(serverConfig.TimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(serverConfig.TimeoutSec) * time.Second,
		}

		go func() {
			slog.Info("Starting verification server",
				"host", serverConfig.Host, "port", serverConfig.Port, "workers", serverConfig.Workers)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
			time.Duration(shutdownTimeout)*time.Second)
		defer shutdownCancel()

		slog.Info("Shutting down HTTP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}

		// Close drains in-flight verification tasks before releasing the
		// pipeline and the result store.
		slog.Info("Draining verification workers")
		if err := verificationServer.Close(); err != nil {
			slog.Error("Server cleanup error", "error", err)
		}

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int64("max-upload-size", 16, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 120, "per-document verification timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	serveCmd.Flags().IntP("workers", "w", 4, "number of verification workers")
	// Rate limiting flags; zero disables the corresponding limit
	serveCmd.Flags().Int("requests-per-minute", 0, "maximum uploads per minute per client")
	serveCmd.Flags().Int("requests-per-hour", 0, "maximum uploads per hour per client")
	serveCmd.Flags().Int("max-requests-per-day", 0, "maximum uploads per day per client")
	serveCmd.Flags().Int64("max-data-per-day", 0, "maximum data uploaded per day per client (bytes)")
}
