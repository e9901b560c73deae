package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandscope/brandscope/internal/config"
	"github.com/brandscope/brandscope/internal/metrics"
	"github.com/brandscope/brandscope/internal/observability"
	"github.com/brandscope/brandscope/internal/server"
	"github.com/brandscope/brandscope/internal/session"
)

var (
	serverHost string
	serverPort int
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	Long: `Start the HTTP server exposing the analysis, QA, and settings endpoints.

The server shuts down gracefully on SIGINT or SIGTERM: in-flight requests are
given a grace period and the session store is closed before exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		log, err := observability.NewLogger(cfg.Logging)
		if err != nil {
			return err
		}
		defer func() {
			// Sync errors on stderr sinks are benign.
			_ = log.Sync()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sessions, err := session.NewStore(ctx, cfg.Session)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer func() {
			if err := sessions.Close(); err != nil {
				log.Warn("closing session store", zap.Error(err))
			}
		}()

		m := metrics.New()
		analyzer := newAnalyzer(cfg, sessions, m, log)

		srv := server.New(cfg.Server, server.Deps{
			Analyzer: analyzer,
			Sessions: sessions,
			Metrics:  m,
			Log:      log,
		})

		log.Info("starting server",
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port),
			zap.String("session_driver", cfg.Session.Driver),
			zap.String("version", versionInfo.Version))

		errChan := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		select {
		case err := <-errChan:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}

		log.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "127.0.0.1", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")
}
