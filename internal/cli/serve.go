package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the web server on the configured listen address.

Examples:
  hackersunity serve
  HU_BACKEND=sqlite DATABASE_URL=data/hu.db hackersunity serve --listen :3000`,
	RunE: runServe,
}

var serveListen string

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		_ = backend.Close()
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Error closing session store", logger.F("error", err))
		}
	}()

	srv := server.New(server.Options{
		Backend:        backend,
		Store:          store,
		BaseURL:        cfg.BaseURL,
		AllowedOrigins: cfg.Origins(),
	})
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Warn("Error closing backend", logger.F("error", err))
		}
	}()

	addr := cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			logger.F("addr", addr),
			logger.F("backend", cfg.Backend),
			logger.F("session_store", cfg.Session.Store))
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
