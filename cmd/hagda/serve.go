// ABOUTME: Serve command running the HTTP API with graceful shutdown
// ABOUTME: Exposes trending, brief, sources, and items over gin with optional key auth

package main

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

	"github.com/hagda/hagda/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server exposing sources, items, trending, and the
daily brief as JSON. Set an API key (flag, config, or HAGDA_API_KEY) to
require it on every /api/v1 request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		apiKey, _ := cmd.Flags().GetString("api-key")

		if addr == "" {
			addr = cfg.APIAddr()
		}
		if apiKey == "" {
			apiKey = cfg.APIKey()
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		handler := api.NewHandler(store, registry, manager, cfg, Version)
		engine := api.NewServer(handler, apiKey)

		srv := &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errChan := make(chan error, 1)
		go func() {
			logger.Info("starting HTTP server", "addr", addr, "auth", apiKey != "")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errChan:
			return fmt.Errorf("server error: %w", err)
		case sig := <-sigChan:
			logger.Info("shutting down", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		logger.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from config, :8371)")
	serveCmd.Flags().String("api-key", "", "API key required on /api/v1 requests (default from config)")
}
