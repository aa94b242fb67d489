// Package main is the entry point for the Maya KIN API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/maya-kin/internal/api"
	"github.com/zapponejosh/maya-kin/internal/config"
	"github.com/zapponejosh/maya-kin/internal/logger"
	"github.com/zapponejosh/maya-kin/internal/lookup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Log startup info
	log.Info("starting maya kin API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("data_dir", cfg.DataDir),
		slog.String("database_path", cfg.DatabasePath),
	)

	if cfg.IsDevelopment() && cfg.APIKey == "" {
		log.Warn("API_KEY not set, lookup routes are open")
	}

	svc, err := lookup.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("load reference tables: %w", err)
	}

	handlers := api.NewHandlers(svc, api.NewMetrics(), cfg, log)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	log.Info("maya kin API ready",
		slog.String("addr", server.Addr),
		slog.Int("tables", len(svc.Tables())),
	)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
