// Package main is the entry point for the AI Cademy auth API.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from .env and environment variables)
// 2. Create dependencies (logger, tracing)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points.
// Each executable gets its own directory with its own main.go.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sakif/aicademy-auth/internal/config"
	"github.com/sakif/aicademy-auth/internal/server"
	"github.com/sakif/aicademy-auth/internal/telemetry"
)

func main() {
	// === 1. LOAD .env ===
	// godotenv.Load never overrides variables that are already set, so the
	// real environment always wins. A missing .env file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. READ CONFIGURATION ===
	cfg, err := config.NewConfig()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 3. SET UP LOGGING ===
	// Log levels (from least to most severe): Debug → Info → Warn → Error
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run exists so deferred cleanups execute before main calls os.Exit.
func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// === 4. TRACING ===
	shutdownTracing, err := telemetry.Setup(ctx, server.ServiceName, cfg.OTel)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", slog.String("error", err.Error()))
		}
	}()
	if cfg.OTel.TracingEnabled() {
		logger.Info("tracing enabled", slog.String("endpoint", cfg.OTel.Endpoint))
	}

	// === 5. CREATE AND START THE SERVER ===
	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	return srv.Start()
}
