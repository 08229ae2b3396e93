// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// It decides:
// - Which store backs the users collection (sqlite or postgres, from config)
// - Which URL patterns map to which handler functions
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//   config.Config + slog.Logger → passed to server.New
//   server.New creates: store → UserService → AuthHandler / UserHandler
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sakif/aicademy-auth/internal/auth"
	"github.com/sakif/aicademy-auth/internal/config"
	"github.com/sakif/aicademy-auth/internal/handler"
	"github.com/sakif/aicademy-auth/internal/middleware"
	"github.com/sakif/aicademy-auth/internal/repository"
	"github.com/sakif/aicademy-auth/internal/repository/postgres"
	"github.com/sakif/aicademy-auth/internal/repository/sqlite"
	"github.com/sakif/aicademy-auth/internal/service"
)

// ServiceName identifies this server in traces.
const ServiceName = "aicademy-auth"

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store connection. Start closes it after the HTTP
// server has drained, so in-flight requests never see a closed pool.
type Server struct {
	router chi.Router
	config *config.Config
	logger *slog.Logger
	store  repository.UserRepository
}

// New opens the configured store, makes sure the users table and its
// unique email index exist, and wires the routes.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensuring indexes: %w", err)
	}

	return NewWithStore(cfg, store, auth.NewPasswordService(), logger), nil
}

// NewWithStore wires a server around an already prepared store.
// Tests use it to inject an in-memory store and a cheap PasswordService.
func NewWithStore(cfg *config.Config, store repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}
	s.setupRoutes(service.NewUserService(store, passwords, logger))
	return s
}

// openStore picks the backend named by DATABASE_DRIVER.
func openStore(ctx context.Context, db config.Database) (repository.UserRepository, error) {
	switch db.Driver {
	case config.DriverPostgres:
		dsn, err := db.PostgresDSN()
		if err != nil {
			return nil, err
		}
		store, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return store, nil

	case config.DriverSQLite:
		path := db.SQLitePath()
		if path != sqlite.MemoryPath {
			// os.MkdirAll creates all parent directories if needed (like `mkdir -p`).
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		store, err := sqlite.New(path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /health        → liveness probe
// GET    /ready         → readiness probe (pings the store)
// POST   /auth/signup   → create account
// POST   /auth/signin   → check credentials
// GET    /users         → list users, newest first
// GET    /users/{id}    → get one user
// PATCH  /users/{id}    → change full name
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID — assigns unique ID to each request
// 2. RealIP — extracts real client IP from proxy headers
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info and the request ID
// 5. CORS — answers preflights and tags responses for the browser
func (s *Server) setupRoutes(users *service.UserService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS(s.config.AllowedOrigins))

	healthHandler := handler.NewHealthHandler(s.store, s.logger)
	authHandler := handler.NewAuthHandler(users, s.logger)
	userHandler := handler.NewUserHandler(users, s.logger)

	s.router.Get("/health", healthHandler.HandleHealth)
	s.router.Get("/ready", healthHandler.HandleReady)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignUp)
		r.Post("/signin", authHandler.HandleSignIn)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Get("/{id}", userHandler.HandleGet)
		r.Patch("/{id}", userHandler.HandleUpdate)
	})
}

// Handler returns the fully wrapped HTTP handler.
//
// otelhttp starts a server span per request and extracts any incoming W3C
// traceparent header. With tracing disabled the global provider is a no-op.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, ServiceName)
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (SHUTDOWN_TIMEOUT)
// 3. Close the store (flushes sqlite WAL / releases postgres connections)
func (s *Server) Start() error {
	// This runs AFTER everything else in this function finishes.
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.Database.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
