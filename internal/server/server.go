// Package server wires the application together: store, services,
// handlers, routes, and the HTTP server lifecycle.
//
// COMPOSITION ROOT:
// New assembles the whole dependency chain in one place —
//
//	redis.DB → services (session, packages, exhibits) → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services, nothing below the handler layer
// touches HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/confidenceman02/elm-exhibit/internal/auth"
	"github.com/confidenceman02/elm-exhibit/internal/elm"
	"github.com/confidenceman02/elm-exhibit/internal/handler"
	"github.com/confidenceman02/elm-exhibit/internal/metrics"
	"github.com/confidenceman02/elm-exhibit/internal/middleware"
	redisRepo "github.com/confidenceman02/elm-exhibit/internal/repository/redis"
	"github.com/confidenceman02/elm-exhibit/internal/service"
)

// Config holds server configuration, loaded from the environment by
// cmd/server.
type Config struct {
	Port               int
	RedisAddr          string
	RedisPassword      string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
	// ElmSearchURL overrides the live package index; empty selects
	// package.elm-lang.org.
	ElmSearchURL string
}

// Server owns the router and the Redis connection. The connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *redisRepo.DB
}

// New connects to Redis and assembles the full dependency chain. A
// failed Redis connection is fatal here — the process has nothing to
// serve without its store.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := redisRepo.New(cfg.RedisAddr, cfg.RedisPassword, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures middleware, services, handlers, and routes.
//
// ROUTES:
//
//	GET  /api/session/grant      → existing session or redirect to GitHub
//	GET  /api/session/callback   → OAuth callback, establishes the session
//	GET  /api/session/refresh    → re-validate the cookie session
//	POST /api/session/destroy    → logout
//	GET  /api/author/exhibits    → exhibits (or packages) for ?author=
//	POST /api/exhibits           → create an exhibit reference (authenticated)
//	GET  /healthz                → liveness: pings the store
//	GET  /metrics                → Prometheus metrics
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The metrics registry is per-server rather than the package global,
	// so the server can be constructed more than once in tests.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)

	sessionService := service.NewSessionService(s.db, s.db, github, s.logger, m)
	packageService := service.NewPackageService(s.db, elm.NewClient(s.config.ElmSearchURL), s.logger, m)
	exhibitService := service.NewExhibitService(s.db, s.db, packageService, s.logger)

	sessionHandler := handler.NewSessionHandler(sessionService, s.logger)
	exhibitHandler := handler.NewExhibitHandler(exhibitService, sessionService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/session/grant", sessionHandler.HandleGrant)
		r.Get("/session/callback", sessionHandler.HandleCallback)
		r.Get("/session/refresh", sessionHandler.HandleRefresh)
		r.Post("/session/destroy", sessionHandler.HandleDestroy)

		r.Get("/author/exhibits", exhibitHandler.HandleAuthorExhibits)
		r.Post("/exhibits", exhibitHandler.HandleCreateExhibit)
	})

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// handleHealthz reports liveness. It pings the store so a dead Redis
// shows up here rather than as a stream of LoginFailed responses.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the store connection.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("redis", s.config.RedisAddr),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
