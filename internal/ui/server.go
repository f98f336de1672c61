// Package ui provides the web console server for dbforge.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dbforge-labs/dbforge/internal/catalog"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/internal/registry"
	"github.com/dbforge-labs/dbforge/internal/runner"
	"github.com/dbforge-labs/dbforge/internal/ui/router"
	"github.com/dbforge-labs/dbforge/internal/ui/session"
	"github.com/dbforge-labs/dbforge/internal/viewer"
)

// Server is the main console server.
type Server struct {
	registry     *registry.Registry
	catalog      *catalog.Catalog
	runner       *runner.Runner
	hub          *notify.Hub
	sessions     *session.Manager
	port         int
	fixturesPath string
	testDelay    time.Duration
	logger       *slog.Logger
}

// Config holds configuration for the console server.
type Config struct {
	Registry *registry.Registry
	Catalog  *catalog.Catalog
	Runner   *runner.Runner
	Hub      *notify.Hub
	Port     int

	// FixturesPath, when set, is watched for changes and hot-reloaded into
	// the catalog.
	FixturesPath  string
	SessionSecret string
	TestDelay     time.Duration
	RefreshDelay  time.Duration
	Logger        *slog.Logger
}

// NewServer creates a new console server instance.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	cookies := session.NewCookieStore(cfg.SessionSecret)
	sessions := session.NewManager(cookies, func() *viewer.Viewer {
		return viewer.New(viewer.Config{
			Hub:          cfg.Hub,
			Logger:       cfg.Logger,
			RefreshDelay: cfg.RefreshDelay,
		})
	})

	return &Server{
		registry:     cfg.Registry,
		catalog:      cfg.Catalog,
		runner:       cfg.Runner,
		hub:          cfg.Hub,
		sessions:     sessions,
		port:         cfg.Port,
		fixturesPath: cfg.FixturesPath,
		testDelay:    cfg.TestDelay,
		logger:       cfg.Logger,
	}
}

// Serve starts the console server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting console server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := router.Deps{
		ServerCtx: egctx,
		Registry:  s.registry,
		Catalog:   s.catalog,
		Runner:    s.runner,
		Sessions:  s.sessions,
		Hub:       s.hub,
		Logger:    s.logger,
		TestDelay: s.testDelay,
	}
	if err := router.SetupRoutes(r, deps); err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Watch the fixtures file if configured
	if s.fixturesPath != "" {
		eg.Go(func() error {
			return s.catalog.Watch(egctx, s.fixturesPath, s.logger, func() {
				s.hub.Publish("Fixtures reloaded", "Catalog fixtures were reloaded from disk")
			})
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down console server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
