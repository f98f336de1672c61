package query

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/runner"
)

// SetupRoutes registers the query feature routes.
func SetupRoutes(router chi.Router, run *runner.Runner, logger *slog.Logger) error {
	handlers := NewHandlers(run, logger)

	router.Route("/api/query", func(r chi.Router) {
		r.Post("/execute", handlers.Execute)
		r.Get("/samples", handlers.Samples)
		r.Post("/copy", handlers.Copy)
		r.Post("/save", handlers.Save)
	})

	return nil
}
