package tables

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/ui/session"
)

// SetupRoutes registers the tables feature routes.
func SetupRoutes(router chi.Router, sessions *session.Manager, logger *slog.Logger) error {
	handlers := NewHandlers(sessions, logger)

	router.Route("/api/table", func(r chi.Router) {
		r.Get("/data", handlers.Data)
		r.Get("/structure", handlers.Structure)
		r.Post("/page", handlers.Page)
		r.Post("/search", handlers.Search)
		r.Post("/refresh", handlers.Refresh)
		r.Post("/rows/{index}/edit", handlers.Edit)
		r.Post("/rows/{index}/save", handlers.Save)
		r.Post("/rows/{index}/delete", handlers.Delete)
		r.Post("/rows/confirm-delete", handlers.ConfirmDelete)
	})

	return nil
}
