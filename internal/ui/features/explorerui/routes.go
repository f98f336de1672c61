package explorerui

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/catalog"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/internal/registry"
	"github.com/dbforge-labs/dbforge/internal/ui/session"
)

// SetupRoutes registers the explorer feature routes.
func SetupRoutes(
	router chi.Router,
	reg *registry.Registry,
	cat *catalog.Catalog,
	sessions *session.Manager,
	hub *notify.Hub,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(reg, cat, sessions, hub, logger)

	router.Route("/api/explorer", func(r chi.Router) {
		r.Get("/tree", handlers.Tree)
		r.Post("/connection", handlers.SetConnection)
		r.Post("/schemas/{id}/toggle", handlers.ToggleSchema)
		r.Post("/tables/{id}/toggle", handlers.ToggleTable)
		r.Post("/tables/{id}/select", handlers.SelectTable)
	})

	return nil
}
