package connections

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/internal/registry"
)

// SetupRoutes registers the connections feature routes.
func SetupRoutes(
	router chi.Router,
	connectCtx context.Context,
	reg *registry.Registry,
	hub *notify.Hub,
	logger *slog.Logger,
	testDelay time.Duration,
) error {
	handlers := NewHandlers(connectCtx, reg, hub, logger, testDelay)

	router.Route("/api/connections", func(r chi.Router) {
		r.Get("/", handlers.List)
		r.Post("/", handlers.Create)
		r.Get("/refresh", handlers.Refresh)
		r.Get("/defaults", handlers.Defaults)
		r.Post("/test", handlers.Test)
		r.Post("/{id}/connect", handlers.Connect)
		r.Post("/{id}/disconnect", handlers.Disconnect)
		r.Post("/{id}/favorite", handlers.Favorite)
		r.Delete("/{id}", handlers.Delete)
	})

	return nil
}
