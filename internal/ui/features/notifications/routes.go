package notifications

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/notify"
)

// SetupRoutes registers the notifications feature routes.
func SetupRoutes(router chi.Router, hub *notify.Hub, logger *slog.Logger) error {
	handlers := NewHandlers(hub, logger)
	router.Get("/api/notifications", handlers.Stream)
	return nil
}
