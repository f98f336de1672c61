// Package router sets up HTTP routes for the UI server.
package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/catalog"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/internal/registry"
	"github.com/dbforge-labs/dbforge/internal/runner"
	connectionsFeature "github.com/dbforge-labs/dbforge/internal/ui/features/connections"
	explorerFeature "github.com/dbforge-labs/dbforge/internal/ui/features/explorerui"
	notificationsFeature "github.com/dbforge-labs/dbforge/internal/ui/features/notifications"
	queryFeature "github.com/dbforge-labs/dbforge/internal/ui/features/query"
	tablesFeature "github.com/dbforge-labs/dbforge/internal/ui/features/tables"
	"github.com/dbforge-labs/dbforge/internal/ui/session"
)

// Deps carries everything the feature routes need.
type Deps struct {
	// ServerCtx is the server's lifetime context. Asynchronous connects run
	// on it so they survive the request that triggered them.
	ServerCtx context.Context
	Registry  *registry.Registry
	Catalog   *catalog.Catalog
	Runner    *runner.Runner
	Sessions  *session.Manager
	Hub       *notify.Hub
	Logger    *slog.Logger
	TestDelay time.Duration
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	if err := connectionsFeature.SetupRoutes(router, deps.ServerCtx, deps.Registry, deps.Hub, deps.Logger, deps.TestDelay); err != nil {
		return err
	}

	if err := explorerFeature.SetupRoutes(router, deps.Registry, deps.Catalog, deps.Sessions, deps.Hub, deps.Logger); err != nil {
		return err
	}

	if err := tablesFeature.SetupRoutes(router, deps.Sessions, deps.Logger); err != nil {
		return err
	}

	if err := queryFeature.SetupRoutes(router, deps.Runner, deps.Logger); err != nil {
		return err
	}

	if err := notificationsFeature.SetupRoutes(router, deps.Hub, deps.Logger); err != nil {
		return err
	}

	return nil
}
