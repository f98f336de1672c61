// Package commands implements the dbforge CLI commands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/dbforge-labs/dbforge/internal/catalog"
	"github.com/dbforge-labs/dbforge/internal/cli/config"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/internal/registry"
	"github.com/dbforge-labs/dbforge/internal/runner"
	"github.com/dbforge-labs/dbforge/internal/state"
)

// getConfig returns the loaded configuration, falling back to defaults when
// no load has happened (direct command construction in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Port:          config.DefaultPort,
		StatePath:     state.MemoryDSN,
		SessionSecret: config.DefaultSessionSecret,
		OutputFormat:  config.DefaultOutput,
	}
}

// Backend bundles the mocked console components shared by the commands.
type Backend struct {
	Store    *state.SQLiteStore
	Catalog  *catalog.Catalog
	Hub      *notify.Hub
	Registry *registry.Registry
	Runner   *runner.Runner
}

// Close releases the backend's resources.
func (b *Backend) Close() error {
	return b.Store.Close()
}

// openBackend assembles the catalog, registry and runner from config. The
// registry store is seeded with the catalog's connections on first open.
func openBackend(cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if cfg.Fixtures != "" {
		cat, err = catalog.LoadFile(cfg.Fixtures)
	} else {
		cat, err = catalog.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog fixtures: %w", err)
	}

	dsn := cfg.StatePath
	if dsn == "" {
		dsn = state.MemoryDSN
	}
	if dsn != state.MemoryDSN {
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(dsn); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}

	existing, err := store.ListConnections()
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if len(existing) == 0 {
		if err := store.Seed(cat.ListConnections()); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	hub := notify.NewHub()
	return &Backend{
		Store:   store,
		Catalog: cat,
		Hub:     hub,
		Registry: registry.New(registry.Config{
			Store:  store,
			Hub:    hub,
			Logger: logger,
		}),
		Runner: runner.New(runner.Config{
			Catalog: cat,
			Hub:     hub,
			Logger:  logger,
		}),
	}, nil
}

// isTerminal reports whether f is attached to a TTY.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
