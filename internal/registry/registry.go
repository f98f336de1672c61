// Package registry owns the saved-connection records and their status
// transitions. Connects go through a simulated latency window tracked as an
// ephemeral per-connection pending flag; re-triggering, disconnecting or
// deleting supersedes the pending attempt so its completion is discarded.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dbforge-labs/dbforge/internal/latency"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Tab filters for listing connections.
const (
	TabAll       = "all"
	TabRecent    = "recent"
	TabFavorites = "favorites"
)

// DefaultConnectDelay is the simulated latency of a connect attempt.
const DefaultConnectDelay = time.Second

// DefaultRefreshDelay is the simulated latency of a list refresh.
const DefaultRefreshDelay = time.Second

// Entry is a connection plus its ephemeral pending flag. Connecting is never
// persisted as a status value.
type Entry struct {
	*core.Connection
	Connecting bool `json:"connecting"`
}

// Config holds the registry's collaborators.
type Config struct {
	Store        core.Store
	Hub          *notify.Hub
	Logger       *slog.Logger
	ConnectDelay time.Duration
	RefreshDelay time.Duration
}

// Registry is the sole owner of connection records.
type Registry struct {
	store        core.Store
	hub          *notify.Hub
	logger       *slog.Logger
	gate         *latency.Gate
	connectDelay time.Duration
	refreshDelay time.Duration

	mu      sync.Mutex
	pending map[string]bool
}

// New creates a registry. A nil Hub is replaced with a fresh one so callers
// without observers still work.
func New(cfg Config) *Registry {
	if cfg.Hub == nil {
		cfg.Hub = notify.NewHub()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConnectDelay == 0 {
		cfg.ConnectDelay = DefaultConnectDelay
	}
	if cfg.RefreshDelay == 0 {
		cfg.RefreshDelay = DefaultRefreshDelay
	}
	return &Registry{
		store:        cfg.Store,
		hub:          cfg.Hub,
		logger:       cfg.Logger,
		gate:         latency.NewGate(),
		connectDelay: cfg.ConnectDelay,
		refreshDelay: cfg.RefreshDelay,
		pending:      make(map[string]bool),
	}
}

// List returns connections filtered by tab: all, recent (has a lastConnected
// timestamp, most recent first) or favorites.
func (r *Registry) List(tab string) ([]Entry, error) {
	conns, err := r.store.ListConnections()
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	var entries []Entry
	for _, c := range conns {
		switch tab {
		case TabFavorites:
			if !c.Favorite {
				continue
			}
		case TabRecent:
			if c.LastConnected == nil {
				continue
			}
		}
		entries = append(entries, Entry{Connection: c, Connecting: r.Connecting(c.ID)})
	}

	if tab == TabRecent {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].LastConnected.After(*entries[j].LastConnected)
		})
	}
	return entries, nil
}

// Refresh simulates a round trip before re-reading the list. Cancelling ctx
// aborts without touching anything.
func (r *Registry) Refresh(ctx context.Context, tab string) ([]Entry, error) {
	if err := latency.Wait(ctx, r.refreshDelay); err != nil {
		return nil, err
	}
	return r.List(tab)
}

// Get returns the connection with the given id, or nil when absent.
func (r *Registry) Get(id string) (*core.Connection, error) {
	return r.store.GetConnection(id)
}

// Connecting reports whether a connect attempt is pending for the id.
func (r *Registry) Connecting(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending[id]
}

// Create adds a new record with status disconnected and notifies.
func (r *Registry) Create(params core.ConnectionParams) (*core.Connection, error) {
	c, err := r.store.CreateConnection(params)
	if err != nil {
		return nil, err
	}

	r.logger.Info("connection created", "id", c.ID, "name", c.Name)
	r.hub.Publish("Connection saved", fmt.Sprintf("%s has been added to your connections", c.Name))
	return c, nil
}

// Connect starts a simulated connect. Unknown ids are silent no-ops and emit
// nothing. The attempt waits the configured latency off the calling
// goroutine; a newer attempt, a disconnect or a delete in the meantime makes
// the completion stale, and a stale completion applies no effects.
func (r *Registry) Connect(ctx context.Context, id string) error {
	c, err := r.store.GetConnection(id)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	token := r.gate.Begin(connectKey(id))
	r.mu.Lock()
	r.pending[id] = true
	r.mu.Unlock()

	r.hub.Publish("Connecting to database", fmt.Sprintf("Establishing connection to %s...", c.Name))

	go r.finishConnect(ctx, c.Name, id, token)
	return nil
}

func (r *Registry) finishConnect(ctx context.Context, name, id string, token uint64) {
	waitErr := latency.Wait(ctx, r.connectDelay)

	if r.gate.Stale(connectKey(id), token) {
		return
	}

	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()

	if waitErr != nil {
		r.logger.Debug("connect cancelled", "id", id)
		return
	}

	now := time.Now().UTC()
	existed, err := r.store.SetStatus(id, core.StatusConnected, &now)
	if err != nil {
		r.logger.Error("connect failed to persist", "id", id, "error", err)
		return
	}
	if !existed {
		return
	}

	r.logger.Info("connected", "id", id, "name", name)
	r.hub.Publish("Connected", fmt.Sprintf("Successfully connected to %s", name))
}

// Disconnect sets the status to disconnected immediately and cancels any
// pending connect. Unknown ids are silent no-ops.
func (r *Registry) Disconnect(id string) error {
	// Read the record first; a concurrent delete between the update and a
	// re-read would otherwise leave nothing to name in the notification.
	c, err := r.store.GetConnection(id)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	r.cancelPending(id)

	existed, err := r.store.SetStatus(id, core.StatusDisconnected, nil)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}

	r.logger.Info("disconnected", "id", id)
	r.hub.Publish("Disconnected", fmt.Sprintf("Disconnected from %s", c.Name))
	return nil
}

// ToggleFavorite flips the favorite flag. Unknown ids are silent no-ops.
func (r *Registry) ToggleFavorite(id string) error {
	c, err := r.store.GetConnection(id)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	favorite, existed, err := r.store.ToggleFavorite(id)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}

	if favorite {
		r.hub.Publish("Added to favorites", fmt.Sprintf("%s has been added to favorites", c.Name))
	} else {
		r.hub.Publish("Removed from favorites", fmt.Sprintf("%s has been removed from favorites", c.Name))
	}
	return nil
}

// Delete removes the record and cancels any pending connect for it. Unknown
// ids are silent no-ops. Components holding the id as a selection must treat
// it as invalid on their next read.
func (r *Registry) Delete(id string) error {
	c, err := r.store.GetConnection(id)
	if err != nil {
		return err
	}
	if c == nil {
		return nil
	}

	r.cancelPending(id)

	existed, err := r.store.DeleteConnection(id)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}

	r.logger.Info("connection deleted", "id", id, "name", c.Name)
	r.hub.Publish("Connection deleted", fmt.Sprintf("%s has been removed", c.Name))
	return nil
}

func (r *Registry) cancelPending(id string) {
	r.gate.Cancel(connectKey(id))
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

func connectKey(id string) string {
	return "connect:" + id
}
