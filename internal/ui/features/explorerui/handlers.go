// Package explorerui provides handlers for the schema tree sidebar.
package explorerui

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/catalog"
	"github.com/dbforge-labs/dbforge/internal/explorer"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/internal/registry"
	"github.com/dbforge-labs/dbforge/internal/ui/features/common"
	"github.com/dbforge-labs/dbforge/internal/ui/session"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Handlers provides HTTP handlers for the explorer feature.
type Handlers struct {
	registry *registry.Registry
	catalog  *catalog.Catalog
	sessions *session.Manager
	hub      *notify.Hub
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reg *registry.Registry, cat *catalog.Catalog, sessions *session.Manager, hub *notify.Hub, logger *slog.Logger) *Handlers {
	return &Handlers{
		registry: reg,
		catalog:  cat,
		sessions: sessions,
		hub:      hub,
		logger:   logger,
	}
}

// phase derives the tree phase from the registry. A deleted connection
// invalidates the tree's reference on sight.
func (h *Handlers) phase(st *session.State) explorer.Phase {
	id := st.Explorer.ConnectionID()
	if id == "" {
		return explorer.PhaseNoConnection
	}
	conn, err := h.registry.Get(id)
	if err != nil || conn == nil {
		st.Explorer.Invalidate()
		return explorer.PhaseNoConnection
	}
	if h.registry.Connecting(id) {
		return explorer.PhaseConnecting
	}
	if conn.Status == core.StatusConnected {
		return explorer.PhaseConnected
	}
	return explorer.PhaseDisconnected
}

func (h *Handlers) tree(st *session.State) explorer.TreeView {
	return st.Explorer.BuildTree(h.catalog.Schemas(st.Explorer.ConnectionID()), h.phase(st))
}

// Tree returns the rendered schema tree. An explicit search parameter
// updates the filter term first.
func (h *Handlers) Tree(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.State(w, r)
	if r.URL.Query().Has("search") {
		st.Explorer.SetSearch(r.URL.Query().Get("search"))
	}
	common.JSON(w, http.StatusOK, h.tree(st))
}

// SetConnection binds the tree to a connection.
func (h *Handlers) SetConnection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := common.Decode(r, &body); err != nil {
		common.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st := h.sessions.State(w, r)
	st.Explorer.SetConnection(body.ID)
	common.JSON(w, http.StatusOK, h.tree(st))
}

// ToggleSchema flips a schema's expansion.
func (h *Handlers) ToggleSchema(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.State(w, r)
	st.Explorer.ToggleSchema(chi.URLParam(r, "id"))
	common.JSON(w, http.StatusOK, h.tree(st))
}

// ToggleTable flips a table's expansion.
func (h *Handlers) ToggleTable(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.State(w, r)
	st.Explorer.ToggleTable(chi.URLParam(r, "id"))
	common.JSON(w, http.StatusOK, h.tree(st))
}

// SelectTable selects a table and loads its rows into the session's viewer.
func (h *Handlers) SelectTable(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.State(w, r)
	tableID := chi.URLParam(r, "id")

	table, ok := h.catalog.FindTable(st.Explorer.ConnectionID(), tableID)
	if !ok {
		common.Error(w, http.StatusNotFound, "table not found")
		return
	}

	result, ok := h.catalog.RowsQualified(table.Schema, table.Name)
	if !ok {
		// No canned data for this table; show its structure over an empty set.
		cols := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			cols[i] = c.Name
		}
		result = &core.QueryResult{Columns: cols, Rows: []core.Row{}}
	}

	st.Explorer.Select(tableID)
	st.Viewer.SetTable(table.Name, result, table.Columns)
	h.hub.Publish("Table selected", fmt.Sprintf("Viewing %s", table.Name))
	common.JSON(w, http.StatusOK, h.tree(st))
}
