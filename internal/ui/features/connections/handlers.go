// Package connections provides handlers for the connection panel and the
// connection form.
package connections

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/form"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/internal/registry"
	"github.com/dbforge-labs/dbforge/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the connections feature.
type Handlers struct {
	registry  *registry.Registry
	hub       *notify.Hub
	logger    *slog.Logger
	testDelay time.Duration

	// connectCtx outlives individual requests so a fire-and-forget connect
	// keeps running after its triggering request returns. It is the server's
	// lifetime context; shutdown cancels any still-pending connects.
	connectCtx context.Context
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(connectCtx context.Context, reg *registry.Registry, hub *notify.Hub, logger *slog.Logger, testDelay time.Duration) *Handlers {
	if testDelay == 0 {
		testDelay = form.DefaultTestDelay
	}
	return &Handlers{
		registry:   reg,
		hub:        hub,
		logger:     logger,
		testDelay:  testDelay,
		connectCtx: connectCtx,
	}
}

// List returns the connections for the requested tab.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	tab := tabParam(r)
	entries, err := h.registry.List(tab)
	if err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, listResponse(tab, entries))
}

// Refresh re-reads the list after the simulated refresh latency. Navigating
// away cancels the wait through the request context.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	tab := tabParam(r)
	entries, err := h.registry.Refresh(r.Context(), tab)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, listResponse(tab, entries))
}

// Defaults returns the form's initial field values.
func (h *Handlers) Defaults(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, form.Defaults())
}

// Create validates the submitted form, runs the simulated connection test
// and saves the connection. The test phase always succeeds; the save happens
// only after its "Connection successful" toast.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var params form.Params
	if err := common.Decode(r, &params); err != nil {
		common.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	normalized, verr := form.Validate(params)
	if verr != nil {
		common.JSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr})
		return
	}

	if err := form.TestConnection(r.Context(), h.testDelay); err != nil {
		// Client navigated away; nothing was saved.
		return
	}
	h.hub.Publish("Connection successful", "Successfully connected to the database")

	conn, err := h.registry.Create(normalized)
	if err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusCreated, itemFromConnection(conn, false))
}

// Test validates the form and runs the simulated connection test.
func (h *Handlers) Test(w http.ResponseWriter, r *http.Request) {
	var params form.Params
	if err := common.Decode(r, &params); err != nil {
		common.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, verr := form.Validate(params); verr != nil {
		common.JSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr})
		return
	}

	if err := form.TestConnection(r.Context(), h.testDelay); err != nil {
		// Client navigated away; nothing to report.
		return
	}
	h.hub.Publish("Connection successful", "Successfully connected to the database")
	common.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Connect starts an asynchronous connect for the connection.
func (h *Handlers) Connect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.registry.Connect(h.connectCtx, id); err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Disconnect marks the connection disconnected immediately.
func (h *Handlers) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Disconnect(chi.URLParam(r, "id")); err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Favorite toggles the connection's favorite flag.
func (h *Handlers) Favorite(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.ToggleFavorite(chi.URLParam(r, "id")); err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes the connection. Unknown ids are a silent no-op.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Delete(chi.URLParam(r, "id")); err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func tabParam(r *http.Request) string {
	tab := r.URL.Query().Get("tab")
	switch tab {
	case registry.TabRecent, registry.TabFavorites:
		return tab
	default:
		return registry.TabAll
	}
}

func listResponse(tab string, entries []registry.Entry) ListResponse {
	resp := ListResponse{Tab: tab, Items: []Item{}}
	for _, e := range entries {
		resp.Items = append(resp.Items, itemFromConnection(e.Connection, e.Connecting))
	}
	return resp
}
