// Package tables provides handlers for the result table viewer: pagination,
// search, inline editing and the two-phase row delete.
package tables

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dbforge-labs/dbforge/internal/ui/features/common"
	"github.com/dbforge-labs/dbforge/internal/ui/session"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Handlers provides HTTP handlers for the tables feature.
type Handlers struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessions *session.Manager, logger *slog.Logger) *Handlers {
	return &Handlers{sessions: sessions, logger: logger}
}

// Data returns the current page of the bound table.
func (h *Handlers) Data(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.State(w, r)
	common.JSON(w, http.StatusOK, st.Viewer.Snapshot())
}

// Structure returns the bound table's column metadata.
func (h *Handlers) Structure(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.State(w, r)
	cols := st.Viewer.Structure()
	if cols == nil {
		cols = []core.Column{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"table":   st.Viewer.TableName(),
		"columns": cols,
	})
}

// Page moves the pagination cursor. Out-of-range moves are clamped no-ops.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action string `json:"action"`
		Page   int    `json:"page"`
	}
	if err := common.Decode(r, &body); err != nil {
		common.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st := h.sessions.State(w, r)
	switch body.Action {
	case "first":
		st.Viewer.First()
	case "prev":
		st.Viewer.Prev()
	case "next":
		st.Viewer.Next()
	case "last":
		st.Viewer.Last()
	case "goto":
		st.Viewer.GoTo(body.Page)
	default:
		common.Error(w, http.StatusBadRequest, "unknown page action")
		return
	}
	common.JSON(w, http.StatusOK, st.Viewer.Snapshot())
}

// Search updates the filter term. The page number is kept as-is.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term string `json:"term"`
	}
	if err := common.Decode(r, &body); err != nil {
		common.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st := h.sessions.State(w, r)
	st.Viewer.SetSearch(body.Term)
	common.JSON(w, http.StatusOK, st.Viewer.Snapshot())
}

// Refresh simulates re-fetching the table's rows.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	st := h.sessions.State(w, r)
	if err := st.Viewer.Refresh(r.Context()); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, st.Viewer.Snapshot())
}

// Edit returns an editable copy of a row.
func (h *Handlers) Edit(w http.ResponseWriter, r *http.Request) {
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}
	st := h.sessions.State(w, r)
	row, ok := st.Viewer.Edit(index)
	if !ok {
		common.Error(w, http.StatusNotFound, "row not found")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"index": index, "row": row})
}

// Save accepts an edited row. The backing data never changes.
func (h *Handlers) Save(w http.ResponseWriter, r *http.Request) {
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}
	var row core.Row
	if err := common.Decode(r, &row); err != nil {
		common.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st := h.sessions.State(w, r)
	if !st.Viewer.Save(index, row) {
		common.Error(w, http.StatusNotFound, "row not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete starts a two-phase row delete and returns the confirmation token.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}
	st := h.sessions.State(w, r)
	token, ok := st.Viewer.RequestDelete(index)
	if !ok {
		common.Error(w, http.StatusNotFound, "row not found")
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"token": token})
}

// ConfirmDelete completes a pending delete.
func (h *Handlers) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := common.Decode(r, &body); err != nil {
		common.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st := h.sessions.State(w, r)
	if !st.Viewer.ConfirmDelete(body.Token) {
		common.Error(w, http.StatusNotFound, "unknown delete token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func rowIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		common.Error(w, http.StatusBadRequest, "invalid row index")
		return 0, false
	}
	return index, true
}
