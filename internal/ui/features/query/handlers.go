// Package query provides handlers for the SQL editor.
package query

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dbforge-labs/dbforge/internal/runner"
	"github.com/dbforge-labs/dbforge/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the query feature.
type Handlers struct {
	runner *runner.Runner
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(run *runner.Runner, logger *slog.Logger) *Handlers {
	return &Handlers{runner: run, logger: logger}
}

// Execute runs the submitted query. Navigating away cancels the simulated
// execution through the request context.
func (h *Handlers) Execute(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SQL string `json:"sql"`
	}
	if err := common.Decode(r, &body); err != nil {
		common.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.runner.Run(r.Context(), body.SQL)
	switch {
	case errors.Is(err, runner.ErrEmptyQuery):
		common.Error(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.Canceled):
		return
	case err != nil:
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, result)
}

// Samples returns the canned example queries.
func (h *Handlers) Samples(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string][]string{"samples": h.runner.Samples()})
}

// Copy records a copy-to-clipboard action.
func (h *Handlers) Copy(w http.ResponseWriter, _ *http.Request) {
	h.runner.NotifyCopied()
	w.WriteHeader(http.StatusNoContent)
}

// Save records a save action.
func (h *Handlers) Save(w http.ResponseWriter, _ *http.Request) {
	h.runner.NotifySaved()
	w.WriteHeader(http.StatusNoContent)
}
