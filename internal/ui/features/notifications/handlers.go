// Package notifications streams toast notifications to the browser over SSE.
package notifications

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dbforge-labs/dbforge/internal/notify"
)

// Handlers provides the SSE notification stream.
type Handlers struct {
	hub    *notify.Hub
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(hub *notify.Hub, logger *slog.Logger) *Handlers {
	return &Handlers{hub: hub, logger: logger}
}

// Stream pushes each published notification to the client as a signal patch.
// The subscription ends when the client disconnects.
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case n := <-ch:
			payload, err := json.Marshal(map[string]notify.Notification{"notification": n})
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchSignals(payload); err != nil {
				h.logger.Debug("notification stream closed", "error", err)
				return
			}
		}
	}
}
