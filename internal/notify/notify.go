// Package notify is the user-visible notification sink. Every mutating
// action in the console publishes a toast-style notification here; delivery
// is purely observational and never blocks the triggering action.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for display purposes.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a single user-visible event.
type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity,omitempty"`
	Time        time.Time `json:"time"`
}

// subscriberBuffer bounds how many undelivered notifications a slow listener
// can hold before further ones are dropped for it.
const subscriberBuffer = 16

// Hub fans notifications out to all subscribed listeners.
type Hub struct {
	mu        sync.RWMutex
	listeners map[chan Notification]struct{}
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{listeners: make(map[chan Notification]struct{})}
}

// Subscribe returns a channel that receives published notifications.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (h *Hub) Subscribe() chan Notification {
	ch := make(chan Notification, subscriberBuffer)
	h.mu.Lock()
	h.listeners[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (h *Hub) Unsubscribe(ch chan Notification) {
	h.mu.Lock()
	delete(h.listeners, ch)
	h.mu.Unlock()
	close(ch)
}

// Publish broadcasts an info notification.
func (h *Hub) Publish(title, description string) {
	h.Send(Notification{Title: title, Description: description, Severity: SeverityInfo})
}

// PublishError broadcasts an error notification.
func (h *Hub) PublishError(title, description string) {
	h.Send(Notification{Title: title, Description: description, Severity: SeverityError})
}

// Send broadcasts a notification to all listeners, assigning id and time if
// unset. Non-blocking: if a listener's buffer is full the notification is
// dropped for that listener.
func (h *Hub) Send(n Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Time.IsZero() {
		n.Time = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.listeners {
		select {
		case ch <- n:
		default:
			// Listener is full, drop for it rather than block the action.
		}
	}
}
