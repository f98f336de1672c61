package connections

import (
	"time"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Item is a connection as rendered in the panel: the stored connection plus
// transient and display-only attributes.
type Item struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          string     `json:"type"`
	TypeLabel     string     `json:"typeLabel"`
	TypeIcon      string     `json:"typeIcon"`
	Host          string     `json:"host"`
	Port          int        `json:"port"`
	Username      string     `json:"username"`
	Database      string     `json:"database"`
	Status        string     `json:"status"`
	Connecting    bool       `json:"connecting"`
	Favorite      bool       `json:"favorite"`
	LastConnected *time.Time `json:"lastConnected,omitempty"`
}

func itemFromConnection(conn *core.Connection, connecting bool) Item {
	display := core.DisplayFor(conn.Type)
	return Item{
		ID:            conn.ID,
		Name:          conn.Name,
		Type:          string(conn.Type),
		TypeLabel:     display.Label,
		TypeIcon:      display.Icon,
		Host:          conn.Host,
		Port:          conn.Port,
		Username:      conn.Username,
		Database:      conn.Database,
		Status:        string(conn.Status),
		Connecting:    connecting,
		Favorite:      conn.Favorite,
		LastConnected: conn.LastConnected,
	}
}

// ListResponse is the panel payload for one tab.
type ListResponse struct {
	Tab   string `json:"tab"`
	Items []Item `json:"items"`
}
