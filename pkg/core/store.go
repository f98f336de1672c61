package core

import "time"

// Store is the persistence interface for the connection registry. The
// default implementation lives in internal/state and keeps everything in an
// in-memory SQLite database, so nothing survives the session.
type Store interface {
	// ListConnections returns all connections in creation order.
	ListConnections() ([]*Connection, error)

	// GetConnection returns the connection with the given id, or nil if it
	// does not exist. A missing id is not an error.
	GetConnection(id string) (*Connection, error)

	// CreateConnection inserts a new record with a fresh monotonic id,
	// status disconnected and no lastConnected timestamp.
	CreateConnection(params ConnectionParams) (*Connection, error)

	// SetStatus updates the status, and lastConnected when non-nil.
	// Reports whether a record with the id existed.
	SetStatus(id string, status ConnectionStatus, lastConnected *time.Time) (bool, error)

	// ToggleFavorite flips the favorite flag and returns the new value.
	ToggleFavorite(id string) (favorite bool, existed bool, err error)

	// DeleteConnection removes the record. Reports whether it existed.
	DeleteConnection(id string) (bool, error)

	Close() error
}

// Catalog is the read-only mock dataset provider: seed connections,
// per-connection schema metadata and per-table row sets. Consumers depend on
// this interface so a real backend can be substituted without touching them.
type Catalog interface {
	// ListConnections returns the seed connections shipped with the fixtures.
	ListConnections() []*Connection

	// Schemas returns the schema set keyed by connection id. Ids without an
	// explicit entry share the provider's default set; an empty id has none.
	Schemas(connectionID string) []Schema

	// Rows returns the canned row set registered under the bare table name.
	Rows(tableName string) (*QueryResult, bool)

	// RowsQualified looks up rows by (schema, table), falling back to the
	// bare table name. With the shipped fixtures the fallback means two
	// same-named tables in different schemas share one row set.
	RowsQualified(schema, table string) (*QueryResult, bool)

	// SampleQueries returns the saved example queries shipped with the
	// fixtures, in file order.
	SampleQueries() []string
}
