// Package state persists the connection registry in SQLite. The default DSN
// is ":memory:", which keeps every record session-scoped: closing the process
// discards the registry, matching the console's no-persistence contract.
package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dbforge-labs/dbforge/pkg/core"
	_ "modernc.org/sqlite"
)

// MemoryDSN is the default, session-scoped database location.
const MemoryDSN = ":memory:"

// SQLiteStore implements core.Store on a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	dsn string
}

// NewSQLiteStore creates a new store instance. Call Open before use.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// NewWithDB wraps an existing database handle. The caller owns the handle's
// lifecycle; Close on the store still closes it.
func NewWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open opens the SQLite database at dsn. Use MemoryDSN for the in-memory
// session store.
func (s *SQLiteStore) Open(dsn string) error {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every query sees the same data.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.dsn = dsn
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying handle for migrations and tests.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Seed inserts fixture connections, keeping their fixture ids. Ids assigned
// afterwards by CreateConnection continue from the sequence, so they never
// collide with seeded records.
func (s *SQLiteStore) Seed(conns []*core.Connection) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	for _, c := range conns {
		_, err := s.db.Exec(
			`INSERT INTO connections (id, name, type, host, port, username, password, database_name, status, favorite, last_connected)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, string(c.Type), c.Host, c.Port, c.Username, c.Password,
			c.Database, string(c.Status), boolToInt(c.Favorite), c.LastConnected,
		)
		if err != nil {
			return fmt.Errorf("failed to seed connection %q: %w", c.Name, err)
		}
	}
	return nil
}

const connectionColumns = `id, name, type, host, port, username, password, database_name, status, favorite, last_connected`

// ListConnections returns all connections in creation order.
func (s *SQLiteStore) ListConnections() ([]*core.Connection, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(`SELECT ` + connectionColumns + ` FROM connections ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var conns []*core.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

// GetConnection returns the connection with the given id, or nil when absent.
func (s *SQLiteStore) GetConnection(id string) (*core.Connection, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(`SELECT `+connectionColumns+` FROM connections WHERE id = ?`, id)
	c, err := scanConnection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateConnection inserts a new record. The id is derived from the table's
// monotonic sequence, so it stays unique even after deletes.
func (s *SQLiteStore) CreateConnection(params core.ConnectionParams) (*core.Connection, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		`INSERT INTO connections (id, name, type, host, port, username, password, database_name, status, favorite)
		 VALUES ('', ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.Name, string(params.Type), params.Host, params.Port,
		params.Username, params.Password, params.Database,
		string(core.StatusDisconnected), boolToInt(params.Favorite),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	id := fmt.Sprintf("conn-%d", seq)
	if _, err := tx.Exec(`UPDATE connections SET id = ? WHERE seq = ?`, id, seq); err != nil {
		return nil, fmt.Errorf("failed to assign connection id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return &core.Connection{
		ID:       id,
		Name:     params.Name,
		Type:     params.Type,
		Host:     params.Host,
		Port:     params.Port,
		Username: params.Username,
		Password: params.Password,
		Database: params.Database,
		Status:   core.StatusDisconnected,
		Favorite: params.Favorite,
	}, nil
}

// SetStatus updates the status, and lastConnected when non-nil.
func (s *SQLiteStore) SetStatus(id string, status core.ConnectionStatus, lastConnected *time.Time) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}

	var res sql.Result
	var err error
	if lastConnected != nil {
		res, err = s.db.Exec(
			`UPDATE connections SET status = ?, last_connected = ? WHERE id = ?`,
			string(status), lastConnected.UTC(), id,
		)
	} else {
		res, err = s.db.Exec(
			`UPDATE connections SET status = ? WHERE id = ?`,
			string(status), id,
		)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update status: %w", err)
	}
	return n > 0, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *SQLiteStore) ToggleFavorite(id string) (bool, bool, error) {
	if s.db == nil {
		return false, false, fmt.Errorf("database not opened")
	}

	res, err := s.db.Exec(`UPDATE connections SET favorite = 1 - favorite WHERE id = ?`, id)
	if err != nil {
		return false, false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if n == 0 {
		return false, false, nil
	}

	var favorite int
	if err := s.db.QueryRow(`SELECT favorite FROM connections WHERE id = ?`, id).Scan(&favorite); err != nil {
		return false, false, fmt.Errorf("failed to read favorite: %w", err)
	}
	return favorite != 0, true, nil
}

// DeleteConnection removes the record with the given id.
func (s *SQLiteStore) DeleteConnection(id string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}

	res, err := s.db.Exec(`DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete connection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete connection: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*core.Connection, error) {
	var (
		c             core.Connection
		typ, status   string
		favorite      int
		lastConnected sql.NullTime
	)

	err := row.Scan(
		&c.ID, &c.Name, &typ, &c.Host, &c.Port, &c.Username, &c.Password,
		&c.Database, &status, &favorite, &lastConnected,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan connection: %w", err)
	}

	c.Type = core.ConnectionType(typ)
	c.Status = core.ConnectionStatus(status)
	c.Favorite = favorite != 0
	if lastConnected.Valid {
		t := lastConnected.Time
		c.LastConnected = &t
	}
	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
