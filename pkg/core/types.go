// Package core defines the shared domain types for the dbforge console:
// connections, catalog metadata, and tabular query results. All state is
// synthetic and session-scoped; there is no real database behind any of it.
package core

import "time"

// ConnectionType identifies the database engine a connection targets.
type ConnectionType string

// Supported connection types. The set is closed; the form rejects anything else.
const (
	TypeMySQL    ConnectionType = "mysql"
	TypePostgres ConnectionType = "postgres"
	TypeSQLite   ConnectionType = "sqlite"
	TypeMSSQL    ConnectionType = "mssql"
	TypeOracle   ConnectionType = "oracle"
)

// ConnectionTypes lists all valid connection types in display order.
var ConnectionTypes = []ConnectionType{
	TypeMySQL, TypePostgres, TypeSQLite, TypeMSSQL, TypeOracle,
}

// Valid reports whether t is one of the supported connection types.
func (t ConnectionType) Valid() bool {
	for _, v := range ConnectionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ConnectionStatus is the persisted status of a connection record.
// A pending connect is tracked separately as an ephemeral flag and is
// never stored as a status value.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusError        ConnectionStatus = "error"
)

// Connection is a saved database connection descriptor. The registry is the
// sole owner; other components hold only its id as a transient reference.
type Connection struct {
	ID            string           `json:"id" yaml:"id"`
	Name          string           `json:"name" yaml:"name"`
	Type          ConnectionType   `json:"type" yaml:"type"`
	Host          string           `json:"host" yaml:"host"`
	Port          int              `json:"port" yaml:"port"`
	Username      string           `json:"username" yaml:"username"`
	Password      string           `json:"password,omitempty" yaml:"password,omitempty"`
	Database      string           `json:"database" yaml:"database"`
	Status        ConnectionStatus `json:"status" yaml:"status"`
	Favorite      bool             `json:"favorite" yaml:"favorite"`
	LastConnected *time.Time       `json:"lastConnected,omitempty" yaml:"last_connected,omitempty"`
}

// ConnectionParams carries the validated, normalized fields for creating a
// connection. ID, status and lastConnected are assigned by the registry.
type ConnectionParams struct {
	Name     string         `json:"name"`
	Type     ConnectionType `json:"type"`
	Host     string         `json:"host"`
	Port     int            `json:"port"`
	Username string         `json:"username"`
	Password string         `json:"password,omitempty"`
	Database string         `json:"database"`
	Favorite bool           `json:"favorite"`
}

// Schema is a named grouping of tables within a connection's catalog.
type Schema struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Tables []Table `json:"tables" yaml:"tables"`
}

// Table is catalog metadata for a single table.
type Table struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Schema   string   `json:"schema" yaml:"schema"`
	Columns  []Column `json:"columns" yaml:"columns"`
	RowCount int      `json:"rowCount" yaml:"row_count"`
}

// Column is catalog metadata for a single column.
type Column struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	Nullable     bool   `json:"nullable" yaml:"nullable"`
	IsPrimaryKey bool   `json:"isPrimaryKey" yaml:"primary_key"`
	IsForeignKey bool   `json:"isForeignKey" yaml:"foreign_key"`
	DefaultValue string `json:"defaultValue,omitempty" yaml:"default,omitempty"`
}

// QueryErrorKind classifies result-level failures. The mock runner never
// produces any of these; they exist so a real backend can surface failures
// as results instead of thrown faults.
type QueryErrorKind string

const (
	ErrKindConnectionRefused QueryErrorKind = "connection_refused"
	ErrKindAuthFailure       QueryErrorKind = "auth_failure"
	ErrKindSyntaxError       QueryErrorKind = "syntax_error"
	ErrKindTimeout           QueryErrorKind = "timeout"
)

// Row maps column names to cell values. Keys are always a subset of the
// owning result's Columns.
type Row map[string]any

// QueryResult is a tabular result set.
type QueryResult struct {
	Columns       []string       `json:"columns" yaml:"columns"`
	Rows          []Row          `json:"rows" yaml:"rows"`
	RowCount      int            `json:"rowCount" yaml:"row_count"`
	ExecutionTime float64        `json:"executionTime" yaml:"execution_time"` // seconds
	ErrorKind     QueryErrorKind `json:"errorKind,omitempty" yaml:"-"`
}

// NullDisplay is the literal placeholder rendered for missing cell values.
const NullDisplay = "NULL"

// Cell returns the display string for a column of the row. Missing or nil
// values render as the NULL placeholder, never as an empty string.
func (r Row) Cell(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return NullDisplay
	}
	return Stringify(v)
}

// Clone returns a shallow copy of the row. Editing the copy never touches
// the original.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Clone returns a copy of the result with an independent row slice. The row
// maps themselves are copied too, so callers can hand clones to mutating
// consumers safely.
func (q *QueryResult) Clone() *QueryResult {
	if q == nil {
		return nil
	}
	out := &QueryResult{
		Columns:       append([]string(nil), q.Columns...),
		Rows:          make([]Row, len(q.Rows)),
		RowCount:      q.RowCount,
		ExecutionTime: q.ExecutionTime,
		ErrorKind:     q.ErrorKind,
	}
	for i, row := range q.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}
