// Package catalog is the mock dataset provider: seed connections, schema
// metadata and canned row sets, loaded from YAML fixtures. The embedded
// fixtures mirror the console's demo data; an external fixtures file can
// replace them and is hot-reloaded while the server runs.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

//go:embed fixtures/catalog.yaml
var embeddedFixtures []byte

// fixtureFile is the YAML shape of a fixtures document.
type fixtureFile struct {
	Connections   []*core.Connection           `yaml:"connections"`
	Schemas       []core.Schema                `yaml:"schemas"`
	SchemasByConn map[string][]core.Schema     `yaml:"connection_schemas"`
	Datasets      map[string]*core.QueryResult `yaml:"datasets"`
	SampleQueries []string                     `yaml:"sample_queries"`
}

// Catalog holds the parsed fixtures. All accessors return copies, so a
// hot reload never mutates data a consumer is holding.
type Catalog struct {
	mu             sync.RWMutex
	conns          []*core.Connection
	defaultSchemas []core.Schema
	byConn         map[string][]core.Schema
	datasets       map[string]*core.QueryResult
	qualified      map[string]*core.QueryResult
	samples        []string
}

// Load parses the embedded fixtures.
func Load() (*Catalog, error) {
	return New(embeddedFixtures)
}

// LoadFile parses fixtures from an external YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return New(data)
}

// New parses a fixtures document.
func New(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Reload(data); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the catalog contents atomically. On parse error the
// previous contents stay in place.
func (c *Catalog) Reload(data []byte) error {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse fixtures: %w", err)
	}

	byConn := make(map[string][]core.Schema, len(f.SchemasByConn))
	for id, schemas := range f.SchemasByConn {
		byConn[id] = schemas
	}
	for _, conn := range f.Connections {
		if _, ok := byConn[conn.ID]; !ok {
			byConn[conn.ID] = f.Schemas
		}
	}

	// Register schema-qualified dataset keys for every fixture table whose
	// name has a canned row set, so qualified lookups resolve without
	// relying on the bare-name fallback.
	qualified := make(map[string]*core.QueryResult)
	for _, schema := range f.Schemas {
		for _, table := range schema.Tables {
			if rows, ok := f.Datasets[table.Name]; ok {
				qualified[schema.Name+"."+table.Name] = rows
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns = f.Connections
	c.defaultSchemas = f.Schemas
	c.byConn = byConn
	c.datasets = f.Datasets
	c.qualified = qualified
	c.samples = f.SampleQueries
	return nil
}

// ListConnections returns copies of the seed connections.
func (c *Catalog) ListConnections() []*core.Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*core.Connection, len(c.conns))
	for i, conn := range c.conns {
		cp := *conn
		out[i] = &cp
	}
	return out
}

// DefaultConnectionID returns the id of the first seed connection, or ""
// when the fixtures ship none. Connection-less consumers (the CLI) browse
// the catalog through it.
func (c *Catalog) DefaultConnectionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.conns) == 0 {
		return ""
	}
	return c.conns[0].ID
}

// Schemas returns the schema set for a connection id. Ids without an explicit
// fixtures entry share the default set, mirroring the demo data where every
// connection browses the same catalog. An empty id has no catalog.
func (c *Catalog) Schemas(connectionID string) []core.Schema {
	if connectionID == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if schemas, ok := c.byConn[connectionID]; ok {
		return schemas
	}
	return c.defaultSchemas
}

// FindTable looks up a table by id within a connection's catalog.
func (c *Catalog) FindTable(connectionID, tableID string) (core.Table, bool) {
	for _, schema := range c.Schemas(connectionID) {
		for _, table := range schema.Tables {
			if table.ID == tableID {
				return table, true
			}
		}
	}
	return core.Table{}, false
}

// Rows returns a copy of the canned row set for a bare table name.
func (c *Catalog) Rows(tableName string) (*core.QueryResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, ok := c.datasets[tableName]
	if !ok {
		return nil, false
	}
	return rows.Clone(), true
}

// RowsQualified returns the row set for (schema, table), falling back to the
// bare table name. With the shipped fixtures the fallback means same-named
// tables in different schemas share one row set.
func (c *Catalog) RowsQualified(schema, table string) (*core.QueryResult, bool) {
	c.mu.RLock()
	if rows, ok := c.qualified[schema+"."+table]; ok {
		c.mu.RUnlock()
		return rows.Clone(), true
	}
	c.mu.RUnlock()
	return c.Rows(table)
}

// SampleQueries returns the canned example queries.
func (c *Catalog) SampleQueries() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.samples...)
}

var _ core.Catalog = (*Catalog)(nil)
