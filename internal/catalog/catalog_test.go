package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

func TestLoad_EmbeddedFixtures(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	conns := c.ListConnections()
	require.Len(t, conns, 3)
	assert.Equal(t, "Production Database", conns[0].Name)
	assert.Equal(t, core.TypePostgres, conns[0].Type)
	assert.True(t, conns[0].Favorite)
	require.NotNil(t, conns[0].LastConnected)

	schemas := c.Schemas("1")
	require.Len(t, schemas, 2)
	assert.Equal(t, "public", schemas[0].Name)
	assert.Len(t, schemas[0].Tables, 3)
	assert.Equal(t, "analytics", schemas[1].Name)

	users := schemas[0].Tables[0]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, 1250, users.RowCount)
	require.Len(t, users.Columns, 4)
	assert.True(t, users.Columns[0].IsPrimaryKey)
	assert.Equal(t, "CURRENT_TIMESTAMP", users.Columns[3].DefaultValue)
}

func TestDefaultConnectionID(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "1", c.DefaultConnectionID())

	empty, err := New([]byte("connections: []\n"))
	require.NoError(t, err)
	assert.Empty(t, empty.DefaultConnectionID())
}

func TestSchemas_Keying(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	// Ids without an explicit fixtures entry share the default set.
	assert.Len(t, c.Schemas("conn-99"), 2)
	// An empty id has no catalog.
	assert.Nil(t, c.Schemas(""))
}

func TestRows(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	orders, ok := c.Rows("orders")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "user_id", "total", "status", "created_at"}, orders.Columns)
	assert.Len(t, orders.Rows, 5)
	assert.Equal(t, 5, orders.RowCount)

	_, ok = c.Rows("no_such_table")
	assert.False(t, ok)
}

func TestRows_ReturnsCopies(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	first, ok := c.Rows("users")
	require.True(t, ok)
	first.Rows[0]["username"] = "mutated"

	second, ok := c.Rows("users")
	require.True(t, ok)
	assert.Equal(t, "johndoe", second.Rows[0].Cell("username"))
}

func TestRowsQualified_FallsBackToBareName(t *testing.T) {
	fixtures := []byte(`
schemas:
  - id: s1
    name: public
    tables:
      - {id: t1, name: events, schema: public, row_count: 1, columns: []}
  - id: s2
    name: analytics
    tables:
      - {id: t2, name: events, schema: analytics, row_count: 1, columns: []}
datasets:
  events:
    columns: [id]
    row_count: 1
    rows:
      - {id: 1}
`)
	c, err := New(fixtures)
	require.NoError(t, err)

	// Two same-named tables across schemas resolve to the shared row set.
	a, ok := c.RowsQualified("public", "events")
	require.True(t, ok)
	b, ok := c.RowsQualified("analytics", "events")
	require.True(t, ok)
	assert.Equal(t, a.Columns, b.Columns)
	assert.Equal(t, a.Rows, b.Rows)
}

func TestFindTable(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	table, ok := c.FindTable("1", "table2")
	require.True(t, ok)
	assert.Equal(t, "orders", table.Name)
	assert.Equal(t, "public", table.Schema)

	_, ok = c.FindTable("1", "no_such_id")
	assert.False(t, ok)
}

func TestReload_BadYAMLKeepsPreviousContents(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	err = c.Reload([]byte("{not yaml"))
	require.Error(t, err)

	assert.Len(t, c.ListConnections(), 3)
}

func TestSampleQueries(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	samples := c.SampleQueries()
	require.Len(t, samples, 3)
	assert.Contains(t, samples[0], "SELECT * FROM users")
}
