package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s := NewSQLiteStore()
	require.NoError(t, s.Open(MemoryDSN))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateConnection(t *testing.T) {
	s := openTestStore(t)

	c, err := s.CreateConnection(core.ConnectionParams{
		Name:     "Test DB",
		Type:     core.TypePostgres,
		Host:     "localhost",
		Port:     5432,
		Username: "u",
		Database: "d",
	})
	require.NoError(t, err)

	assert.Equal(t, "conn-1", c.ID)
	assert.Equal(t, core.StatusDisconnected, c.Status)
	assert.False(t, c.Favorite)
	assert.Nil(t, c.LastConnected)

	all, err := s.ListConnections()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Test DB", all[0].Name)
}

func TestCreateConnection_IDsStayMonotonicAfterDelete(t *testing.T) {
	s := openTestStore(t)

	first, err := s.CreateConnection(core.ConnectionParams{Name: "a", Type: core.TypeMySQL, Host: "h", Port: 1, Username: "u", Database: "d"})
	require.NoError(t, err)

	existed, err := s.DeleteConnection(first.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	second, err := s.CreateConnection(core.ConnectionParams{Name: "b", Type: core.TypeMySQL, Host: "h", Port: 1, Username: "u", Database: "d"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "conn-2", second.ID)
}

func TestGetConnection_UnknownIsNilNotError(t *testing.T) {
	s := openTestStore(t)

	c, err := s.GetConnection("ghost")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestSetStatus(t *testing.T) {
	s := openTestStore(t)

	c, err := s.CreateConnection(core.ConnectionParams{Name: "a", Type: core.TypePostgres, Host: "h", Port: 1, Username: "u", Database: "d"})
	require.NoError(t, err)

	now := time.Date(2023, 5, 15, 10, 30, 0, 0, time.UTC)
	existed, err := s.SetStatus(c.ID, core.StatusConnected, &now)
	require.NoError(t, err)
	assert.True(t, existed)

	got, err := s.GetConnection(c.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusConnected, got.Status)
	require.NotNil(t, got.LastConnected)
	assert.True(t, got.LastConnected.Equal(now))

	// Disconnect leaves lastConnected untouched.
	existed, err = s.SetStatus(c.ID, core.StatusDisconnected, nil)
	require.NoError(t, err)
	assert.True(t, existed)

	got, err = s.GetConnection(c.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusDisconnected, got.Status)
	assert.NotNil(t, got.LastConnected)
}

func TestSetStatus_UnknownID(t *testing.T) {
	s := openTestStore(t)

	existed, err := s.SetStatus("ghost", core.StatusConnected, nil)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestToggleFavorite_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	c, err := s.CreateConnection(core.ConnectionParams{Name: "a", Type: core.TypePostgres, Host: "h", Port: 1, Username: "u", Database: "d"})
	require.NoError(t, err)

	fav, existed, err := s.ToggleFavorite(c.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.True(t, fav)

	fav, existed, err = s.ToggleFavorite(c.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.False(t, fav, "toggling twice returns the flag to its original value")
}

func TestToggleFavorite_UnknownID(t *testing.T) {
	s := openTestStore(t)

	_, existed, err := s.ToggleFavorite("ghost")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestDeleteConnection(t *testing.T) {
	s := openTestStore(t)

	c, err := s.CreateConnection(core.ConnectionParams{Name: "a", Type: core.TypePostgres, Host: "h", Port: 1, Username: "u", Database: "d"})
	require.NoError(t, err)

	existed, err := s.DeleteConnection(c.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = s.DeleteConnection(c.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	all, err := s.ListConnections()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSeed(t *testing.T) {
	s := openTestStore(t)

	last := time.Date(2023, 4, 15, 10, 30, 0, 0, time.UTC)
	seeds := []*core.Connection{
		{ID: "1", Name: "Production Database", Type: core.TypePostgres, Host: "db.example.com", Port: 5432, Username: "admin", Database: "production_db", Status: core.StatusConnected, Favorite: true, LastConnected: &last},
		{ID: "2", Name: "Development Server", Type: core.TypeMySQL, Host: "localhost", Port: 3306, Username: "dev", Database: "dev_database", Status: core.StatusDisconnected},
	}
	require.NoError(t, s.Seed(seeds))

	all, err := s.ListConnections()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.True(t, all[0].Favorite)

	// New records continue past the seeded sequence.
	c, err := s.CreateConnection(core.ConnectionParams{Name: "c", Type: core.TypeSQLite, Host: "h", Port: 1, Username: "u", Database: "d"})
	require.NoError(t, err)
	assert.Equal(t, "conn-3", c.ID)
}
