package connections_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/internal/ui/features"
	"github.com/dbforge-labs/dbforge/internal/ui/features/connections"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

func TestList_SeededConnections(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodGet, "/api/connections?tab=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp connections.ListResponse
	features.DecodeInto(t, rec, &resp)
	assert.Equal(t, "all", resp.Tab)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, "Production Database", resp.Items[0].Name)
	assert.Equal(t, "🐘", resp.Items[0].TypeIcon)
}

func TestList_FavoritesTab(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodGet, "/api/connections?tab=favorites", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp connections.ListResponse
	features.DecodeInto(t, rec, &resp)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "1", resp.Items[0].ID)
	assert.Equal(t, "3", resp.Items[1].ID)

	// Unfavoriting through the API drops it from the tab.
	require.Equal(t, http.StatusNoContent, client.Do(http.MethodPost, "/api/connections/3/favorite", nil).Code)
	rec = client.Do(http.MethodGet, "/api/connections?tab=favorites", nil)
	features.DecodeInto(t, rec, &resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "1", resp.Items[0].ID)
}

func TestCreate_ValidationErrors(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodPost, "/api/connections", map[string]string{
		"name": "x",
		"type": "mongodb",
		"port": "abc",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	features.DecodeInto(t, rec, &resp)
	assert.Contains(t, resp.Errors, "name")
	assert.Contains(t, resp.Errors, "type")
	assert.Contains(t, resp.Errors, "port")
	assert.Contains(t, resp.Errors, "host")
}

func TestCreate_SavesConnection(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodPost, "/api/connections", map[string]any{
		"name":     "Reporting DB",
		"type":     "mysql",
		"host":     "reports.internal",
		"port":     "3306",
		"username": "reporter",
		"database": "reports",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var item connections.Item
	features.DecodeInto(t, rec, &item)
	assert.Equal(t, "conn-4", item.ID)
	assert.Equal(t, "disconnected", item.Status)
	assert.Equal(t, "MySQL", item.TypeLabel)
}

func TestCreate_TestsBeforeSaving(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	ch := fixture.Hub.Subscribe()
	t.Cleanup(func() { fixture.Hub.Unsubscribe(ch) })

	rec := client.Do(http.MethodPost, "/api/connections", map[string]any{
		"name":     "Reporting DB",
		"type":     "mysql",
		"host":     "reports.internal",
		"port":     "3306",
		"username": "reporter",
		"database": "reports",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Form submit runs the connection test first, then saves.
	wantTitles := []string{"Connection successful", "Connection saved"}
	for _, want := range wantTitles {
		select {
		case n := <-ch:
			assert.Equal(t, want, n.Title)
		case <-time.After(time.Second):
			t.Fatalf("expected %q notification", want)
		}
	}
}

func TestConnect_CompletesAfterRequestReturns(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodPost, "/api/connections/2/connect", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		conn, err := fixture.Registry.Get("2")
		return err == nil && conn != nil && conn.Status == core.StatusConnected
	}, time.Second, 5*time.Millisecond)
}

func TestDisconnect(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	// Connection "1" is seeded as connected.
	rec := client.Do(http.MethodPost, "/api/connections/1/disconnect", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	conn, err := fixture.Registry.Get("1")
	require.NoError(t, err)
	assert.Equal(t, core.StatusDisconnected, conn.Status)
}

func TestDelete_ThenListShrinks(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodDelete, "/api/connections/3", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = client.Do(http.MethodGet, "/api/connections", nil)
	var resp connections.ListResponse
	features.DecodeInto(t, rec, &resp)
	assert.Len(t, resp.Items, 2)
}

func TestTest_ValidFormSucceeds(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	ch := fixture.Hub.Subscribe()
	t.Cleanup(func() { fixture.Hub.Unsubscribe(ch) })

	rec := client.Do(http.MethodPost, "/api/connections/test", map[string]any{
		"name":     "Scratch",
		"type":     "sqlite",
		"host":     "localhost",
		"port":     "1",
		"username": "dev",
		"database": "scratch.db",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case n := <-ch:
		assert.Equal(t, "Connection successful", n.Title)
	case <-time.After(time.Second):
		t.Fatal("expected the connection test notification")
	}
}

func TestDefaults(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodGet, "/api/connections/defaults", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var defaults map[string]any
	features.DecodeInto(t, rec, &defaults)
	assert.Equal(t, "postgres", defaults["type"])
	assert.Equal(t, "localhost", defaults["host"])
	assert.Equal(t, "5432", defaults["port"])
}
