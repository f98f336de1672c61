package tables_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/internal/ui/features"
)

type dataView struct {
	Table      string              `json:"table"`
	Columns    []string            `json:"columns"`
	Rows       []map[string]string `json:"rows"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	TotalRows  int                 `json:"totalRows"`
	Search     string              `json:"search"`
}

// selectUsers binds the session's viewer to the users table via the explorer.
func selectUsers(t *testing.T, client *features.Client) {
	t.Helper()
	client.Do(http.MethodPost, "/api/explorer/connection", map[string]string{"id": "1"})
	rec := client.Do(http.MethodPost, "/api/explorer/tables/table1/select", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) dataView {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var view dataView
	features.DecodeInto(t, rec, &view)
	return view
}

func TestData_UnboundViewerIsEmpty(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	view := decodeData(t, client.Do(http.MethodGet, "/api/table/data", nil))
	assert.Empty(t, view.Table)
	assert.Empty(t, view.Rows)
	assert.Equal(t, 1, view.TotalPages)
}

func TestData_UsersFitOnOnePage(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)
	selectUsers(t, client)

	view := decodeData(t, client.Do(http.MethodGet, "/api/table/data", nil))
	assert.Equal(t, "users", view.Table)
	assert.Equal(t, []string{"id", "username", "email", "created_at"}, view.Columns)
	assert.Len(t, view.Rows, 5)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, "johndoe", view.Rows[0]["username"])
}

func TestPage_ClampedActions(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)
	selectUsers(t, client)

	view := decodeData(t, client.Do(http.MethodPost, "/api/table/page", map[string]any{"action": "next"}))
	assert.Equal(t, 1, view.Page) // single page, no-op

	view = decodeData(t, client.Do(http.MethodPost, "/api/table/page", map[string]any{"action": "goto", "page": 9}))
	assert.Equal(t, 1, view.Page)

	rec := client.Do(http.MethodPost, "/api/table/page", map[string]any{"action": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_FiltersAcrossCells(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)
	selectUsers(t, client)

	view := decodeData(t, client.Do(http.MethodPost, "/api/table/search", map[string]string{"term": "JANE@EXAMPLE"}))
	assert.Equal(t, "JANE@EXAMPLE", view.Search)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "janedoe", view.Rows[0]["username"])
	assert.Equal(t, 1, view.TotalRows)
}

func TestStructure(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)
	selectUsers(t, client)

	rec := client.Do(http.MethodGet, "/api/table/structure", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Table   string `json:"table"`
		Columns []struct {
			Name         string `json:"name"`
			Type         string `json:"type"`
			IsPrimaryKey bool   `json:"isPrimaryKey"`
		} `json:"columns"`
	}
	features.DecodeInto(t, rec, &resp)
	assert.Equal(t, "users", resp.Table)
	require.NotEmpty(t, resp.Columns)
	assert.Equal(t, "id", resp.Columns[0].Name)
	assert.True(t, resp.Columns[0].IsPrimaryKey)
}

func TestEditSaveRoundTrip(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)
	selectUsers(t, client)

	rec := client.Do(http.MethodPost, "/api/table/rows/0/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var edit struct {
		Index int            `json:"index"`
		Row   map[string]any `json:"row"`
	}
	features.DecodeInto(t, rec, &edit)
	assert.Contains(t, edit.Row, "id")
	assert.Contains(t, edit.Row, "email")

	edit.Row["email"] = "changed@example.com"
	rec = client.Do(http.MethodPost, "/api/table/rows/0/save", edit.Row)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The save never touches the backing data.
	view := decodeData(t, client.Do(http.MethodGet, "/api/table/data", nil))
	assert.Equal(t, "john@example.com", view.Rows[0]["email"])
}

func TestDelete_TwoPhaseKeepsRow(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)
	selectUsers(t, client)

	rec := client.Do(http.MethodPost, "/api/table/rows/2/delete", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	features.DecodeInto(t, rec, &resp)
	require.NotEmpty(t, resp.Token)

	rec = client.Do(http.MethodPost, "/api/table/rows/confirm-delete", map[string]string{"token": resp.Token})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	view := decodeData(t, client.Do(http.MethodGet, "/api/table/data", nil))
	assert.Len(t, view.Rows, 5)

	// A spent or bogus token is rejected.
	rec = client.Do(http.MethodPost, "/api/table/rows/confirm-delete", map[string]string{"token": resp.Token})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefresh(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)
	selectUsers(t, client)

	view := decodeData(t, client.Do(http.MethodPost, "/api/table/refresh", nil))
	assert.Equal(t, "users", view.Table)
}
