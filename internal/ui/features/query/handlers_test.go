package query_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/internal/ui/features"
)

func TestExecute_EmptyQuery(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodPost, "/api/query/execute", map[string]string{"sql": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecute_ReturnsResult(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodPost, "/api/query/execute", map[string]string{
		"sql": "SELECT * FROM orders WHERE status = 'completed'",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Columns       []string `json:"columns"`
		RowCount      int      `json:"rowCount"`
		ExecutionTime float64  `json:"executionTime"`
	}
	features.DecodeInto(t, rec, &result)
	assert.Contains(t, result.Columns, "total")
	assert.Equal(t, 5, result.RowCount)
	assert.Greater(t, result.ExecutionTime, 0.0)
}

func TestSamples(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	rec := client.Do(http.MethodGet, "/api/query/samples", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Samples []string `json:"samples"`
	}
	features.DecodeInto(t, rec, &resp)
	assert.Len(t, resp.Samples, 3)
}

func TestCopyAndSaveNotify(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	client := fixture.Client(t)

	ch := fixture.Hub.Subscribe()
	t.Cleanup(func() { fixture.Hub.Unsubscribe(ch) })

	assert.Equal(t, http.StatusNoContent, client.Do(http.MethodPost, "/api/query/copy", nil).Code)
	assert.Equal(t, "Copied to clipboard", (<-ch).Title)

	assert.Equal(t, http.StatusNoContent, client.Do(http.MethodPost, "/api/query/save", nil).Code)
	assert.Equal(t, "Query saved", (<-ch).Title)
}
