package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

func sampleSchemas() []core.Schema {
	return []core.Schema{
		{
			ID:   "schema1",
			Name: "public",
			Tables: []core.Table{
				{ID: "table1", Name: "users", Schema: "public", RowCount: 1250},
				{ID: "table2", Name: "orders", Schema: "public", RowCount: 3420},
				{ID: "table3", Name: "products", Schema: "public", RowCount: 156},
			},
		},
		{
			ID:   "schema2",
			Name: "analytics",
			Tables: []core.Table{
				{ID: "table4", Name: "user_sessions", Schema: "analytics", RowCount: 15230},
			},
		},
	}
}

func TestSetConnection_ResetsState(t *testing.T) {
	s := NewState()
	s.SetConnection("1")
	s.ToggleSchema("schema1")
	s.ToggleTable("table1")
	s.Select("table1")
	s.SetSearch("user")

	s.SetConnection("2")

	assert.Equal(t, "2", s.ConnectionID())
	assert.Empty(t, s.SelectedTableID())
	assert.Empty(t, s.Search())

	view := s.BuildTree(sampleSchemas(), PhaseConnected)
	require.Len(t, view.Schemas, 2)
	assert.False(t, view.Schemas[0].Expanded)
	assert.False(t, view.Schemas[0].Tables[0].Expanded)
}

func TestSetConnection_SameIDKeepsState(t *testing.T) {
	s := NewState()
	s.SetConnection("1")
	s.ToggleSchema("schema1")
	s.Select("table2")

	s.SetConnection("1")

	view := s.BuildTree(sampleSchemas(), PhaseConnected)
	assert.True(t, view.Schemas[0].Expanded)
	assert.True(t, view.Schemas[0].Tables[1].Selected)
}

func TestToggle_RoundTrip(t *testing.T) {
	s := NewState()
	assert.True(t, s.ToggleSchema("schema1"))
	assert.False(t, s.ToggleSchema("schema1"))
	assert.True(t, s.ToggleTable("table1"))
	assert.False(t, s.ToggleTable("table1"))
}

func TestBuildTree_PhaseGatesVisibility(t *testing.T) {
	s := NewState()
	s.SetConnection("1")

	for _, phase := range []Phase{PhaseNoConnection, PhaseConnecting, PhaseDisconnected} {
		view := s.BuildTree(sampleSchemas(), phase)
		assert.Empty(t, view.Schemas, "phase %s should hide the tree", phase)
		assert.Equal(t, phase, view.Phase)
	}

	view := s.BuildTree(sampleSchemas(), PhaseConnected)
	assert.Len(t, view.Schemas, 2)
}

func TestBuildTree_FilterOmitsEmptySchemas(t *testing.T) {
	s := NewState()
	s.SetConnection("1")
	s.SetSearch("order")

	view := s.BuildTree(sampleSchemas(), PhaseConnected)
	require.Len(t, view.Schemas, 1)
	assert.Equal(t, "public", view.Schemas[0].Name)
	require.Len(t, view.Schemas[0].Tables, 1)
	assert.Equal(t, "orders", view.Schemas[0].Tables[0].Name)
}

func TestBuildTree_FilterIsCaseInsensitive(t *testing.T) {
	s := NewState()
	s.SetConnection("1")
	s.SetSearch("USER")

	view := s.BuildTree(sampleSchemas(), PhaseConnected)
	require.Len(t, view.Schemas, 2)
	assert.Equal(t, "users", view.Schemas[0].Tables[0].Name)
	assert.Equal(t, "user_sessions", view.Schemas[1].Tables[0].Name)
}

func TestBuildTree_ExpansionSurvivesFiltering(t *testing.T) {
	s := NewState()
	s.SetConnection("1")
	s.ToggleSchema("schema2")
	s.ToggleTable("table4")

	// Filter the analytics schema out entirely, then clear the filter.
	s.SetSearch("products")
	view := s.BuildTree(sampleSchemas(), PhaseConnected)
	require.Len(t, view.Schemas, 1)

	s.SetSearch("")
	view = s.BuildTree(sampleSchemas(), PhaseConnected)
	require.Len(t, view.Schemas, 2)
	assert.True(t, view.Schemas[1].Expanded)
	assert.True(t, view.Schemas[1].Tables[0].Expanded)
}

func TestFilterSchemas_EmptyTermReturnsInput(t *testing.T) {
	schemas := sampleSchemas()
	assert.Equal(t, schemas, FilterSchemas(schemas, ""))
}

func TestFilterSchemas_Idempotent(t *testing.T) {
	once := FilterSchemas(sampleSchemas(), "user")
	twice := FilterSchemas(once, "user")
	assert.Equal(t, once, twice)
}

func TestInvalidate_ClearsConnection(t *testing.T) {
	s := NewState()
	s.SetConnection("1")
	s.Select("table1")

	s.Invalidate()

	assert.Empty(t, s.ConnectionID())
	assert.Empty(t, s.SelectedTableID())
}
