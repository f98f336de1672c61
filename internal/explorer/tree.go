// Package explorer tracks the browsing state of the schema tree: which
// connection is active, which schemas and tables are expanded, which table
// is selected, and the current filter term. The state is ephemeral and owned
// by the UI session; it resets whenever the active connection changes.
package explorer

import (
	"strings"
	"sync"

	"github.com/dbforge-labs/dbforge/pkg/core"
)

// Phase is the tree's view of the active connection.
type Phase string

const (
	PhaseNoConnection Phase = "no_connection"
	PhaseConnecting   Phase = "connecting"
	PhaseConnected    Phase = "connected"
	PhaseDisconnected Phase = "disconnected"
)

// State is the explorer's mutable browsing state. Safe for concurrent use.
type State struct {
	mu              sync.Mutex
	connectionID    string
	expandedSchemas map[string]bool
	expandedTables  map[string]bool
	selectedTableID string
	search          string
}

// NewState returns an empty explorer state.
func NewState() *State {
	return &State{
		expandedSchemas: make(map[string]bool),
		expandedTables:  make(map[string]bool),
	}
}

// SetConnection switches the active connection. Switching to a different id
// resets expansion, selection and the filter term.
func (s *State) SetConnection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connectionID == id {
		return
	}
	s.connectionID = id
	s.reset()
}

// Invalidate clears the state entirely. Called when the referenced
// connection has been deleted out from under the tree.
func (s *State) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectionID = ""
	s.reset()
}

// reset clears everything except the connection id. Caller holds the lock.
func (s *State) reset() {
	s.expandedSchemas = make(map[string]bool)
	s.expandedTables = make(map[string]bool)
	s.selectedTableID = ""
	s.search = ""
}

// ConnectionID returns the active connection id, or "" when none.
func (s *State) ConnectionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectionID
}

// ToggleSchema flips a schema's expansion flag. Expansion is keyed by id and
// independent of filtering: a node collapsed while filtered out stays
// collapsed when it reappears.
func (s *State) ToggleSchema(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expandedSchemas[id] = !s.expandedSchemas[id]
	return s.expandedSchemas[id]
}

// ToggleTable flips a table's expansion flag.
func (s *State) ToggleTable(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expandedTables[id] = !s.expandedTables[id]
	return s.expandedTables[id]
}

// Select marks a table as the active selection.
func (s *State) Select(tableID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTableID = tableID
}

// SelectedTableID returns the active table selection, or "" when none.
func (s *State) SelectedTableID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTableID
}

// SetSearch updates the filter term.
func (s *State) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
}

// Search returns the current filter term.
func (s *State) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

// TreeView is the rendered tree for the current state.
type TreeView struct {
	Phase        Phase        `json:"phase"`
	ConnectionID string       `json:"connectionId,omitempty"`
	Search       string       `json:"search,omitempty"`
	Schemas      []SchemaNode `json:"schemas"`
}

// SchemaNode is a schema with its expansion flag and filtered tables.
type SchemaNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Expanded bool        `json:"expanded"`
	Tables   []TableNode `json:"tables"`
}

// TableNode is a table entry in the tree.
type TableNode struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Schema   string        `json:"schema"`
	RowCount int           `json:"rowCount"`
	Expanded bool          `json:"expanded"`
	Selected bool          `json:"selected"`
	Columns  []core.Column `json:"columns"`
}

// BuildTree renders the tree for the given schemas and phase. Schemas are
// visible only while the connection is connected; filtering applies the
// current search term and omits schemas with zero matching tables.
func (s *State) BuildTree(schemas []core.Schema, phase Phase) TreeView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := TreeView{
		Phase:        phase,
		ConnectionID: s.connectionID,
		Search:       s.search,
		Schemas:      []SchemaNode{},
	}
	if phase != PhaseConnected {
		return view
	}

	for _, schema := range FilterSchemas(schemas, s.search) {
		node := SchemaNode{
			ID:       schema.ID,
			Name:     schema.Name,
			Expanded: s.expandedSchemas[schema.ID],
			Tables:   make([]TableNode, 0, len(schema.Tables)),
		}
		for _, table := range schema.Tables {
			node.Tables = append(node.Tables, TableNode{
				ID:       table.ID,
				Name:     table.Name,
				Schema:   table.Schema,
				RowCount: table.RowCount,
				Expanded: s.expandedTables[table.ID],
				Selected: table.ID == s.selectedTableID,
				Columns:  table.Columns,
			})
		}
		view.Schemas = append(view.Schemas, node)
	}
	return view
}

// FilterSchemas filters tables by case-insensitive substring match on the
// table name. A schema with zero matching tables is omitted entirely. An
// empty term returns the input unchanged.
func FilterSchemas(schemas []core.Schema, term string) []core.Schema {
	if term == "" {
		return schemas
	}
	needle := strings.ToLower(term)

	var out []core.Schema
	for _, schema := range schemas {
		var tables []core.Table
		for _, table := range schema.Tables {
			if strings.Contains(strings.ToLower(table.Name), needle) {
				tables = append(tables, table)
			}
		}
		if len(tables) == 0 {
			continue
		}
		filtered := schema
		filtered.Tables = tables
		out = append(out, filtered)
	}
	return out
}
