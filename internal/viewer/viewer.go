// Package viewer paginates, filters and presents a table's result set. The
// backing data is read-only: edits and deletes go through the motions (and
// notify) without ever mutating the rows.
package viewer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dbforge-labs/dbforge/internal/latency"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// PageSize is the fixed number of rows per page.
const PageSize = 10

// DefaultRefreshDelay approximates re-fetching the table from a backend.
const DefaultRefreshDelay = 800 * time.Millisecond

// Viewer is the per-session state of the result table. Safe for concurrent
// use.
type Viewer struct {
	mu           sync.Mutex
	hub          *notify.Hub
	logger       *slog.Logger
	refreshDelay time.Duration

	tableName string
	result    *core.QueryResult
	columns   []core.Column
	search    string
	page      int
	deletes   map[string]int
}

// Config wires a Viewer. RefreshDelay defaults when zero.
type Config struct {
	Hub          *notify.Hub
	Logger       *slog.Logger
	RefreshDelay time.Duration
}

func New(cfg Config) *Viewer {
	if cfg.RefreshDelay == 0 {
		cfg.RefreshDelay = DefaultRefreshDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Viewer{
		hub:          cfg.Hub,
		logger:       cfg.Logger,
		refreshDelay: cfg.RefreshDelay,
		page:         1,
		deletes:      make(map[string]int),
	}
}

// SetTable binds the viewer to a table's result set and structure, resetting
// search, pagination and any pending delete confirmations.
func (v *Viewer) SetTable(name string, result *core.QueryResult, columns []core.Column) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tableName = name
	v.result = result
	v.columns = columns
	v.search = ""
	v.page = 1
	v.deletes = make(map[string]int)
}

// TableName returns the bound table's name, or "" when none.
func (v *Viewer) TableName() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tableName
}

// SetSearch updates the filter term. The current page is deliberately kept:
// the page number survives a search change even when it lands past the last
// filtered page, in which case the page shows no rows.
func (v *Viewer) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = term
}

// filtered returns the rows matching the search term. Caller holds the lock.
func (v *Viewer) filtered() []core.Row {
	if v.result == nil {
		return nil
	}
	if v.search == "" {
		return v.result.Rows
	}
	needle := strings.ToLower(v.search)

	var out []core.Row
	for _, row := range v.result.Rows {
		for _, col := range v.result.Columns {
			if strings.Contains(strings.ToLower(row.Cell(col)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// totalPages is always at least 1. Caller holds the lock.
func (v *Viewer) totalPages() int {
	n := (len(v.filtered()) + PageSize - 1) / PageSize
	if n < 1 {
		return 1
	}
	return n
}

// TotalPages reports the page count for the filtered rows, never below 1.
func (v *Viewer) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPages()
}

// Page returns the current 1-based page number.
func (v *Viewer) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// GoTo moves to the given page. Out-of-range targets are ignored.
func (v *Viewer) GoTo(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 || page > v.totalPages() {
		return
	}
	v.page = page
}

// First moves to the first page.
func (v *Viewer) First() { v.GoTo(1) }

// Prev moves one page back when possible.
func (v *Viewer) Prev() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page > 1 {
		v.page--
	}
}

// Next moves one page forward when possible.
func (v *Viewer) Next() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page < v.totalPages() {
		v.page++
	}
}

// Last moves to the final page.
func (v *Viewer) Last() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.page = v.totalPages()
}

// PageRows returns the rows of the current page after filtering. The slice
// may be empty when the page number sits past the filtered data.
func (v *Viewer) PageRows() []core.Row {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := v.filtered()
	start := (v.page - 1) * PageSize
	if start >= len(rows) {
		return nil
	}
	end := start + PageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// View is a rendered snapshot for the data tab. Cells carry display strings,
// missing values already replaced by the NULL placeholder.
type View struct {
	Table      string              `json:"table"`
	Columns    []string            `json:"columns"`
	Rows       []map[string]string `json:"rows"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	TotalRows  int                 `json:"totalRows"`
	Search     string              `json:"search,omitempty"`
}

// Snapshot renders the current page for display.
func (v *Viewer) Snapshot() View {
	v.mu.Lock()
	rows := v.filtered()
	view := View{
		Table:      v.tableName,
		Page:       v.page,
		TotalPages: v.totalPages(),
		TotalRows:  len(rows),
		Search:     v.search,
		Rows:       []map[string]string{},
	}
	if v.result != nil {
		view.Columns = v.result.Columns
	}
	start := (v.page - 1) * PageSize
	if start < len(rows) {
		end := start + PageSize
		if end > len(rows) {
			end = len(rows)
		}
		for _, row := range rows[start:end] {
			cells := make(map[string]string, len(view.Columns))
			for _, col := range view.Columns {
				cells[col] = row.Cell(col)
			}
			view.Rows = append(view.Rows, cells)
		}
	}
	v.mu.Unlock()
	return view
}

// Structure returns the bound table's column metadata.
func (v *Viewer) Structure() []core.Column {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.columns
}

// Edit returns an editable copy of the row at the given index into the
// filtered rows. Every result column is present in the copy, primary keys
// included, so the whole row is open for editing.
func (v *Viewer) Edit(index int) (core.Row, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := v.filtered()
	if index < 0 || index >= len(rows) {
		return nil, false
	}
	edit := rows[index].Clone()
	for _, col := range v.result.Columns {
		if _, ok := edit[col]; !ok {
			edit[col] = nil
		}
	}
	return edit, true
}

// Save accepts an edited row. The backing data is never modified; the save
// succeeds, notifies, and the edit is discarded.
func (v *Viewer) Save(index int, edited core.Row) bool {
	v.mu.Lock()
	rows := v.filtered()
	ok := index >= 0 && index < len(rows)
	v.mu.Unlock()

	if !ok {
		return false
	}
	v.hub.Publish("Changes saved", "Row updated successfully")
	return true
}

// RequestDelete starts a delete for the row at index and returns a
// confirmation token. Nothing happens until the token is confirmed.
func (v *Viewer) RequestDelete(index int) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := v.filtered()
	if index < 0 || index >= len(rows) {
		return "", false
	}
	token := uuid.New().String()
	v.deletes[token] = index
	return token, true
}

// ConfirmDelete completes a pending delete. The row stays in the result set;
// only the notification fires. Unknown tokens report false.
func (v *Viewer) ConfirmDelete(token string) bool {
	v.mu.Lock()
	_, ok := v.deletes[token]
	if ok {
		delete(v.deletes, token)
	}
	v.mu.Unlock()

	if !ok {
		return false
	}
	v.hub.Publish("Row deleted", "Row deleted successfully")
	return true
}

// Refresh simulates re-fetching the table. Cancelling the context abandons
// the refresh without a notification.
func (v *Viewer) Refresh(ctx context.Context) error {
	if err := latency.Wait(ctx, v.refreshDelay); err != nil {
		return err
	}
	v.hub.Publish("Data refreshed", "Table data has been refreshed")
	return nil
}
