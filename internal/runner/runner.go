// Package runner executes queries against the mocked backend. Execution is
// simulated: a cancellable delay, a crude text sniff to pick a canned result
// set, and a randomized execution time for display.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dbforge-labs/dbforge/internal/latency"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// ErrEmptyQuery rejects a blank query before any simulated work starts.
var ErrEmptyQuery = errors.New("query text is empty")

// DefaultRunDelay approximates a round trip to a real database.
const DefaultRunDelay = 800 * time.Millisecond

// Config wires a Runner's dependencies. RunDelay and Rand default when zero.
type Config struct {
	Catalog  core.Catalog
	Hub      *notify.Hub
	Logger   *slog.Logger
	RunDelay time.Duration
	Rand     func() float64
}

// Runner is the mock query engine.
type Runner struct {
	catalog core.Catalog
	hub     *notify.Hub
	logger  *slog.Logger
	delay   time.Duration
	randf   func() float64
}

func New(cfg Config) *Runner {
	if cfg.RunDelay == 0 {
		cfg.RunDelay = DefaultRunDelay
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Float64
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Runner{
		catalog: cfg.Catalog,
		hub:     cfg.Hub,
		logger:  cfg.Logger,
		delay:   cfg.RunDelay,
		randf:   cfg.Rand,
	}
}

// Run executes queryText against the mock backend. Blank text fails
// immediately with ErrEmptyQuery; everything else succeeds after the
// simulated delay. The returned result is the caller's to mutate.
func (r *Runner) Run(ctx context.Context, queryText string) (*core.QueryResult, error) {
	trimmed := strings.TrimSpace(queryText)
	if trimmed == "" {
		r.hub.PublishError("Query failed", "Please enter a query to execute")
		return nil, ErrEmptyQuery
	}

	if err := latency.Wait(ctx, r.delay); err != nil {
		return nil, err
	}

	table := "users"
	if strings.Contains(strings.ToLower(trimmed), "from orders") {
		table = "orders"
	}
	result, ok := r.catalog.Rows(table)
	if !ok {
		result = &core.QueryResult{Columns: []string{}, Rows: []core.Row{}}
	}

	ms := r.randf()*100 + 10
	result.ExecutionTime = ms / 1000

	r.logger.Debug("query executed", "table", table, "rows", result.RowCount)
	r.hub.Publish("Query executed successfully", fmt.Sprintf("Executed in %.2fms", ms))
	return result, nil
}

// Samples returns the canned example queries for the editor's sidebar.
func (r *Runner) Samples() []string {
	return r.catalog.SampleQueries()
}

// NotifyCopied records a copy-to-clipboard action. The clipboard itself is
// client-side; only the toast is server-driven.
func (r *Runner) NotifyCopied() {
	r.hub.Publish("Copied to clipboard", "Query copied to clipboard")
}

// NotifySaved records a save action. Saved queries are not persisted.
func (r *Runner) NotifySaved() {
	r.hub.Publish("Query saved", "Your query has been saved")
}
