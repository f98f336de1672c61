// Package form validates and normalizes connection parameters before they
// reach the registry. Validation is field-scoped: every offending field gets
// its own message, and valid sibling fields are untouched.
package form

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dbforge-labs/dbforge/internal/latency"
	"github.com/dbforge-labs/dbforge/pkg/core"
)

// DefaultTestDelay is the simulated "testing connection" latency. No real
// probe is performed; the test always succeeds.
const DefaultTestDelay = 1500 * time.Millisecond

// Params is the raw, unvalidated form input. Port arrives as a string and is
// coerced during validation.
type Params struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Favorite bool   `json:"favorite"`
}

// Defaults returns the form's initial values for a new connection.
func Defaults() Params {
	return Params{
		Type: string(core.TypePostgres),
		Host: "localhost",
		Port: "5432",
	}
}

// ValidationError maps field names to messages. It blocks submission but
// never clears valid sibling fields.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Validate checks all fields and returns the normalized payload. The
// returned params exclude id, status and lastConnected; those are assigned
// by the registry.
func Validate(p Params) (core.ConnectionParams, ValidationError) {
	errs := ValidationError{}

	name := strings.TrimSpace(p.Name)
	if len(name) < 2 {
		errs["name"] = "Name must be at least 2 characters."
	}

	typ := core.ConnectionType(p.Type)
	if !typ.Valid() {
		errs["type"] = "Database type is required."
	}

	host := strings.TrimSpace(p.Host)
	if host == "" {
		errs["host"] = "Host is required."
	}

	port, err := strconv.Atoi(strings.TrimSpace(p.Port))
	if err != nil || port <= 0 {
		errs["port"] = "Port must be a positive integer."
	}

	username := strings.TrimSpace(p.Username)
	if username == "" {
		errs["username"] = "Username is required."
	}

	database := strings.TrimSpace(p.Database)
	if database == "" {
		errs["database"] = "Database name is required."
	}

	if len(errs) > 0 {
		return core.ConnectionParams{}, errs
	}

	return core.ConnectionParams{
		Name:     name,
		Type:     typ,
		Host:     host,
		Port:     port,
		Username: username,
		Password: p.Password,
		Database: database,
		Favorite: p.Favorite,
	}, nil
}

// TestConnection simulates probing the target. It waits the given delay
// (cancellable through ctx) and always succeeds.
func TestConnection(ctx context.Context, delay time.Duration) error {
	return latency.Wait(ctx, delay)
}
