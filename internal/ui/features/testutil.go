// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dbforge-labs/dbforge/internal/catalog"
	"github.com/dbforge-labs/dbforge/internal/notify"
	"github.com/dbforge-labs/dbforge/internal/registry"
	"github.com/dbforge-labs/dbforge/internal/runner"
	"github.com/dbforge-labs/dbforge/internal/state"
	"github.com/dbforge-labs/dbforge/internal/testutil"
	"github.com/dbforge-labs/dbforge/internal/ui/router"
	"github.com/dbforge-labs/dbforge/internal/ui/session"
	"github.com/dbforge-labs/dbforge/internal/viewer"
)

// TestFixture holds all dependencies needed for UI handler tests. Simulated
// latencies are collapsed to a millisecond so tests run fast.
type TestFixture struct {
	Router   chi.Router
	Registry *registry.Registry
	Catalog  *catalog.Catalog
	Hub      *notify.Hub
	Ctx      context.Context
}

// SetupTestFixture wires an in-memory store, the embedded fixtures and all
// feature routes into a ready-to-serve router. The registry is seeded with
// the catalog's connections.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)

	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(state.MemoryDSN))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	cat, err := catalog.Load()
	require.NoError(t, err)
	require.NoError(t, store.Seed(cat.ListConnections()))

	hub := notify.NewHub()
	reg := registry.New(registry.Config{
		Store:        store,
		Hub:          hub,
		Logger:       logger,
		ConnectDelay: time.Millisecond,
		RefreshDelay: time.Millisecond,
	})
	run := runner.New(runner.Config{
		Catalog:  cat,
		Hub:      hub,
		Logger:   logger,
		RunDelay: time.Millisecond,
	})

	sessions := session.NewManager(session.NewCookieStore("test-secret"), func() *viewer.Viewer {
		return viewer.New(viewer.Config{
			Hub:          hub,
			Logger:       logger,
			RefreshDelay: time.Millisecond,
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := chi.NewMux()
	require.NoError(t, router.SetupRoutes(r, router.Deps{
		ServerCtx: ctx,
		Registry:  reg,
		Catalog:   cat,
		Runner:    run,
		Sessions:  sessions,
		Hub:       hub,
		Logger:    logger,
		TestDelay: time.Millisecond,
	}))

	return &TestFixture{
		Router:   r,
		Registry: reg,
		Catalog:  cat,
		Hub:      hub,
		Ctx:      ctx,
	}
}

// Client drives the fixture's router while carrying session cookies between
// requests, the way a browser would.
type Client struct {
	t       *testing.T
	router  chi.Router
	cookies []*http.Cookie
}

// Client returns a fresh browser-like client for the fixture.
func (f *TestFixture) Client(t *testing.T) *Client {
	t.Helper()
	return &Client{t: t, router: f.Router}
}

// Do sends a request with an optional JSON body and returns the recorder.
func (c *Client) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		c.cookies = cs
	}
	return rec
}

// DecodeInto unmarshals the recorded JSON body into v.
func DecodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
