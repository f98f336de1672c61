// Package latency simulates the artificial delays of the mocked backend.
// Every wait is context-aware, and supersedable operations take a generation
// token from a Gate so stale completions can be discarded instead of racing
// a newer attempt.
package latency

import (
	"context"
	"sync"
	"time"
)

// Wait blocks for d or until ctx is cancelled, whichever comes first.
// A non-positive duration returns immediately with the context's error state.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Gate hands out generation tokens per key. Beginning an operation bumps the
// key's generation; a completion holding an older token is stale and must
// discard its effects.
type Gate struct {
	mu   sync.Mutex
	gens map[string]uint64
}

// NewGate creates an empty Gate.
func NewGate() *Gate {
	return &Gate{gens: make(map[string]uint64)}
}

// Begin bumps the generation for key and returns the new token.
func (g *Gate) Begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[key]++
	return g.gens[key]
}

// Cancel bumps the generation without starting a new operation, so any
// outstanding completion for key becomes stale.
func (g *Gate) Cancel(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[key]++
}

// Stale reports whether the token no longer matches the key's current
// generation.
func (g *Gate) Stale(key string, token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[key] != token
}
