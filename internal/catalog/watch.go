package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog from path whenever the file changes, then calls
// onReload. It blocks until ctx is cancelled. Reload failures keep the
// previous fixtures and are logged, never fatal.
func (c *Catalog) Watch(ctx context.Context, path string, logger *slog.Logger, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return err
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				logger.Debug("fixtures changed, reloading", "file", event.Name)

				reloaded, err := LoadFile(path)
				if err != nil {
					logger.Error("fixtures reload failed", "error", err)
					return
				}

				c.adopt(reloaded)
				if onReload != nil {
					onReload()
				}
			})

		case err := <-watcher.Errors:
			logger.Error("watcher error", "error", err)
		}
	}
}

// adopt swaps in the contents of another catalog.
func (c *Catalog) adopt(other *Catalog) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conns = other.conns
	c.defaultSchemas = other.defaultSchemas
	c.byConn = other.byConn
	c.datasets = other.datasets
	c.qualified = other.qualified
	c.samples = other.samples
}
