package corpus

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/matsen/kbm/internal/storage"
)

// WatchDebounce is how long file events are batched before a reload.
const WatchDebounce = 500 * time.Millisecond

// Watch monitors a corpus directory and reloads the store when any corpus
// file changes. Blocks until the context is cancelled.
func Watch(ctx context.Context, dir string, store *Store, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	batchTimer := time.NewTimer(WatchDebounce)
	batchTimer.Stop() // Don't start yet
	pending := false

	logger.Info("watching corpus", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !storage.IsCorpusFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			batchTimer.Reset(WatchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-batchTimer.C:
			if !pending {
				continue
			}
			pending = false
			if err := store.Reload(ctx); err != nil {
				logger.Error("corpus reload failed, keeping previous snapshot", zap.Error(err))
				continue
			}
			c, _ := store.Current()
			logger.Info("corpus reloaded",
				zap.Int("nodes", len(c.Nodes)),
				zap.Int("links", len(c.Links)),
				zap.Int("pairs", len(c.Pairs)),
			)
		}
	}
}
