package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the watcher waits after the last store event before resyncing.
const debounce = 200 * time.Millisecond

// EventCallback is called after each watcher-driven sync attempt.
type EventCallback func(changed bool, err error)

// Watch resyncs the index whenever the store file at storePath changes,
// until ctx is cancelled. The directory is watched rather than the file
// because every write replaces the file through a rename. Bursts of
// events are debounced into one sync.
func Watch(ctx context.Context, db SnippetIndex, store Loader, storePath string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(storePath)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("path", target))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			changed, syncErr := Sync(db, store, logger)
			if syncErr != nil {
				logger.Warn("watcher: sync failed", slog.String("error", syncErr.Error()))
			}
			if cb != nil {
				cb(changed, syncErr)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				logger.Debug("watcher: store event", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
