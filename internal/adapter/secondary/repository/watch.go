package repository

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"autotheme/internal/logging"
)

// WatchDebounce coalesces the burst of events produced by one save.
const WatchDebounce = 200 * time.Millisecond

// Watch calls onChange after path is written, created or renamed into
// place, until ctx is cancelled. The parent directory is watched so that
// atomic tmp+rename saves are seen.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return err
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		fire := make(chan struct{}, 1)
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				logging.Tracef("config watcher: %s", event)
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(WatchDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			case <-fire:
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Warnf("config watcher: %v", err)
			}
		}
	}()
	return nil
}
