package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval collapses bursts of editor writes into one reload
var DebounceInterval = 250 * time.Millisecond

// Watch reloads the catalog at path whenever it changes on disk and passes
// the result to onChange. The parent directory is watched so that editors
// that save through rename are still seen. Parse failures are logged and the
// previous catalog stays in effect. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Catalog)) error {
	if path == "" {
		return fmt.Errorf("watch catalog: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch catalog: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch catalog: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch catalog: %w", err)
	}

	timer := time.NewTimer(DebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(DebounceInterval)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("catalog watcher", "err", err)

		case <-timer.C:
			c, err := Load(abs)
			if err != nil {
				slog.Warn("catalog reload failed", "path", abs, "err", err)
				continue
			}
			onChange(c)
		}
	}
}
