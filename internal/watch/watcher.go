// Package watch re-runs a callback when the experiment log directory changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/modspec/specgain/internal/logging"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a log directory for files matching a glob pattern.
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
}

// New returns a watcher for files in dir whose base name matches pattern.
func New(dir, pattern string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, pattern: pattern, debounce: debounce}
}

// Matches reports whether path is a file the watcher reacts to.
func (w *Watcher) Matches(path string) bool {
	ok, err := filepath.Match(w.pattern, filepath.Base(path))
	return err == nil && ok
}

// Run blocks until ctx is done, calling onChange after each burst of
// create/write/rename events on matching files. Errors from onChange are
// logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	if _, err := filepath.Match(w.pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", w.pattern, err)
	}

	logger := logging.New("watch")

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close() //nolint:errcheck

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching for log changes", "dir", w.dir, "pattern", w.pattern)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 || !w.Matches(evt.Name) {
				continue
			}
			logger.Debug("log change", "path", evt.Name, "op", evt.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				logger.Error("regeneration failed", "error", err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
