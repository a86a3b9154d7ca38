// Package watch turns filesystem events under a directory tree into
// debounced batches of changed paths.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/logfields"
)

// Handler receives the paths changed since the previous batch, sorted and
// without duplicates. Handlers run on the watch loop, one batch at a time;
// events arriving meanwhile are collected into the next batch.
type Handler func(ctx context.Context, changed []string)

// Watcher watches a directory tree, including directories created later.
type Watcher struct {
	root     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New starts watching root. Close the watcher by cancelling the context
// passed to Run, or with Close if Run is never called.
func New(root string, debounce time.Duration) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "watch root not found").
			WithContext("path", root).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ValidationError("watch root is not a directory").
			WithContext("path", root).
			Build()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	if err := addDirsRecursive(fsw, root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{root: root, debounce: debounce, fsw: fsw}, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers batches to handler until ctx is done. The watcher is closed
// when Run returns.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	defer func() { _ = w.fsw.Close() }()

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(ev) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)
			handler(ctx, changed)
		}
	}
}

// handleEvent reports whether ev should be part of a batch and starts
// watching directories as they appear.
func (w *Watcher) handleEvent(ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w.fsw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), logfields.Event(ev.Op.String()))
	return true
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}
