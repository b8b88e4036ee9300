// Package watcher triggers re-analysis of input files when they change on
// disk. Glob patterns are expanded once at startup; writes to any matched
// file are coalesced over a short quiet period so a burst of appends
// produces a single trigger.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// coalesceWindow is how long after the last write a trigger is held back.
const coalesceWindow = 500 * time.Millisecond

// Watcher monitors analyzed files and emits their paths when they change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	Triggers chan string
	paths    []string
	pending  map[string]*time.Timer
}

// New creates a Watcher for the given glob patterns. Patterns are expanded
// at startup and the resulting files are watched.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		Triggers: make(chan string, 64),
		pending:  make(map[string]*time.Timer),
	}

	for _, pattern := range patterns {
		matches, err := expandGlob(pattern)
		if err != nil {
			log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				log.Printf("warning: cannot watch %s: %v", abs, err)
				continue
			}
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Start begins listening for file events. It blocks until the context is
// cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Triggers)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// schedule arms (or re-arms) the coalescing timer for a path, so rapid
// successive writes collapse into one trigger.
func (w *Watcher) schedule(path string) {
	if timer, ok := w.pending[path]; ok {
		timer.Reset(coalesceWindow)
		return
	}
	w.pending[path] = time.AfterFunc(coalesceWindow, func() {
		select {
		case w.Triggers <- path:
		default:
			log.Printf("watcher: dropped trigger for %s (consumer busy)", path)
		}
	})
}

// Paths returns the list of files currently being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// expandGlob resolves a glob pattern to matching file paths. Supports
// recursive patterns like /var/log/**/*.log via doublestar.
func expandGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}
