// Package watch re-runs a callback when files under a directory change.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for the tree to settle.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// SkipDir reports whether a directory (relative to the root, slash
	// separated) should not be watched.
	SkipDir func(rel string) bool
	// Accept reports whether a changed file is relevant. Nil accepts all.
	Accept func(rel string) bool
	Logger *zap.Logger
}

// Watcher watches a directory tree. Directories created later are added
// as they appear.
type Watcher struct {
	root    string
	opts    Options
	watcher *fsnotify.Watcher
	log     *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// New starts watching root recursively.
func New(root string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:    abs,
		opts:    opts,
		watcher: fw,
		log:     log,
		pending: make(map[string]time.Time),
	}
	if !info.IsDir() {
		w.root = filepath.Dir(abs)
		if err := fw.Add(w.root); err != nil {
			_ = fw.Close()
			return nil, err
		}
		base := filepath.Base(abs)
		accept := opts.Accept
		w.opts.Accept = func(rel string) bool {
			return rel == base && (accept == nil || accept(rel))
		}
		return w, nil
	}
	if err := w.addTree(abs); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skip(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.log.Debug("watching directory", zap.String("dir", path))
		return nil
	})
}

func (w *Watcher) skip(path string) bool {
	rel := w.rel(path)
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	return w.opts.SkipDir != nil && w.opts.SkipDir(rel)
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Run blocks until ctx is done, calling onChange with the changed files
// (relative, sorted) once events have been quiet for the debounce period.
// Calls to onChange never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	defer func() {
		_ = w.watcher.Close()
	}()
	ticker := time.NewTicker(w.opts.Debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("watch event overflow, rescanning")
				w.mark(".")
				continue
			}
			w.log.Error("watch error", zap.Error(err))
		case now := <-ticker.C:
			if changed := w.settled(now); len(changed) > 0 {
				onChange(ctx, changed)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.skip(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					w.log.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
				}
			}
			return
		}
	}
	rel := w.rel(event.Name)
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	if w.opts.Accept != nil && !w.opts.Accept(rel) {
		return
	}
	w.log.Debug("file changed", zap.String("file", rel), zap.String("op", event.Op.String()))
	w.mark(rel)
}

func (w *Watcher) mark(rel string) {
	w.mu.Lock()
	w.pending[rel] = time.Now()
	w.mu.Unlock()
}

// settled returns the pending paths once the most recent event is older
// than the debounce period.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	var latest time.Time
	for _, at := range w.pending {
		if at.After(latest) {
			latest = at
		}
	}
	if now.Sub(latest) < w.opts.Debounce {
		return nil
	}
	changed := make([]string, 0, len(w.pending))
	for rel := range w.pending {
		changed = append(changed, rel)
	}
	sort.Strings(changed)
	w.pending = make(map[string]time.Time)
	return changed
}
