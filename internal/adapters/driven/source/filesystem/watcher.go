package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/kbqa/internal/logger"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc is called after the watched files change.
type ReloadFunc func(ctx context.Context) error

// Watcher reloads the corpus when files behind the locators change.
type Watcher struct {
	source   *Source
	locators []string
	debounce time.Duration
}

// NewWatcher creates a watcher for locators. A non-positive debounce
// selects DefaultDebounce.
func NewWatcher(source *Source, locators []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		source:   source,
		locators: SplitLocators(locators...),
		debounce: debounce,
	}
}

// Run watches until ctx is cancelled, calling reload once per burst of
// relevant changes. Reload errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, reload ReloadFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	scope, err := w.scope()
	if err != nil {
		return err
	}
	for _, dir := range scope.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	logger.Debug("watching %d directories", len(scope.dirs))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() &&
					!hidden(event.Name) && scope.inTree(event.Name) {
					_ = addTree(fw, event.Name)
					timer.Reset(w.debounce)
					continue
				}
			}
			if w.relevant(event, scope) {
				logger.Debug("change detected: %s %s", event.Op, event.Name)
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)

		case <-timer.C:
			if err := reload(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("reload failed: %v", err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event, scope *watchScope) bool {
	if event.Op == fsnotify.Chmod || hidden(event.Name) {
		return false
	}
	return scope.covers(event.Name) && w.source.supported(event.Name)
}

// watchScope is what the locators cover: directories to register with
// fsnotify, single files named directly, and trees where any file counts.
type watchScope struct {
	dirs  []string
	files map[string]bool
	trees []string
}

// covers reports whether a change to path can affect the corpus. The
// parent of a single-file locator is watched, but its siblings are not
// covered.
func (s *watchScope) covers(path string) bool {
	path = absPath(path)
	return s.files[path] || s.inTree(path)
}

func (s *watchScope) inTree(path string) bool {
	path = absPath(path)
	for _, root := range s.trees {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// scope resolves the locators into a watchScope.
func (w *Watcher) scope() (*watchScope, error) {
	scope := &watchScope{files: make(map[string]bool)}
	seen := make(map[string]bool)
	add := func(dir string) {
		dir = absPath(dir)
		if !seen[dir] {
			seen[dir] = true
			scope.dirs = append(scope.dirs, dir)
		}
	}

	for _, locator := range w.locators {
		locator = expandHome(locator)
		if isGlob(locator) {
			root := globRoot(locator)
			add(root)
			scope.trees = append(scope.trees, absPath(root))
			continue
		}

		info, err := os.Stat(locator)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", locator, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(locator))
			scope.files[absPath(locator)] = true
			continue
		}
		scope.trees = append(scope.trees, absPath(locator))

		err = filepath.WalkDir(locator, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != locator && hidden(path) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", locator, err)
		}
	}
	return scope, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// globRoot returns the longest directory prefix of pattern free of
// wildcards.
func globRoot(pattern string) string {
	dir := filepath.Dir(pattern)
	for isGlob(dir) {
		dir = filepath.Dir(dir)
	}
	return dir
}

func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && hidden(path) {
				return filepath.SkipDir
			}
			return fw.Add(path)
		}
		return nil
	})
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
