package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWatcher(t *testing.T, locators []string) <-chan struct{} {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan struct{}, 10)
	done := make(chan error, 1)

	w := NewWatcher(newSource(), locators, 50*time.Millisecond)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			reloads <- struct{}{}
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	// Give fsnotify time to register the directories.
	time.Sleep(100 * time.Millisecond)
	return reloads
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.md": "# A"})

	reloads := runWatcher(t, []string{dir})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A2"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new"), 0644))

	select {
	case <-reloads:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload")
	}
}

func TestWatcher_IgnoresUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	reloads := runWatcher(t, []string{dir})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swap.txt"), []byte("x"), 0644))

	select {
	case <-reloads:
		t.Fatal("unexpected reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_MissingLocator(t *testing.T) {
	w := NewWatcher(newSource(), []string{filepath.Join(t.TempDir(), "missing")}, 0)

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.Error(t, w.Run(context.Background(), func(context.Context) error { return nil }))
}

func TestWatcher_Scope(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"sub/deep/a.txt": "a",
		".git/config":    "x",
		"top.txt":        "t",
	})

	w := NewWatcher(newSource(), []string{
		dir,
		filepath.Join(dir, "top.txt"),
		filepath.Join(dir, "sub", "*.txt"),
	}, 0)

	scope, err := w.scope()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		dir,
		filepath.Join(dir, "sub"),
		filepath.Join(dir, "sub", "deep"),
	}, scope.dirs)
	assert.True(t, scope.files[filepath.Join(dir, "top.txt")])
	assert.ElementsMatch(t, []string{dir, filepath.Join(dir, "sub")}, scope.trees)
}

func TestWatchScope_FileLocatorCoversOnlyThatFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"notes.md":   "# Notes",
		"sibling.md": "# Other",
	})

	w := NewWatcher(newSource(), []string{filepath.Join(dir, "notes.md")}, 0)
	scope, err := w.scope()
	require.NoError(t, err)

	assert.Equal(t, []string{dir}, scope.dirs)
	assert.True(t, scope.covers(filepath.Join(dir, "notes.md")))
	assert.False(t, scope.covers(filepath.Join(dir, "sibling.md")))
	assert.False(t, scope.inTree(filepath.Join(dir, "new")))
}

func TestWatcher_FileLocatorIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"notes.md":   "# Notes",
		"sibling.md": "# Other",
	})
	notes := filepath.Join(dir, "notes.md")
	reloads := runWatcher(t, []string{notes})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sibling.md"), []byte("# Changed"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "added.txt"), []byte("new"), 0644))

	select {
	case <-reloads:
		t.Fatal("unexpected reload")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(notes, []byte("# Notes v2"), 0644))

	select {
	case <-reloads:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload")
	}
}

func TestGlobRoot(t *testing.T) {
	assert.Equal(t, "docs", globRoot("docs/*.md"))
	assert.Equal(t, "docs", globRoot("docs/*/x.md"))
	assert.Equal(t, ".", globRoot("*.md"))
}
