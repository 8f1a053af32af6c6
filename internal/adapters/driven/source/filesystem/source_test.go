package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/normalisers"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func newSource() *Source {
	return New(normalisers.NewDefaultRegistry())
}

func titles(docs []domain.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Title
	}
	return out
}

func TestSplitLocators(t *testing.T) {
	assert.Equal(t,
		[]string{"a.txt", "docs", "*.md", "b.txt"},
		SplitLocators("a.txt, docs ,,*.md", " b.txt "))
	assert.Nil(t, SplitLocators(" , "))
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.txt":             "Bravo text.",
		"a.md":              "# Alpha\n\nAlpha body.",
		"sub/c.html":        "<title>Charlie</title><p>Charlie body</p>",
		"image.png":         "binary",
		".hidden/secret.md": "# Secret",
		".notes.txt":        "hidden file",
	})

	docs, err := newSource().Load(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "b", "Charlie"}, titles(docs))
	assert.Equal(t, "Alpha\n\nAlpha body.", docs[0].Content)
	assert.Equal(t, "Charlie body", docs[2].Content)
	assert.Equal(t, filepath.Join(dir, "b.txt"), docs[1].Source)
	assert.EqualValues(t, len("Bravo text."), docs[1].Metadata["size"])
}

func TestLoad_LocatorOrderAndDeduplication(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"one.txt": "1", "two.txt": "2"})

	docs, err := newSource().Load(context.Background(), []string{
		filepath.Join(dir, "two.txt") + "," + filepath.Join(dir, "one.txt"),
		filepath.Join(dir, "two.txt"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "one"}, titles(docs))
}

func TestLoad_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"x.md": "# X", "y.md": "# Y", "z.txt": "z"})

	docs, err := newSource().Load(context.Background(), []string{filepath.Join(dir, "*.md")})
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, titles(docs))

	_, err = newSource().Load(context.Background(), []string{filepath.Join(dir, "*.rtf")})
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestLoad_AllOrNothing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"ok.txt": "fine"})

	docs, err := newSource().Load(context.Background(), []string{
		filepath.Join(dir, "ok.txt"),
		filepath.Join(dir, "missing.txt"),
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, docs)
}

func TestLoad_ExplicitUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"photo.png": "binary"})

	_, err := newSource().Load(context.Background(), []string{filepath.Join(dir, "photo.png")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestLoad_MaxFileSize(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"big.txt": "0123456789"})

	_, err := New(normalisers.NewDefaultRegistry(), WithMaxFileSize(5)).
		Load(context.Background(), []string{filepath.Join(dir, "big.txt")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	docs, err := newSource().Load(context.Background(), []string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoad_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSource().Load(ctx, []string{dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"README", "text/plain"},
		{"notes.txt", "text/plain"},
		{"doc.md", "text/markdown"},
		{"DOC.MARKDOWN", "text/markdown"},
		{"page.html", "text/html"},
		{"page.HTM", "text/html"},
		{"config.yml", "text/yaml"},
		{"data.json", "application/json"},
		{"file.zzzzunknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, detectMIMEType(tt.filename))
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "docs"), expandHome("~/docs"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~user/docs", expandHome("~user/docs"))
}
