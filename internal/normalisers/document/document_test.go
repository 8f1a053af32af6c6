package document

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

func TestNew(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/docs/guide.md",
		MIMEType: "text/markdown",
		Metadata: map[string]any{"size": 12},
	}

	doc := New(raw, "Guide", "text", "markdown")

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "/docs/guide.md", doc.Source)
	assert.Equal(t, "Guide", doc.Title)
	assert.Equal(t, "text", doc.Content)
	assert.Equal(t, "text/markdown", doc.Metadata["mime_type"])
	assert.Equal(t, "markdown", doc.Metadata["format"])
	assert.Equal(t, 12, doc.Metadata["size"])
	assert.NotContains(t, raw.Metadata, "mime_type", "raw metadata must not be mutated")
	assert.False(t, doc.LoadedAt.IsZero())
}

func TestNew_UniqueIDs(t *testing.T) {
	raw := &domain.RawDocument{URI: "a.txt"}
	assert.NotEqual(t, New(raw, "", "", "").ID, New(raw, "", "", "").ID)
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawDocument
		want string
	}{
		{"metadata wins", domain.RawDocument{URI: "/a/b.txt", Metadata: map[string]any{"title": "Real"}}, "Real"},
		{"empty metadata title", domain.RawDocument{URI: "/a/b.txt", Metadata: map[string]any{"title": ""}}, "b"},
		{"underscores and dashes", domain.RawDocument{URI: "/x/getting_started-guide.md"}, "getting started guide"},
		{"no extension", domain.RawDocument{URI: "README"}, "README"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(&tt.raw))
		})
	}
}
