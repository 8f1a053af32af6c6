package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"text/markdown", "text/x-markdown"}, New().SupportedMIMETypes())
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/path/to/document.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Project Guide\n\nSome **important** text."),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "Project Guide", doc.Title)
	assert.Equal(t, "Project Guide\n\nSome important text.", doc.Content)
	assert.Equal(t, raw.URI, doc.Source)
	assert.Equal(t, "markdown", doc.Metadata["format"])
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_Title(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		content string
		want    string
	}{
		{"front matter", "/a.md", "---\ntitle: \"From Front Matter\"\nauthor: x\n---\n# Heading\n", "From Front Matter"},
		{"first h1", "/a.md", "intro\n## Sub\n# Main Title\n", "Main Title"},
		{"filename fallback", "/docs/user_guide.md", "no headings here", "user guide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: tt.uri, Content: []byte(tt.content)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Document.Title)
		})
	}
}

func TestNormalise_FrontMatterNotInContent(t *testing.T) {
	raw := &domain.RawDocument{URI: "a.md", Content: []byte("---\ntitle: T\n---\nBody text.")}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Body text.", result.Document.Content)
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"headings", "# Title\n## Subtitle\n### Third", "Title\nSubtitle\nThird"},
		{"bold", "This is **bold** and __strong__ text", "This is bold and strong text"},
		{"italic", "An *emphasised* word", "An emphasised word"},
		{"snake case survives", "call my_func_name now", "call my_func_name now"},
		{"links keep text", "Click [here](https://example.com)", "Click here"},
		{"images keep alt", "See ![a diagram](image.png) here", "See a diagram here"},
		{"code fences keep code", "Before\n```go\nx := 1\n```\nAfter", "Before\n\nx := 1\n\nAfter"},
		{"inline code keeps text", "Use `go test` here", "Use go test here"},
		{"blockquote", "> This is a quote", "This is a quote"},
		{"bullets and tasks", "- Item 1\n- [x] Done", "Item 1\nDone"},
		{"numbered", "1. First\n2) Second", "First\nSecond"},
		{"strikethrough", "~~old~~ new", "old new"},
		{"horizontal rule", "above\n\n---\n\nbelow", "above\n\nbelow"},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", "a b\n\n1 2"},
		{"reference link definition", "text\n[1]: https://example.com", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strip(tt.input))
		})
	}
}
