// Package document builds domain documents from raw file content. It holds
// the pieces every normaliser shares: ID assignment, titles and metadata.
package document

import (
	"maps"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// New returns a document for raw with the given title and normalised text.
// format is recorded in metadata when non-empty.
func New(raw *domain.RawDocument, title, content, format string) domain.Document {
	metadata := maps.Clone(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = raw.MIMEType
	if format != "" {
		metadata["format"] = format
	}

	return domain.Document{
		ID:       uuid.NewString(),
		Source:   raw.URI,
		Title:    title,
		Content:  content,
		Metadata: metadata,
		LoadedAt: time.Now(),
	}
}

// Title prefers a "title" metadata entry and falls back to TitleFromURI.
func Title(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return TitleFromURI(raw.URI)
}

// TitleFromURI turns "/docs/getting_started-guide.md" into
// "getting started guide".
func TitleFromURI(uri string) string {
	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}
