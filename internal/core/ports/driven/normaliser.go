package driven

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// Normaliser transforms raw document bytes into document text.
// Each normaliser handles specific MIME types (e.g., HTML, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Generic MIME normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into a document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking happens later, in the PostProcessor.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document
}
