package driven

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// PostProcessor splits a document's content into passages.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the document's passages in document order.
	// Positions are numbered from zero; the caller renumbers them
	// when concatenating passages from several documents.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Passage, error)
}
