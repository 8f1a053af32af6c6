package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// DefaultTopK is the number of passages retrieved per question.
const DefaultTopK = 2

// Retriever embeds a question and looks up its nearest passages.
type Retriever struct{}

// NewRetriever creates a retriever.
func NewRetriever() *Retriever {
	return &Retriever{}
}

// Retrieve returns up to topK passages nearest to question, nearest first.
//
// An absent or empty index, or an empty passage sequence, yields an empty
// result without calling embed. Embedding or search failures, and index
// positions with no matching passage, wrap domain.ErrRetrieval.
func (r *Retriever) Retrieve(
	ctx context.Context,
	question string,
	index domain.VectorIndex,
	passages []domain.Passage,
	embed driven.EmbeddingService,
	topK int,
) ([]domain.Passage, error) {
	if index == nil || index.Len() == 0 || len(passages) == 0 {
		logger.Debug("Nothing indexed, skipping retrieval")
		return []domain.Passage{}, nil
	}
	if embed == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrieval, domain.ErrEmbeddingUnavailable)
	}

	query, err := embed.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", domain.ErrRetrieval, err)
	}

	hits, err := index.Search(query, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: search index: %w", domain.ErrRetrieval, err)
	}

	result := make([]domain.Passage, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(passages) {
			return nil, fmt.Errorf("%w: index position %d out of range for %d passages",
				domain.ErrRetrieval, hit.Position, len(passages))
		}
		logger.Debug("Hit: position=%d distance=%.4f", hit.Position, hit.Distance)
		result = append(result, passages[hit.Position])
	}

	return result, nil
}
