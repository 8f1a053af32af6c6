package driven

import "github.com/custodia-labs/kbqa/internal/core/domain"

// IndexBuilder builds an immutable nearest-neighbour index.
type IndexBuilder interface {
	// Build indexes vectors by position. All vectors must share one
	// length, else the error wraps domain.ErrDimensionMismatch.
	// An empty input yields a valid, empty index.
	Build(vectors [][]float32) (domain.VectorIndex, error)
}
