// Package flat provides an exact, in-memory nearest-neighbour index.
//
// Every search scans all vectors and ranks them by squared Euclidean
// distance, so results are exact and deterministic: equal distances are
// ordered by ascending position.
package flat

import (
	"cmp"
	"slices"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure Index and Builder implement the interfaces.
var (
	_ domain.VectorIndex  = (*Index)(nil)
	_ driven.IndexBuilder = Builder{}
)

// Index is an immutable set of equal-length vectors addressed by position.
type Index struct {
	dimension int
	// data holds all vectors back to back; vector i is
	// data[i*dimension : (i+1)*dimension].
	data []float32
	size int
}

// Build copies vectors into a new index. Vector i is stored at position i.
// Vectors of differing length fail with a *domain.DimensionMismatchError.
// An empty input yields a valid empty index.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return &Index{}, nil
	}

	dimension := len(vectors[0])
	data := make([]float32, 0, dimension*len(vectors))
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, &domain.DimensionMismatchError{Expected: dimension, Actual: len(v), Position: i}
		}
		data = append(data, v...)
	}

	return &Index{
		dimension: dimension,
		data:      data,
		size:      len(vectors),
	}, nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	return idx.size
}

// Dimensions returns the vector length, or 0 for an empty index.
func (idx *Index) Dimensions() int {
	return idx.dimension
}

// Search returns the min(k, Len()) nearest vectors to query.
// k <= 0 and an empty index both yield an empty result.
func (idx *Index) Search(query []float32, k int) ([]domain.Neighbour, error) {
	if idx.size == 0 || k <= 0 {
		return []domain.Neighbour{}, nil
	}
	if len(query) != idx.dimension {
		return nil, &domain.DimensionMismatchError{Expected: idx.dimension, Actual: len(query), Position: -1}
	}

	hits := make([]domain.Neighbour, idx.size)
	for i := 0; i < idx.size; i++ {
		hits[i] = domain.Neighbour{
			Position: i,
			Distance: squaredL2(query, idx.vector(i)),
		}
	}

	slices.SortFunc(hits, func(a, b domain.Neighbour) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (idx *Index) vector(i int) []float32 {
	return idx.data[i*idx.dimension : (i+1)*idx.dimension]
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Builder adapts Build to the driven.IndexBuilder port.
type Builder struct{}

// Build implements driven.IndexBuilder.
func (Builder) Build(vectors [][]float32) (domain.VectorIndex, error) {
	idx, err := Build(vectors)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
