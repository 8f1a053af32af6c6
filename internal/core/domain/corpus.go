package domain

import "time"

// Neighbour is one nearest-neighbour hit: a passage position and its
// squared Euclidean distance from the query vector.
type Neighbour struct {
	// Position indexes into the passage sequence the index was built from.
	Position int

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}

// VectorIndex is a built, immutable nearest-neighbour index over passage
// embeddings. A changed corpus means building a new index.
type VectorIndex interface {
	// Len returns the number of indexed vectors.
	Len() int

	// Dimensions returns the vector length fixed at build time.
	// An empty index reports 0.
	Dimensions() int

	// Search returns min(k, Len()) hits ordered by ascending distance,
	// ties broken by ascending position.
	Search(query []float32, k int) ([]Neighbour, error)
}

// Corpus is the product of one load operation: the passages and the index
// built from their embeddings. Position i in Index is Passages[i].
// A Corpus is never modified after it is published to a Session.
type Corpus struct {
	// Generation increases with every load published to the session.
	Generation uint64

	// Documents are the source documents, in load order.
	Documents []Document

	// Passages is the ordered passage sequence.
	Passages []Passage

	// Index holds one vector per passage.
	Index VectorIndex
}

// IsEmpty reports whether the corpus has nothing to search.
func (c *Corpus) IsEmpty() bool {
	return c == nil || c.Index == nil || c.Index.Len() == 0 || len(c.Passages) == 0
}

// LoadSummary describes a completed load operation.
type LoadSummary struct {
	// Documents is the number of documents loaded.
	Documents int

	// Passages is the number of passages indexed.
	Passages int

	// Dimensions is the embedding vector length of the new index.
	Dimensions int

	// Generation is the corpus generation published to the session.
	Generation uint64

	// Duration is the wall time of the load.
	Duration time.Duration
}
