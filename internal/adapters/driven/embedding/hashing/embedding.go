// Package hashing provides an offline embedding service based on feature
// hashing of word unigrams and bigrams. Vectors are deterministic and
// L2-normalised, so squared distance tracks cosine similarity.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	ModelPrefix       = "hashing-"
	DefaultDimensions = 384
	DefaultModel      = "hashing-384"
)

// EmbeddingService embeds text without any model download or network access.
type EmbeddingService struct {
	dimensions int
	model      string
}

// NewEmbeddingService creates a service producing vectors of the given size.
func NewEmbeddingService(dimensions int) (*EmbeddingService, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("hashing: dimensions must be positive, got %d", dimensions)
	}
	return &EmbeddingService{
		dimensions: dimensions,
		model:      ModelPrefix + strconv.Itoa(dimensions),
	}, nil
}

// ParseModel returns the dimensions encoded in a model name such as
// "hashing-384". An empty name yields DefaultDimensions.
func ParseModel(model string) (int, error) {
	if model == "" {
		return DefaultDimensions, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(model, ModelPrefix))
	if err != nil || !strings.HasPrefix(model, ModelPrefix) || n <= 0 {
		return 0, fmt.Errorf("hashing: invalid model %q, want %s<dimensions>", model, ModelPrefix)
	}
	return n, nil
}

// Embed returns the hashed feature vector for text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.vector(text), nil
}

// EmbedBatch embeds each text in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = s.vector(text)
	}
	return out, nil
}

func (s *EmbeddingService) vector(text string) []float32 {
	v := make([]float32, s.dimensions)
	words := Tokenize(text)

	for i, w := range words {
		s.add(v, w, 1)
		if i > 0 {
			s.add(v, words[i-1]+" "+w, 0.5)
		}
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= scale
	}
	return v
}

// add hashes feature into a bucket; one hash bit picks the sign so that
// collisions cancel out on average.
func (s *EmbeddingService) add(v []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(s.dimensions))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	v[bucket] += weight
}

// Tokenize lowercases text and splits it into letter/digit runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the model name, e.g. "hashing-384".
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
