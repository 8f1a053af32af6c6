// Package huggingface provides an embedding service backed by the Hugging Face
// Inference feature-extraction pipeline.
package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	hf "github.com/custodia-labs/kbqa/internal/adapters/driven/huggingface"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultModel is the sentence embedding model used when none is configured.
const DefaultModel = "sentence-transformers/paraphrase-MiniLM-L6-v2"

const task = "pipeline/feature-extraction"

// Config holds configuration for the embedding service.
type Config struct {
	hf.Config

	// Model is the model repository id (default: DefaultModel).
	Model string

	// Dimensions is the expected vector size. Zero means learn it from
	// the first response.
	Dimensions int
}

// EmbeddingService generates sentence embeddings through the Inference API.
type EmbeddingService struct {
	client     *hf.Client
	model      string
	dimensions atomic.Int64
}

type featureRequest struct {
	Inputs  []string   `json:"inputs"`
	Options hf.Options `json:"options"`
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	client, err := hf.NewClient(cfg.Config)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	s := &EmbeddingService{client: client, model: cfg.Model}
	s.dimensions.Store(int64(cfg.Dimensions))
	return s, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one request, preserving order. Models that
// return per-token features are mean-pooled into one vector per input.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var raw json.RawMessage
	req := featureRequest{Inputs: texts, Options: hf.Options{WaitForModel: true, UseCache: true}}
	if err := s.client.Post(ctx, s.model, task, req, &raw); err != nil {
		return nil, err
	}

	vectors, err := decodeFeatures(raw)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("huggingface: got %d embeddings for %d inputs", len(vectors), len(texts))
	}

	s.dimensions.CompareAndSwap(0, int64(len(vectors[0])))
	return vectors, nil
}

func decodeFeatures(raw json.RawMessage) ([][]float32, error) {
	var pooled [][]float32
	if err := json.Unmarshal(raw, &pooled); err == nil {
		return pooled, nil
	}

	var tokens [][][]float32
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("huggingface: unexpected feature shape: %w", err)
	}

	out := make([][]float32, len(tokens))
	for i, seq := range tokens {
		out[i] = meanPool(seq)
	}
	return out, nil
}

func meanPool(seq [][]float32) []float32 {
	if len(seq) == 0 {
		return nil
	}
	mean := make([]float32, len(seq[0]))
	for _, tok := range seq {
		for j := range mean {
			if j < len(tok) {
				mean[j] += tok[j]
			}
		}
	}
	n := float32(len(seq))
	for j := range mean {
		mean[j] /= n
	}
	return mean
}

// Dimensions returns the embedding vector size, or 0 before the first response.
func (s *EmbeddingService) Dimensions() int {
	return int(s.dimensions.Load())
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the token against the model endpoint.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, s.model)
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
