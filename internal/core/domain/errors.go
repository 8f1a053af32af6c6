package domain

import (
	"errors"
	"fmt"
)

// Pipeline errors. Every failure surfaced by the answer pipeline wraps
// exactly one of these, so callers can branch with errors.Is.
var (
	// ErrConfiguration indicates invalid chunking or pipeline parameters.
	ErrConfiguration = errors.New("configuration error")

	// ErrDimensionMismatch indicates embedding vectors of inconsistent length.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrRetrieval indicates the query embedding or index lookup failed,
	// or the index returned a position with no matching passage.
	ErrRetrieval = errors.New("retrieval error")

	// ErrSynthesis indicates the extractive QA or generative provider failed.
	ErrSynthesis = errors.New("synthesis error")
)

// Infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown provider or document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoDocuments indicates a load operation resolved to zero documents.
	ErrNoDocuments = errors.New("no documents found")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrQAUnavailable indicates the extractive QA service is not configured.
	ErrQAUnavailable = errors.New("extractive QA service unavailable")

	// ErrLLMUnavailable indicates the generative service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// ConfigurationError describes a rejected chunking configuration.
type ConfigurationError struct {
	MaxSize int
	Overlap int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: chunk size %d must be greater than overlap %d, and overlap must be non-negative",
		ErrConfiguration, e.MaxSize, e.Overlap)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// DimensionMismatchError reports the expected and actual vector lengths.
// Position is the offending vector's index when building, or -1 for a query.
type DimensionMismatchError struct {
	Expected int
	Actual   int
	Position int
}

func (e *DimensionMismatchError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s: query has %d dimensions, index has %d", ErrDimensionMismatch, e.Actual, e.Expected)
	}
	return fmt.Sprintf("%s: vector %d has %d dimensions, expected %d",
		ErrDimensionMismatch, e.Position, e.Actual, e.Expected)
}

// Unwrap lets errors.Is match ErrDimensionMismatch.
func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}
