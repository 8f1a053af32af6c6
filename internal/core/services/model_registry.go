package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Factory functions create a model service on first use.
type (
	EmbeddingFactory func(ctx context.Context) (driven.EmbeddingService, error)
	QAFactory        func(ctx context.Context) (driven.ExtractiveQAService, error)
	LLMFactory       func(ctx context.Context) (driven.GenerativeService, error)
)

// ModelRegistry holds the three model services and creates each one
// once it is first created successfully. A nil factory means the
// capability is not configured.
type ModelRegistry struct {
	embedding lazy[driven.EmbeddingService]
	qa        lazy[driven.ExtractiveQAService]
	llm       lazy[driven.GenerativeService]
}

// NewModelRegistry creates a registry from factories.
func NewModelRegistry(embedding EmbeddingFactory, qa QAFactory, llm LLMFactory) *ModelRegistry {
	r := &ModelRegistry{}
	if embedding != nil {
		r.embedding.create = embedding
	}
	if qa != nil {
		r.qa.create = qa
	}
	if llm != nil {
		r.llm.create = llm
	}
	return r
}

// StaticModelRegistry wraps already-created services. Nil services are
// reported as unavailable.
func StaticModelRegistry(
	embedding driven.EmbeddingService, qa driven.ExtractiveQAService, llm driven.GenerativeService,
) *ModelRegistry {
	r := &ModelRegistry{}
	if embedding != nil {
		r.embedding.create = func(context.Context) (driven.EmbeddingService, error) { return embedding, nil }
	}
	if qa != nil {
		r.qa.create = func(context.Context) (driven.ExtractiveQAService, error) { return qa, nil }
	}
	if llm != nil {
		r.llm.create = func(context.Context) (driven.GenerativeService, error) { return llm, nil }
	}
	return r
}

// Embedding returns the embedding service, creating it on first call.
func (r *ModelRegistry) Embedding(ctx context.Context) (driven.EmbeddingService, error) {
	return r.embedding.get(ctx, "embedding", domain.ErrEmbeddingUnavailable)
}

// QA returns the extractive QA service, creating it on first call.
func (r *ModelRegistry) QA(ctx context.Context) (driven.ExtractiveQAService, error) {
	return r.qa.get(ctx, "qa", domain.ErrQAUnavailable)
}

// LLM returns the generative service, creating it on first call.
func (r *ModelRegistry) LLM(ctx context.Context) (driven.GenerativeService, error) {
	return r.llm.get(ctx, "llm", domain.ErrLLMUnavailable)
}

// Close releases every service that has been created.
func (r *ModelRegistry) Close() error {
	var errs []error
	if svc, ok := r.embedding.loaded(); ok && svc != nil {
		errs = append(errs, svc.Close())
	}
	if svc, ok := r.qa.loaded(); ok && svc != nil {
		errs = append(errs, svc.Close())
	}
	if svc, ok := r.llm.loaded(); ok && svc != nil {
		errs = append(errs, svc.Close())
	}
	return errors.Join(errs...)
}

// lazy creates a value on first successful use. A failed creation is
// not cached, so the next call tries again.
type lazy[T any] struct {
	mu     sync.Mutex
	create func(ctx context.Context) (T, error)
	done   bool
	val    T
}

func (l *lazy[T]) get(ctx context.Context, name string, unavailable error) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	if l.done {
		return l.val, nil
	}
	if l.create == nil {
		return zero, unavailable
	}

	logger.Debug("Initialising %s model", name)
	val, err := l.create(ctx)
	if err != nil {
		return zero, err
	}
	l.val, l.done = val, true
	return val, nil
}

func (l *lazy[T]) loaded() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.val, l.done
}
