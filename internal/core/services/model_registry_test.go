package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

func TestModelRegistry_CreatesOnce(t *testing.T) {
	var created atomic.Int32
	qa := &mockQA{}
	registry := NewModelRegistry(nil, func(context.Context) (driven.ExtractiveQAService, error) {
		created.Add(1)
		return qa, nil
	}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := registry.QA(context.Background())
			assert.NoError(t, err)
			assert.Same(t, qa, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
}

func TestModelRegistry_Unconfigured(t *testing.T) {
	registry := NewModelRegistry(nil, nil, nil)

	_, err := registry.Embedding(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	_, err = registry.QA(context.Background())
	assert.ErrorIs(t, err, domain.ErrQAUnavailable)
	_, err = registry.LLM(context.Background())
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestModelRegistry_RetriesAfterFactoryError(t *testing.T) {
	gen := &mockGenerator{}
	calls := 0
	registry := NewModelRegistry(nil, nil, func(context.Context) (driven.GenerativeService, error) {
		calls++
		if calls == 1 {
			return nil, errProvider
		}
		return gen, nil
	})

	_, err := registry.LLM(context.Background())
	assert.ErrorIs(t, err, errProvider)

	got, err := registry.LLM(context.Background())
	require.NoError(t, err)
	assert.Same(t, gen, got)

	_, err = registry.LLM(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestModelRegistry_CloseSkipsFailedCreation(t *testing.T) {
	registry := NewModelRegistry(nil, func(context.Context) (driven.ExtractiveQAService, error) {
		return nil, errProvider
	}, nil)

	_, err := registry.QA(context.Background())
	require.ErrorIs(t, err, errProvider)
	assert.NoError(t, registry.Close())
}

func TestModelRegistry_CloseOnlyCreated(t *testing.T) {
	qa := &mockQA{}
	registry := StaticModelRegistry(&mockEmbedding{}, qa, nil)

	require.NoError(t, registry.Close())
	assert.False(t, qa.closed)

	_, err := registry.QA(context.Background())
	require.NoError(t, err)
	require.NoError(t, registry.Close())
	assert.True(t, qa.closed)
}
