package hashing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqDist(a, b []float32) float32 {
	var d float32
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

func TestEmbeddingService_Deterministic(t *testing.T) {
	svc, err := NewEmbeddingService(64)
	require.NoError(t, err)

	a, err := svc.Embed(context.Background(), "The Eiffel Tower is in Paris")
	require.NoError(t, err)
	b, err := svc.Embed(context.Background(), "the eiffel tower is in paris!")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
}

func TestEmbeddingService_SimilarTextIsCloser(t *testing.T) {
	svc, err := NewEmbeddingService(DefaultDimensions)
	require.NoError(t, err)

	vectors, err := svc.EmbedBatch(context.Background(), []string{
		"how tall is the eiffel tower",
		"the eiffel tower is 330 metres tall",
		"bananas are rich in potassium",
	})
	require.NoError(t, err)

	assert.Less(t, sqDist(vectors[0], vectors[1]), sqDist(vectors[0], vectors[2]))
}

func TestEmbeddingService_EmptyTextIsZeroVector(t *testing.T) {
	svc, err := NewEmbeddingService(8)
	require.NoError(t, err)

	v, err := svc.Embed(context.Background(), "  ...  ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestEmbeddingService_CancelledContext(t *testing.T) {
	svc, err := NewEmbeddingService(8)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.EmbedBatch(ctx, []string{"a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseModel(t *testing.T) {
	n, err := ParseModel("hashing-128")
	require.NoError(t, err)
	assert.Equal(t, 128, n)

	n, err = ParseModel("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDimensions, n)

	for _, bad := range []string{"hashing-0", "hashing-x", "minilm-384"} {
		_, err := ParseModel(bad)
		assert.Error(t, err, bad)
	}

	_, err = NewEmbeddingService(0)
	assert.Error(t, err)
}
