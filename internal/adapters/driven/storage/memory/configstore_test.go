package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("chunking.size", 300))
	require.NoError(t, store.Set("chunking.size", 400))

	val, ok := store.Get("chunking.size")
	assert.True(t, ok)
	assert.Equal(t, 400, val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("llm.provider", "ollama")
	_ = store.Set("retrieval.top_k", 3)
	_ = store.Set("retrieval.batch_size", int64(8))
	_ = store.Set("chunking.size", 250.0)
	_ = store.Set("generation.truncation", true)

	assert.Equal(t, "ollama", store.GetString("llm.provider"))
	assert.Equal(t, "", store.GetString("retrieval.top_k"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.Equal(t, 8, store.GetInt("retrieval.batch_size"))
	assert.Equal(t, 250, store.GetInt("chunking.size"))
	assert.Equal(t, 0, store.GetInt("llm.provider"))
	assert.True(t, store.GetBool("generation.truncation"))
	assert.False(t, store.GetBool("llm.provider"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("generation.temperature", 0.7)
	_ = store.Set("generation.top_p", float32(0.5))
	_ = store.Set("limits.requests_per_second", 2)
	_ = store.Set("limits.burst", int64(4))
	_ = store.Set("name", "text")

	assert.InDelta(t, 0.7, store.GetFloat("generation.temperature"), 1e-9)
	assert.InDelta(t, 0.5, store.GetFloat("generation.top_p"), 1e-6)
	assert.InDelta(t, 2.0, store.GetFloat("limits.requests_per_second"), 1e-9)
	assert.InDelta(t, 4.0, store.GetFloat("limits.burst"), 1e-9)
	assert.Zero(t, store.GetFloat("name"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_SaveLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("k", "v")

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{"retrieval.top_k": 5}, map[string]any{"chatlog.backend": "memory"})

	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
	assert.Equal(t, "memory", store.GetString("chatlog.backend"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key.%d", i)
			_ = store.Set(key, i)
			assert.Equal(t, i, store.GetInt(key))
		}(i)
	}
	wg.Wait()
}
