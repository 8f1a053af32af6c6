package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIProvider_IsValid(t *testing.T) {
	for _, p := range []AIProvider{
		AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic,
		AIProviderOpenRouter, AIProviderHuggingFace, AIProviderLocal,
	} {
		assert.True(t, p.IsValid(), p)
		assert.NotEqual(t, unknownDescription, p.Description(), p)
	}
	assert.False(t, AIProvider("").IsValid())
	assert.False(t, AIProvider("gemini").IsValid())
	assert.Equal(t, unknownDescription, AIProvider("gemini").Description())
}

func TestAIProvider_Capabilities(t *testing.T) {
	tests := []struct {
		provider   AIProvider
		embedding  bool
		qa         bool
		generation bool
		apiKey     bool
		local      bool
	}{
		{AIProviderOllama, true, false, true, false, true},
		{AIProviderOpenAI, true, false, true, true, false},
		{AIProviderAnthropic, false, false, true, true, false},
		{AIProviderOpenRouter, false, false, true, true, false},
		{AIProviderHuggingFace, true, true, true, true, false},
		{AIProviderLocal, true, true, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.provider.String(), func(t *testing.T) {
			assert.Equal(t, tt.embedding, tt.provider.SupportsEmbedding())
			assert.Equal(t, tt.qa, tt.provider.SupportsQA())
			assert.Equal(t, tt.generation, tt.provider.SupportsGeneration())
			assert.Equal(t, tt.apiKey, tt.provider.RequiresAPIKey())
			assert.Equal(t, tt.local, tt.provider.IsLocal())
		})
	}
}

func TestAllProviderLists_MatchCapabilities(t *testing.T) {
	for _, p := range AllEmbeddingProviders() {
		assert.True(t, p.SupportsEmbedding(), p)
		assert.NotEmpty(t, DefaultEmbeddingModels()[p], p)
	}
	for _, p := range AllQAProviders() {
		assert.True(t, p.SupportsQA(), p)
		assert.NotEmpty(t, DefaultQAModels()[p], p)
	}
	for _, p := range AllLLMProviders() {
		assert.True(t, p.SupportsGeneration(), p)
		assert.NotEmpty(t, DefaultLLMModels()[p], p)
	}
}

func TestProviderSettings_IsConfigured(t *testing.T) {
	assert.False(t, ProviderSettings{}.IsConfigured())
	assert.True(t, ProviderSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, ProviderSettings{Provider: AIProviderHuggingFace}.IsConfigured())
	assert.True(t, ProviderSettings{Provider: AIProviderHuggingFace, APIKey: "hf_x"}.IsConfigured())
}

func TestChunkSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		valid   bool
	}{
		{"defaults", 200, 50, true},
		{"no overlap", 10, 0, true},
		{"overlap equals size", 10, 10, false},
		{"overlap exceeds size", 10, 11, false},
		{"negative overlap", 10, -1, false},
		{"zero size", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ChunkSettings{Size: tt.size, Overlap: tt.overlap}.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}

func TestChatLogBackend_IsValid(t *testing.T) {
	assert.True(t, ChatLogJSON.IsValid())
	assert.True(t, ChatLogSQLite.IsValid())
	assert.True(t, ChatLogMemory.IsValid())
	assert.False(t, ChatLogBackend("redis").IsValid())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 200, s.Chunking.Size)
	assert.Equal(t, 50, s.Chunking.Overlap)
	assert.NoError(t, s.Chunking.Validate())
	assert.Equal(t, 2, s.Retrieval.TopK)
	assert.Equal(t, 16, s.Retrieval.BatchSize)

	assert.Equal(t, 200, s.Generation.MaxLength)
	assert.Equal(t, 1, s.Generation.NumReturnSequences)
	assert.InDelta(t, 0.7, s.Generation.Temperature, 1e-9)
	assert.InDelta(t, 0.9, s.Generation.TopP, 1e-9)
	assert.Equal(t, 50256, s.Generation.PadTokenID)
	assert.True(t, s.Generation.Truncation)

	assert.True(t, s.Embedding.IsConfigured())
	assert.True(t, s.QA.IsConfigured())
	assert.True(t, s.LLM.IsConfigured())
	assert.Equal(t, 60*time.Second, s.Limits.Timeout)
	assert.Equal(t, ChatLogJSON, s.ChatLog.Backend)
	assert.Equal(t, "chat_history.json", s.ChatLog.Path)
}

func TestEmbeddingDimensions_DefaultsKnown(t *testing.T) {
	dims := EmbeddingDimensions()
	for _, p := range AllEmbeddingProviders() {
		model := DefaultEmbeddingModels()[p]
		assert.Positive(t, dims[model], model)
	}
}
