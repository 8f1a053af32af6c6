package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a model provider for embeddings, extractive QA or
// text generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOpenRouter is the OpenRouter cloud API.
	AIProviderOpenRouter AIProvider = "openrouter"

	// AIProviderHuggingFace is the Hugging Face Inference API.
	AIProviderHuggingFace AIProvider = "huggingface"

	// AIProviderLocal runs in-process without a model server.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic,
		AIProviderOpenRouter, AIProviderHuggingFace, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic, AIProviderOpenRouter, AIProviderHuggingFace:
		return true
	default:
		return false
	}
}

// IsLocal returns true if this provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// SupportsEmbedding returns true if the provider can embed text.
func (p AIProvider) SupportsEmbedding() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHuggingFace, AIProviderLocal:
		return true
	default:
		return false
	}
}

// SupportsQA returns true if the provider can extract answer spans.
func (p AIProvider) SupportsQA() bool {
	return p == AIProviderHuggingFace || p == AIProviderLocal
}

// SupportsGeneration returns true if the provider can generate text.
func (p AIProvider) SupportsGeneration() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic,
		AIProviderOpenRouter, AIProviderHuggingFace:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOpenRouter:
		return "OpenRouter (cloud)"
	case AIProviderHuggingFace:
		return "Hugging Face Inference (cloud)"
	case AIProviderLocal:
		return "Built-in (offline)"
	default:
		return unknownDescription
	}
}

// ProviderSettings configures one model capability.
type ProviderSettings struct {
	// Provider is the service provider.
	Provider AIProvider

	// Model is the model name at the provider.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string
}

// IsConfigured returns true if the provider is set up.
func (s ProviderSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// ChunkSettings controls how documents are split into passages.
type ChunkSettings struct {
	// Size is the maximum passage length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive passages.
	Overlap int
}

// Validate checks that Size > Overlap >= 0.
func (c ChunkSettings) Validate() error {
	if c.Size <= 0 || c.Overlap < 0 || c.Overlap >= c.Size {
		return &ConfigurationError{MaxSize: c.Size, Overlap: c.Overlap}
	}
	return nil
}

// RetrievalSettings controls passage retrieval.
type RetrievalSettings struct {
	// TopK is the number of passages handed to the synthesizer.
	TopK int

	// BatchSize is the number of passages embedded per provider call.
	BatchSize int
}

// GenerationSettings holds text generation parameters.
type GenerationSettings struct {
	// MaxLength bounds the generated output length in tokens.
	MaxLength int

	// NumReturnSequences is the number of candidates requested.
	NumReturnSequences int

	// Temperature controls sampling randomness.
	Temperature float64

	// TopP is the nucleus sampling threshold.
	TopP float64

	// PadTokenID is the padding token for providers that need one.
	PadTokenID int

	// Truncation truncates over-long prompts instead of failing.
	Truncation bool
}

// LimitSettings bounds calls to model providers.
type LimitSettings struct {
	// Timeout is the per-call deadline. Zero disables it.
	Timeout time.Duration

	// RequestsPerSecond caps provider calls. Zero disables rate limiting.
	RequestsPerSecond float64

	// Burst is the rate limiter bucket size.
	Burst int
}

// ChatLogBackend selects where the chat log is persisted.
type ChatLogBackend string

// Available chat log backends.
const (
	// ChatLogJSON overwrites a JSON file after every turn.
	ChatLogJSON ChatLogBackend = "json"

	// ChatLogSQLite stores turns in a SQLite database.
	ChatLogSQLite ChatLogBackend = "sqlite"

	// ChatLogMemory keeps the log in memory only.
	ChatLogMemory ChatLogBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b ChatLogBackend) IsValid() bool {
	return b == ChatLogJSON || b == ChatLogSQLite || b == ChatLogMemory
}

// ChatLogSettings configures chat log persistence.
type ChatLogSettings struct {
	// Backend is the storage backend.
	Backend ChatLogBackend

	// Path is the file or database location. Relative paths resolve
	// against the config directory.
	Path string
}

// Settings holds all application settings.
type Settings struct {
	Chunking   ChunkSettings
	Retrieval  RetrievalSettings
	Generation GenerationSettings

	// Embedding, QA and LLM configure the three model capabilities.
	Embedding ProviderSettings
	QA        ProviderSettings
	LLM       ProviderSettings

	Limits  LimitSettings
	ChatLog ChatLogSettings
}

// DefaultSettings returns settings that work offline for loading and
// extractive answers. Generation defaults to a local Ollama instance.
func DefaultSettings() Settings {
	return Settings{
		Chunking: ChunkSettings{
			Size:    200,
			Overlap: 50,
		},
		Retrieval: RetrievalSettings{
			TopK:      2,
			BatchSize: 16,
		},
		Generation: DefaultGenerationSettings(),
		Embedding: ProviderSettings{
			Provider: AIProviderLocal,
			Model:    DefaultEmbeddingModels()[AIProviderLocal],
		},
		QA: ProviderSettings{
			Provider: AIProviderLocal,
			Model:    DefaultQAModels()[AIProviderLocal],
		},
		LLM: ProviderSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModels()[AIProviderOllama],
		},
		Limits: LimitSettings{
			Timeout:           60 * time.Second,
			RequestsPerSecond: 0,
			Burst:             1,
		},
		ChatLog: ChatLogSettings{
			Backend: ChatLogJSON,
			Path:    "chat_history.json",
		},
	}
}

// DefaultGenerationSettings returns the generation parameters used when
// nothing is configured.
func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		MaxLength:          200,
		NumReturnSequences: 1,
		Temperature:        0.7,
		TopP:               0.9,
		PadTokenID:         50256,
		Truncation:         true,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderHuggingFace,
	}
}

// AllQAProviders returns providers that support extractive QA.
func AllQAProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderHuggingFace,
	}
}

// AllLLMProviders returns providers that support text generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOpenRouter,
		AIProviderHuggingFace,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:       "hashing-384",
		AIProviderOllama:      "nomic-embed-text",
		AIProviderOpenAI:      "text-embedding-3-small",
		AIProviderHuggingFace: "sentence-transformers/paraphrase-MiniLM-L6-v2",
	}
}

// DefaultQAModels returns default models for each QA provider.
func DefaultQAModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:       "lexical",
		AIProviderHuggingFace: "deepset/roberta-base-squad2",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:      "llama3.2",
		AIProviderOpenAI:      "gpt-4o-mini",
		AIProviderAnthropic:   "claude-3-5-haiku-latest",
		AIProviderOpenRouter:  "openai/gpt-4o-mini",
		AIProviderHuggingFace: "EleutherAI/gpt-neo-2.7B",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Built-in
		"hashing-384": 384,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Hugging Face models
		"sentence-transformers/paraphrase-MiniLM-L6-v2": 384,
		"sentence-transformers/all-MiniLM-L6-v2":        384,
	}
}
