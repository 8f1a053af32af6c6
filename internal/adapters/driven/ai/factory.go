// Package ai creates the model service adapters selected by provider settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/embedding/hashing"
	hfembed "github.com/custodia-labs/kbqa/internal/adapters/driven/embedding/huggingface"
	ollamaembed "github.com/custodia-labs/kbqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/kbqa/internal/adapters/driven/embedding/openai"
	hf "github.com/custodia-labs/kbqa/internal/adapters/driven/huggingface"
	anthropicllm "github.com/custodia-labs/kbqa/internal/adapters/driven/llm/anthropic"
	fantasyllm "github.com/custodia-labs/kbqa/internal/adapters/driven/llm/fantasy"
	hfllm "github.com/custodia-labs/kbqa/internal/adapters/driven/llm/huggingface"
	ollamallm "github.com/custodia-labs/kbqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/kbqa/internal/adapters/driven/llm/openai"
	hfqa "github.com/custodia-labs/kbqa/internal/adapters/driven/qa/huggingface"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/qa/lexical"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings *domain.ProviderSettings) (driven.EmbeddingService, error) {
	if err := checkConfigured(settings, domain.AIProvider.SupportsEmbedding, "embeddings"); err != nil {
		return nil, err
	}

	dimensions := domain.EmbeddingDimensions()[settings.Model]

	switch settings.Provider {
	case domain.AIProviderLocal:
		n, err := hashing.ParseModel(settings.Model)
		if err != nil {
			return nil, err
		}
		return hashing.NewEmbeddingService(n)

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderHuggingFace:
		return hfembed.NewEmbeddingService(hfembed.Config{
			Config:     hfConfig(settings),
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateQAService creates the extractive QA service selected by settings.
func CreateQAService(settings *domain.ProviderSettings) (driven.ExtractiveQAService, error) {
	if err := checkConfigured(settings, domain.AIProvider.SupportsQA, "extractive QA"); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.AIProviderLocal:
		return lexical.NewQAService(), nil

	case domain.AIProviderHuggingFace:
		return hfqa.NewQAService(hfqa.Config{
			Config: hfConfig(settings),
			Model:  settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported QA provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the generative service selected by settings.
func CreateLLMService(ctx context.Context, settings *domain.ProviderSettings) (driven.GenerativeService, error) {
	if err := checkConfigured(settings, domain.AIProvider.SupportsGeneration, "text generation"); err != nil {
		return nil, err
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenRouter:
		return fantasyllm.NewLLMService(ctx, fantasyllm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	case domain.AIProviderHuggingFace:
		return hfllm.NewLLMService(hfllm.Config{
			Config: hfConfig(settings),
			Model:  settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

func checkConfigured(settings *domain.ProviderSettings, supports func(domain.AIProvider) bool, capability string) error {
	if settings == nil || !settings.Provider.IsValid() {
		return fmt.Errorf("no provider configured for %s", capability)
	}
	if !supports(settings.Provider) {
		return fmt.Errorf("%s does not support %s", settings.Provider, capability)
	}
	if !settings.IsConfigured() {
		return fmt.Errorf("%s requires an API key", settings.Provider)
	}
	return nil
}

func hfConfig(settings *domain.ProviderSettings) hf.Config {
	return hf.Config{APIKey: settings.APIKey, BaseURL: settings.BaseURL}
}

// Factories returns lazy constructors for the three model services. Each
// created service is wrapped in a guard built from the limit settings, and
// failures wrap the matching domain unavailability error.
func Factories(settings *domain.Settings) (
	embedding func(context.Context) (driven.EmbeddingService, error),
	qa func(context.Context) (driven.ExtractiveQAService, error),
	llm func(context.Context) (driven.GenerativeService, error),
) {
	guard := NewGuard(settings.Limits)
	embedSettings, qaSettings, llmSettings := settings.Embedding, settings.QA, settings.LLM

	embedding = func(context.Context) (driven.EmbeddingService, error) {
		svc, err := CreateEmbeddingService(&embedSettings)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return GuardEmbedding(svc, guard), nil
	}
	qa = func(context.Context) (driven.ExtractiveQAService, error) {
		svc, err := CreateQAService(&qaSettings)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrQAUnavailable, err)
		}
		return GuardQA(svc, guard), nil
	}
	llm = func(ctx context.Context) (driven.GenerativeService, error) {
		svc, err := CreateLLMService(ctx, &llmSettings)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
		return GuardLLM(svc, guard), nil
	}
	return embedding, qa, llm
}

// ValidateEmbeddingConfig creates the embedding service and pings it.
func ValidateEmbeddingConfig(settings *domain.ProviderSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	return ping(svc)
}

// ValidateQAConfig creates the QA service and pings it.
func ValidateQAConfig(settings *domain.ProviderSettings) error {
	svc, err := CreateQAService(settings)
	if err != nil {
		return err
	}
	return ping(svc)
}

// ValidateLLMConfig creates the generative service and pings it.
func ValidateLLMConfig(settings *domain.ProviderSettings) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	return ping(svc)
}

type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

func ping(svc pinger) error {
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
