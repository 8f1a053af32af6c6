// Package fantasy provides a generative service for OpenRouter through the
// charm.land/fantasy provider SDK.
package fantasy

import (
	"context"
	"fmt"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/openrouter"

	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.GenerativeService = (*LLMService)(nil)

// DefaultModel is the OpenRouter model used when none is configured.
const DefaultModel = "openai/gpt-4o-mini"

// Config holds configuration for the OpenRouter service.
type Config struct {
	// APIKey is the OpenRouter API key (required).
	APIKey string

	// Model is the OpenRouter model id (default: openai/gpt-4o-mini).
	Model string
}

// completeFunc sends one call and returns the reply text.
type completeFunc func(ctx context.Context, call fantasy.AgentCall) (string, error)

// LLMService generates replies through a fantasy language model. Each
// requested sequence is a separate agent call.
type LLMService struct {
	model    string
	complete completeFunc
}

// NewLLMService creates an OpenRouter-backed service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	provider, err := openrouter.New(openrouter.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("openrouter: create provider: %w", err)
	}

	model, err := provider.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("openrouter: get language model: %w", err)
	}

	agent := fantasy.NewAgent(model)
	complete := func(ctx context.Context, call fantasy.AgentCall) (string, error) {
		result, err := agent.Generate(ctx, call)
		if err != nil {
			return "", err
		}
		return result.Response.Content.Text(), nil
	}

	return newLLMService(cfg.Model, complete), nil
}

func newLLMService(model string, complete completeFunc) *LLMService {
	return &LLMService{model: model, complete: complete}
}

// Generate returns opts.NumReturnSequences replies to prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) ([]driven.Generation, error) {
	call := agentCall(prompt, opts)
	n := max(opts.NumReturnSequences, 1)
	out := make([]driven.Generation, 0, n)
	for i := 0; i < n; i++ {
		text, err := s.complete(ctx, call)
		if err != nil {
			return nil, fmt.Errorf("openrouter: generate: %w", err)
		}
		out = append(out, driven.Generation{Text: text})
	}
	return out, nil
}

// agentCall maps generation options onto a fantasy call. Zero values
// leave the provider default in place.
func agentCall(prompt string, opts driven.GenerateOptions) fantasy.AgentCall {
	call := fantasy.AgentCall{Prompt: prompt}
	if opts.MaxLength > 0 {
		maxTokens := int64(opts.MaxLength)
		call.MaxOutputTokens = &maxTokens
	}
	if opts.Temperature > 0 {
		temperature := opts.Temperature
		call.Temperature = &temperature
	}
	if opts.TopP > 0 {
		topP := opts.TopP
		call.TopP = &topP
	}
	return call
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the context only; the SDK offers no lightweight endpoint
// and a completion would be billed.
func (s *LLMService) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
