// Package huggingface provides text generation through the Hugging Face
// Inference text-generation pipeline.
package huggingface

import (
	"context"

	hf "github.com/custodia-labs/kbqa/internal/adapters/driven/huggingface"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.GenerativeService = (*LLMService)(nil)

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "EleutherAI/gpt-neo-2.7B"

// Config holds configuration for the generation service.
type Config struct {
	hf.Config

	// Model is the model repository id (default: DefaultModel).
	Model string
}

// LLMService generates completions with a hosted causal language model.
// Returned texts include the prompt, as the pipeline does by default.
type LLMService struct {
	client *hf.Client
	model  string
}

type generateRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
	Options    hf.Options `json:"options"`
}

type parameters struct {
	MaxNewTokens       int      `json:"max_new_tokens,omitempty"`
	NumReturnSequences int      `json:"num_return_sequences,omitempty"`
	Temperature        float64  `json:"temperature,omitempty"`
	TopP               float64  `json:"top_p,omitempty"`
	DoSample           bool     `json:"do_sample"`
	ReturnFullText     bool     `json:"return_full_text"`
	Truncate           *int     `json:"truncate,omitempty"`
	Stop               []string `json:"stop,omitempty"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

// truncateTokens bounds the prompt when truncation is requested.
const truncateTokens = 1024

// NewLLMService creates a new generation service.
func NewLLMService(cfg Config) (*LLMService, error) {
	client, err := hf.NewClient(cfg.Config)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &LLMService{client: client, model: cfg.Model}, nil
}

// Generate returns the candidates produced for prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) ([]driven.Generation, error) {
	params := parameters{
		MaxNewTokens:       opts.MaxLength,
		NumReturnSequences: opts.NumReturnSequences,
		Temperature:        opts.Temperature,
		TopP:               opts.TopP,
		DoSample:           opts.Temperature > 0,
		ReturnFullText:     true,
		Stop:               opts.StopWords,
	}
	if opts.Truncation {
		n := truncateTokens
		params.Truncate = &n
	}

	var out []generation
	req := generateRequest{
		Inputs:     prompt,
		Parameters: params,
		Options:    hf.Options{WaitForModel: true},
	}
	if err := s.client.Post(ctx, s.model, "", req, &out); err != nil {
		return nil, err
	}

	generations := make([]driven.Generation, len(out))
	for i, g := range out {
		generations[i] = driven.Generation{Text: g.GeneratedText}
	}
	return generations, nil
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the token against the model endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, s.model)
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
