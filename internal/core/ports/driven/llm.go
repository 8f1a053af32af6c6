package driven

import "context"

// GenerativeService produces free text continuations of a prompt.
//
// Implementations may include:
//   - Hugging Face Inference (EleutherAI/gpt-neo-2.7B)
//   - OpenAI (gpt-4o-mini)
//   - Anthropic (Claude)
//   - OpenRouter
//   - Ollama (local models)
type GenerativeService interface {
	// Generate returns NumReturnSequences candidate texts for prompt.
	// Completion-style providers return the prompt followed by the
	// continuation; chat-style providers return the reply only.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) ([]Generation, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
// Providers ignore parameters they have no equivalent for.
type GenerateOptions struct {
	// MaxLength is the maximum number of tokens to generate.
	MaxLength int

	// NumReturnSequences is the number of candidates to return.
	NumReturnSequences int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// TopP is the nucleus sampling threshold.
	TopP float64

	// PadTokenID is the padding token id for completion models.
	PadTokenID int

	// Truncation truncates prompts longer than the model's context.
	Truncation bool

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// Generation is one candidate produced by a GenerativeService.
type Generation struct {
	// Text is the generated text.
	Text string
}
