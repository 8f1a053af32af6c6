package driven

import "context"

// ExtractiveQAService extracts an answer span from a context passage.
//
// Implementations may include:
//   - Hugging Face Inference (deepset/roberta-base-squad2)
//   - Built-in lexical sentence matching for offline use
type ExtractiveQAService interface {
	// Answer returns the best span of context answering question.
	Answer(ctx context.Context, question, context string) (QAAnswer, error)

	// ModelName returns the name of the QA model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// QAAnswer is an extracted answer span.
type QAAnswer struct {
	// Answer is the extracted text.
	Answer string

	// Score is the model's confidence, when it reports one.
	Score float64

	// Start and End are character offsets of Answer within the context.
	Start int
	End   int
}
