package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// AnswerMarker precedes the answer in generated text.
const AnswerMarker = "Answer:"

// MinAnswerLength is the shortest generated answer kept as-is.
const MinAnswerLength = 10

// Built-in prompt templates, used when no PromptStore is configured.
const (
	defaultPromptWithContext = "Given the context below, provide a detailed and accurate response to the question.\n\n" +
		"Context: {context}\n\nQuestion: {question}\n\nAnswer:"
	defaultPromptWithoutContext = "Provide a detailed and accurate response to the following question.\n\n" +
		"Question: {question}\n\nAnswer:"
)

// ExtractAnswer pulls the answer out of generated text: the text after
// the last AnswerMarker (or all of it when there is none), trimmed.
// Results shorter than MinAnswerLength become domain.UnableToGenerateAnswer.
func ExtractAnswer(generated string) string {
	if i := strings.LastIndex(generated, AnswerMarker); i >= 0 {
		generated = generated[i+len(AnswerMarker):]
	}
	answer := strings.TrimSpace(generated)
	if utf8.RuneCountInString(answer) < MinAnswerLength {
		return domain.UnableToGenerateAnswer
	}
	return answer
}

// JoinContext joins passage contents with single spaces.
func JoinContext(passages []domain.Passage) string {
	return strings.Join(domain.PassageTexts(passages), " ")
}

// Synthesizer turns a question and retrieved passages into an answer.
type Synthesizer struct {
	prompts driven.PromptStore
	opts    driven.GenerateOptions
}

// NewSynthesizer creates a synthesizer. prompts may be nil, in which case
// the built-in templates are used.
func NewSynthesizer(prompts driven.PromptStore, gen domain.GenerationSettings) *Synthesizer {
	return &Synthesizer{
		prompts: prompts,
		opts: driven.GenerateOptions{
			MaxLength:          gen.MaxLength,
			NumReturnSequences: gen.NumReturnSequences,
			Temperature:        gen.Temperature,
			TopP:               gen.TopP,
			PadTokenID:         gen.PadTokenID,
			Truncation:         gen.Truncation,
		},
	}
}

// Synthesize answers question from passages.
//
// Extractive mode asks qa for a span of the joined passages, or returns
// domain.ApologyAnswer without any model call when there are none.
// Generative mode prompts gen (with or without context) and post-processes
// the first candidate with ExtractAnswer. Provider failures wrap
// domain.ErrSynthesis.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	question string,
	passages []domain.Passage,
	mode domain.AnswerMode,
	qa driven.ExtractiveQAService,
	gen driven.GenerativeService,
) (string, error) {
	switch mode {
	case domain.ModeExtractive:
		return s.extract(ctx, question, passages, qa)
	case domain.ModeGenerative:
		return s.generate(ctx, question, passages, gen)
	default:
		return "", fmt.Errorf("%w: answer mode %q", domain.ErrInvalidInput, mode)
	}
}

func (s *Synthesizer) extract(
	ctx context.Context, question string, passages []domain.Passage, qa driven.ExtractiveQAService,
) (string, error) {
	if len(passages) == 0 {
		logger.Debug("No context for extractive answer")
		return domain.ApologyAnswer, nil
	}
	if qa == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesis, domain.ErrQAUnavailable)
	}

	answer, err := qa.Answer(ctx, question, JoinContext(passages))
	if err != nil {
		return "", fmt.Errorf("%w: extractive qa: %w", domain.ErrSynthesis, err)
	}
	logger.Debug("QA span [%d:%d] score=%.3f", answer.Start, answer.End, answer.Score)
	return answer.Answer, nil
}

func (s *Synthesizer) generate(
	ctx context.Context, question string, passages []domain.Passage, gen driven.GenerativeService,
) (string, error) {
	if gen == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesis, domain.ErrLLMUnavailable)
	}

	prompt, err := s.Prompt(question, passages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
	}

	generations, err := gen.Generate(ctx, prompt, s.opts)
	if err != nil {
		return "", fmt.Errorf("%w: generate: %w", domain.ErrSynthesis, err)
	}
	if len(generations) == 0 {
		logger.Warn("Generator returned no candidates")
		return domain.UnableToGenerateAnswer, nil
	}

	return ExtractAnswer(generations[0].Text), nil
}

// Prompt renders the generation prompt for question, with the passages
// as context when there are any.
func (s *Synthesizer) Prompt(question string, passages []domain.Passage) (string, error) {
	name, template := driven.PromptGenerateWithoutContext, defaultPromptWithoutContext
	if len(passages) > 0 {
		name, template = driven.PromptGenerateWithContext, defaultPromptWithContext
	}

	if s.prompts != nil {
		loaded, err := s.prompts.Load(name)
		if err != nil {
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		template = loaded
	}

	return strings.NewReplacer(
		"{context}", JoinContext(passages),
		"{question}", question,
	).Replace(template), nil
}

// GenerateOptions returns the options passed to the generative service.
func (s *Synthesizer) GenerateOptions() driven.GenerateOptions {
	return s.opts
}
