package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Guard bounds calls to a model provider with a token bucket and a
// per-call deadline. A zero rate disables throttling; a zero timeout
// disables the deadline.
type Guard struct {
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGuard creates a guard from limit settings.
func NewGuard(limits domain.LimitSettings) *Guard {
	g := &Guard{timeout: limits.Timeout}
	if limits.RequestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(limits.RequestsPerSecond), max(limits.Burst, 1))
	}
	return g
}

// begin waits for a token and returns a context carrying the call deadline.
func (g *Guard) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}
	}
	if g.timeout > 0 {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		return callCtx, cancel, nil
	}
	return ctx, func() {}, nil
}

// guarded runs fn under the guard.
func guarded[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel, err := g.begin(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	defer cancel()
	return fn(callCtx)
}

// Ensure the guarded wrappers implement the interfaces.
var (
	_ driven.EmbeddingService    = (*guardedEmbedding)(nil)
	_ driven.ExtractiveQAService = (*guardedQA)(nil)
	_ driven.GenerativeService   = (*guardedLLM)(nil)
)

type guardedEmbedding struct {
	driven.EmbeddingService
	guard *Guard
}

// GuardEmbedding wraps svc so every call passes through g.
func GuardEmbedding(svc driven.EmbeddingService, g *Guard) driven.EmbeddingService {
	return &guardedEmbedding{EmbeddingService: svc, guard: g}
}

func (s *guardedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	return guarded(ctx, s.guard, func(ctx context.Context) ([]float32, error) {
		return s.EmbeddingService.Embed(ctx, text)
	})
}

func (s *guardedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return guarded(ctx, s.guard, func(ctx context.Context) ([][]float32, error) {
		return s.EmbeddingService.EmbedBatch(ctx, texts)
	})
}

type guardedQA struct {
	driven.ExtractiveQAService
	guard *Guard
}

// GuardQA wraps svc so every call passes through g.
func GuardQA(svc driven.ExtractiveQAService, g *Guard) driven.ExtractiveQAService {
	return &guardedQA{ExtractiveQAService: svc, guard: g}
}

func (s *guardedQA) Answer(ctx context.Context, question, passage string) (driven.QAAnswer, error) {
	return guarded(ctx, s.guard, func(ctx context.Context) (driven.QAAnswer, error) {
		return s.ExtractiveQAService.Answer(ctx, question, passage)
	})
}

type guardedLLM struct {
	driven.GenerativeService
	guard *Guard
}

// GuardLLM wraps svc so every call passes through g.
func GuardLLM(svc driven.GenerativeService, g *Guard) driven.GenerativeService {
	return &guardedLLM{GenerativeService: svc, guard: g}
}

func (s *guardedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) ([]driven.Generation, error) {
	return guarded(ctx, s.guard, func(ctx context.Context) ([]driven.Generation, error) {
		return s.GenerativeService.Generate(ctx, prompt, opts)
	})
}
