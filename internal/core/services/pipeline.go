package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.QAService = (*Pipeline)(nil)

// DefaultBatchSize is the number of passages embedded per provider call.
const DefaultBatchSize = 16

// Pipeline loads documents into a session and answers questions against it.
type Pipeline struct {
	models      *ModelRegistry
	source      driven.DocumentSource
	chunker     driven.PostProcessor
	builder     driven.IndexBuilder
	chatLog     driven.ChatLogStore
	retriever   *Retriever
	synthesizer *Synthesizer
	topK        int
	batchSize   int

	// recordMu orders turn appends with their chat log saves, so the
	// store always ends with the latest log.
	recordMu sync.Mutex
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithTopK sets the number of passages retrieved per question.
func WithTopK(k int) PipelineOption {
	return func(p *Pipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithBatchSize sets the embedding batch size.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithSynthesizer replaces the default synthesizer.
func WithSynthesizer(s *Synthesizer) PipelineOption {
	return func(p *Pipeline) {
		if s != nil {
			p.synthesizer = s
		}
	}
}

// WithChatLog sets the store that receives the chat log after each turn.
func WithChatLog(store driven.ChatLogStore) PipelineOption {
	return func(p *Pipeline) {
		p.chatLog = store
	}
}

// NewPipeline creates a pipeline. source, chunker and builder are only
// needed by LoadDocuments.
func NewPipeline(
	models *ModelRegistry,
	source driven.DocumentSource,
	chunker driven.PostProcessor,
	builder driven.IndexBuilder,
	opts ...PipelineOption,
) *Pipeline {
	if models == nil {
		models = StaticModelRegistry(nil, nil, nil)
	}
	p := &Pipeline{
		models:      models,
		source:      source,
		chunker:     chunker,
		builder:     builder,
		retriever:   NewRetriever(),
		synthesizer: NewSynthesizer(nil, domain.DefaultGenerationSettings()),
		topK:        DefaultTopK,
		batchSize:   DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AnswerQuestion answers question and appends the turn to session.
//
// With a loaded index the question is answered from retrieved passages.
// When retrieval finds nothing, the answer is domain.NoDocumentsNotice
// followed by a generative answer without context, whatever mode was
// requested. Without an index, retrieval is skipped and the requested
// mode answers without context. A failed turn is not recorded.
func (p *Pipeline) AnswerQuestion(
	ctx context.Context, question string, mode domain.AnswerMode, session *domain.Session,
) (domain.Turn, error) {
	if session == nil {
		return domain.Turn{}, fmt.Errorf("%w: nil session", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(question) == "" {
		return domain.Turn{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if !mode.IsValid() {
		return domain.Turn{}, fmt.Errorf("%w: answer mode %q", domain.ErrInvalidInput, mode)
	}

	start := time.Now()
	answer, err := p.answer(ctx, question, mode, session.Corpus())
	if err != nil {
		return domain.Turn{}, err
	}
	logger.Elapsed("answer", start)

	turn := domain.Turn{
		Question: question,
		Answer:   answer,
		Mode:     mode,
		AskedAt:  time.Now(),
	}
	p.record(ctx, session, turn)

	return turn, nil
}

func (p *Pipeline) record(ctx context.Context, session *domain.Session, turn domain.Turn) {
	p.recordMu.Lock()
	defer p.recordMu.Unlock()

	log := session.AppendTurn(turn)
	if p.chatLog == nil {
		return
	}
	if err := p.chatLog.Save(ctx, log); err != nil {
		logger.Error("Failed to save chat log: %v", err)
	}
}

func (p *Pipeline) answer(
	ctx context.Context, question string, mode domain.AnswerMode, corpus *domain.Corpus,
) (string, error) {
	if corpus == nil || corpus.Index == nil {
		logger.Debug("No documents loaded, answering without context")
		return p.synthesize(ctx, question, nil, mode)
	}

	embed, err := p.embedding(ctx, corpus)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRetrieval, err)
	}

	passages, err := p.retriever.Retrieve(ctx, question, corpus.Index, corpus.Passages, embed, p.topK)
	if err != nil {
		return "", err
	}
	logger.Debug("Retrieved %d passages from generation %d", len(passages), corpus.Generation)

	if len(passages) == 0 {
		generated, err := p.synthesize(ctx, question, nil, domain.ModeGenerative)
		if err != nil {
			return "", err
		}
		return domain.NoDocumentsNotice + generated, nil
	}

	return p.synthesize(ctx, question, passages, mode)
}

// embedding resolves the embedding service only when the corpus has
// something to search, so an empty corpus never loads the model.
func (p *Pipeline) embedding(ctx context.Context, corpus *domain.Corpus) (driven.EmbeddingService, error) {
	if corpus.IsEmpty() {
		return nil, nil
	}
	return p.models.Embedding(ctx)
}

func (p *Pipeline) synthesize(
	ctx context.Context, question string, passages []domain.Passage, mode domain.AnswerMode,
) (string, error) {
	var (
		qa  driven.ExtractiveQAService
		gen driven.GenerativeService
		err error
	)

	switch {
	case mode == domain.ModeExtractive && len(passages) > 0:
		qa, err = p.models.QA(ctx)
	case mode == domain.ModeGenerative:
		gen, err = p.models.LLM(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
	}

	return p.synthesizer.Synthesize(ctx, question, passages, mode, qa, gen)
}

// LoadDocuments loads, chunks, embeds and indexes the documents named by
// locators, then publishes the result to session in a single swap.
// On any failure the session keeps its previous corpus.
func (p *Pipeline) LoadDocuments(
	ctx context.Context, locators []string, session *domain.Session,
) (domain.LoadSummary, error) {
	if session == nil {
		return domain.LoadSummary{}, fmt.Errorf("%w: nil session", domain.ErrInvalidInput)
	}
	if p.source == nil || p.chunker == nil || p.builder == nil {
		return domain.LoadSummary{}, fmt.Errorf("%w: document loading is not configured", domain.ErrConfiguration)
	}

	logger.Section("Loading Documents")
	start := time.Now()

	docs, err := p.source.Load(ctx, locators)
	if err != nil {
		return domain.LoadSummary{}, fmt.Errorf("load documents: %w", err)
	}
	if len(docs) == 0 {
		return domain.LoadSummary{}, domain.ErrNoDocuments
	}
	logger.Info("Loaded %d documents", len(docs))

	passages, err := p.chunk(ctx, docs)
	if err != nil {
		return domain.LoadSummary{}, err
	}
	logger.Info("Split into %d passages", len(passages))

	var vectors [][]float32
	if len(passages) > 0 {
		embed, err := p.models.Embedding(ctx)
		if err != nil {
			return domain.LoadSummary{}, fmt.Errorf("embed passages: %w", err)
		}
		vectors, err = EmbedInBatches(ctx, embed, domain.PassageTexts(passages), p.batchSize)
		if err != nil {
			return domain.LoadSummary{}, fmt.Errorf("embed passages: %w", err)
		}
	}

	index, err := p.builder.Build(vectors)
	if err != nil {
		return domain.LoadSummary{}, fmt.Errorf("build index: %w", err)
	}

	corpus := &domain.Corpus{
		Documents: docs,
		Passages:  passages,
		Index:     index,
	}
	session.SwapCorpus(corpus)
	logger.Elapsed("load", start)

	return domain.LoadSummary{
		Documents:  len(docs),
		Passages:   len(passages),
		Dimensions: index.Dimensions(),
		Generation: corpus.Generation,
		Duration:   time.Since(start),
	}, nil
}

// chunk splits every document and numbers the passages across the whole
// load, so position i is the i-th passage of the corpus.
func (p *Pipeline) chunk(ctx context.Context, docs []domain.Document) ([]domain.Passage, error) {
	var passages []domain.Passage
	for i := range docs {
		parts, err := p.chunker.Process(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", docs[i].Source, err)
		}
		for _, part := range parts {
			part.Position = len(passages)
			passages = append(passages, part)
		}
		logger.Debug("%s: %d passages", docs[i].Source, len(parts))
	}
	return passages, nil
}

// History returns the persisted chat log.
func (p *Pipeline) History(ctx context.Context) (domain.ChatLog, error) {
	if p.chatLog == nil {
		return domain.ChatLog{}, nil
	}
	return p.chatLog.Load(ctx)
}

// Close releases the model services.
func (p *Pipeline) Close() error {
	var errs []error
	errs = append(errs, p.models.Close())
	if p.chatLog != nil {
		errs = append(errs, p.chatLog.Close())
	}
	return errors.Join(errs...)
}

// EmbedInBatches embeds texts batchSize at a time, preserving input order.
func EmbedInBatches(
	ctx context.Context, embed driven.EmbeddingService, texts []string, batchSize int,
) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	vectors := make([][]float32, 0, len(texts))
	for lo := 0; lo < len(texts); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := min(lo+batchSize, len(texts))

		batch, err := embed.EmbedBatch(ctx, texts[lo:hi])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", lo, hi, err)
		}
		if len(batch) != hi-lo {
			return nil, fmt.Errorf("batch %d-%d: got %d vectors for %d texts", lo, hi, len(batch), hi-lo)
		}
		vectors = append(vectors, batch...)
		logger.Debug("Embedded %d/%d passages", hi, len(texts))
	}
	return vectors, nil
}
