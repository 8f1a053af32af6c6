package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// mockEmbedding maps texts to fixed vectors; unknown texts get fallback.
type mockEmbedding struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
	batches  [][]string
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.lookup(text), nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.batches = append(m.batches, append([]string(nil), texts...))
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.lookup(text)
	}
	return out, nil
}

func (m *mockEmbedding) lookup(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{float32(len(text)), 0}
}

func (m *mockEmbedding) Dimensions() int              { return 2 }
func (m *mockEmbedding) ModelName() string            { return "mock-embed" }
func (m *mockEmbedding) Ping(_ context.Context) error { return nil }
func (m *mockEmbedding) Close() error                 { return nil }

func (m *mockEmbedding) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type qaCall struct {
	question string
	context  string
}

type mockQA struct {
	answer string
	err    error
	calls  []qaCall
	closed bool
}

func (m *mockQA) Answer(_ context.Context, question, passageText string) (driven.QAAnswer, error) {
	m.calls = append(m.calls, qaCall{question: question, context: passageText})
	if m.err != nil {
		return driven.QAAnswer{}, m.err
	}
	return driven.QAAnswer{Answer: m.answer, Score: 0.9, Start: 0, End: len(m.answer)}, nil
}

func (m *mockQA) ModelName() string            { return "mock-qa" }
func (m *mockQA) Ping(_ context.Context) error { return nil }
func (m *mockQA) Close() error {
	m.closed = true
	return nil
}

type mockGenerator struct {
	text    string
	empty   bool
	err     error
	prompts []string
	opts    []driven.GenerateOptions
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) ([]driven.Generation, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return nil, nil
	}
	return []driven.Generation{{Text: prompt + m.text}}, nil
}

func (m *mockGenerator) ModelName() string            { return "mock-gen" }
func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error                 { return nil }

type mockSource struct {
	docs []domain.Document
	err  error
}

func (m *mockSource) Load(_ context.Context, _ []string) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

// paragraphChunker splits content on blank lines.
type paragraphChunker struct{}

func (paragraphChunker) Name() string { return "paragraphs" }

func (paragraphChunker) Process(_ context.Context, doc *domain.Document) ([]domain.Passage, error) {
	var out []domain.Passage
	for i, part := range strings.Split(doc.Content, "\n\n") {
		out = append(out, domain.Passage{DocumentID: doc.ID, Position: i, Content: part})
	}
	return out, nil
}

type mockChatLog struct {
	mu    sync.Mutex
	saved []domain.ChatLog
	err   error
}

func (m *mockChatLog) Save(_ context.Context, log domain.ChatLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, log)
	return m.err
}

func (m *mockChatLog) Load(_ context.Context) (domain.ChatLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return domain.ChatLog{}, nil
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *mockChatLog) Close() error { return nil }

// blockingChatLog holds its first Save until release is closed.
type blockingChatLog struct {
	mockChatLog
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newBlockingChatLog() *blockingChatLog {
	return &blockingChatLog{entered: make(chan struct{}), release: make(chan struct{})}
}

func (m *blockingChatLog) Save(ctx context.Context, log domain.ChatLog) error {
	first := false
	m.once.Do(func() { first = true })
	if first {
		close(m.entered)
		<-m.release
	}
	return m.mockChatLog.Save(ctx, log)
}

// stubIndex returns fixed hits.
type stubIndex struct {
	size int
	hits []domain.Neighbour
	err  error
}

func (s *stubIndex) Len() int        { return s.size }
func (s *stubIndex) Dimensions() int { return 2 }
func (s *stubIndex) Search(_ []float32, _ int) ([]domain.Neighbour, error) {
	return s.hits, s.err
}

var errProvider = errors.New("provider down")

func passagesOf(texts ...string) []domain.Passage {
	out := make([]domain.Passage, len(texts))
	for i, text := range texts {
		out[i] = domain.Passage{Position: i, Content: text}
	}
	return out
}
