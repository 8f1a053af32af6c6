package domain

import (
	"sync"
	"sync/atomic"
)

// Session is caller-owned state for one conversation: the current corpus
// and the ordered chat turns.
//
// The corpus is published through a single atomic pointer, so a reader
// always observes an index and passage sequence from the same load.
// Turns are append-only.
type Session struct {
	corpus     atomic.Pointer[Corpus]
	generation atomic.Uint64

	mu    sync.RWMutex
	turns []Turn
}

// NewSession creates an empty session with no documents loaded.
func NewSession() *Session {
	return &Session{}
}

// Corpus returns the current corpus, or nil if nothing has been loaded.
func (s *Session) Corpus() *Corpus {
	return s.corpus.Load()
}

// HasIndex reports whether a corpus with an index has been loaded.
func (s *Session) HasIndex() bool {
	c := s.corpus.Load()
	return c != nil && c.Index != nil
}

// SwapCorpus publishes c as the current corpus and returns the previous one.
// It stamps c with the next generation number before publishing.
func (s *Session) SwapCorpus(c *Corpus) *Corpus {
	if c != nil {
		c.Generation = s.generation.Add(1)
	}
	return s.corpus.Swap(c)
}

// AppendTurn records a turn and returns a snapshot of the full chat log.
func (s *Session) AppendTurn(t Turn) ChatLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, t)
	return newChatLog(s.turns)
}

// Turns returns a copy of the recorded turns, oldest first.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// ChatLog returns the turns as parallel question and answer sequences.
func (s *Session) ChatLog() ChatLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newChatLog(s.turns)
}

// RestoreTurns replaces the turn history, e.g. with a persisted chat log.
func (s *Session) RestoreTurns(turns []Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append([]Turn(nil), turns...)
}
