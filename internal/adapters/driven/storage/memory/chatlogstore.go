package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure ChatLogStore implements the interface.
var _ driven.ChatLogStore = (*ChatLogStore)(nil)

// ChatLogStore is an in-memory implementation of driven.ChatLogStore.
type ChatLogStore struct {
	mu    sync.RWMutex
	log   domain.ChatLog
	saves int
}

// NewChatLogStore creates a new in-memory chat log store.
func NewChatLogStore() *ChatLogStore {
	return &ChatLogStore{}
}

// Save replaces the stored log with a copy of log.
func (s *ChatLogStore) Save(_ context.Context, log domain.ChatLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = copyLog(log)
	s.saves++
	return nil
}

// Load returns a copy of the stored log.
func (s *ChatLogStore) Load(_ context.Context) (domain.ChatLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLog(s.log), nil
}

// Saves returns how many times Save has been called.
func (s *ChatLogStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Close is a no-op.
func (s *ChatLogStore) Close() error {
	return nil
}

func copyLog(log domain.ChatLog) domain.ChatLog {
	return domain.ChatLog{
		Questions: append([]string{}, log.Questions...),
		Answers:   append([]string{}, log.Answers...),
	}
}
