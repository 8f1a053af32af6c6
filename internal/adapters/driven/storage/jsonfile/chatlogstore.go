// Package jsonfile persists the chat history as a single JSON document of
// the form {"questions": [...], "answers": [...]}, rewritten after every turn.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// DefaultFileName is the chat log file written in the working directory.
const DefaultFileName = "chat_history.json"

// Ensure ChatLogStore implements the interface.
var _ driven.ChatLogStore = (*ChatLogStore)(nil)

// ChatLogStore writes the chat history to a JSON file.
type ChatLogStore struct {
	mu   sync.Mutex
	path string
}

type document struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

// NewChatLogStore creates a store writing to path (default: DefaultFileName).
func NewChatLogStore(path string) *ChatLogStore {
	if path == "" {
		path = DefaultFileName
	}
	return &ChatLogStore{path: path}
}

// Save overwrites the file with log. The write goes through a temporary file
// in the same directory so readers never see a partial document.
func (s *ChatLogStore) Save(ctx context.Context, log domain.ChatLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(document{
		Questions: nonNil(log.Questions),
		Answers:   nonNil(log.Answers),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling chat log: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating chat log directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".chat_history-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing chat log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing chat log: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing chat log: %w", err)
	}
	return nil
}

// Load reads the file. A missing file yields an empty log.
func (s *ChatLogStore) Load(_ context.Context) (domain.ChatLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := domain.ChatLog{Questions: []string{}, Answers: []string{}}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return domain.ChatLog{}, fmt.Errorf("reading chat log: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.ChatLog{}, fmt.Errorf("parsing chat log %s: %w", s.path, err)
	}
	if len(doc.Questions) != len(doc.Answers) {
		return domain.ChatLog{}, fmt.Errorf("chat log %s: %d questions but %d answers",
			s.path, len(doc.Questions), len(doc.Answers))
	}
	return domain.ChatLog{Questions: nonNil(doc.Questions), Answers: nonNil(doc.Answers)}, nil
}

// Path returns the file path.
func (s *ChatLogStore) Path() string {
	return s.path
}

// Close is a no-op.
func (s *ChatLogStore) Close() error {
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
