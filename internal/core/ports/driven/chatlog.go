package driven

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// ChatLogStore persists the chat history.
type ChatLogStore interface {
	// Save replaces the stored log with log. It is called after every
	// turn with the full history.
	Save(ctx context.Context, log domain.ChatLog) error

	// Load returns the stored log, or an empty log if nothing is stored.
	Load(ctx context.Context) (domain.ChatLog, error)

	// Close releases resources.
	Close() error
}
