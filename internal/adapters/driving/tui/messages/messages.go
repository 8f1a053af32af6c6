// Package messages defines Bubbletea message types for the chat TUI.
package messages

import (
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// AnswerReady carries the result of a question back to the model.
type AnswerReady struct {
	Turn domain.Turn
	Err  error
}

// DocumentsLoaded carries the result of a load back to the model.
type DocumentsLoaded struct {
	Summary domain.LoadSummary
	Err     error
}

// CorpusReloaded is sent when a background reload publishes a new corpus.
type CorpusReloaded struct {
	Summary domain.LoadSummary
}
