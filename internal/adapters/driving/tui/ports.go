// Package tui provides an interactive chat interface for kbqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// Ports aggregates what the TUI needs from the core.
type Ports struct {
	// QA loads documents and answers questions.
	QA driving.QAService

	// Session holds the corpus and the conversation.
	Session *domain.Session

	// Reloads delivers summaries of background corpus reloads. Optional.
	Reloads <-chan domain.LoadSummary
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.QA == nil {
		return ErrMissingQAService
	}
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
