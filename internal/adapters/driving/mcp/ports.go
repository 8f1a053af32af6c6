package mcp

import (
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

// Ports aggregates what the MCP server needs from the core.
type Ports struct {
	// QA loads documents and answers questions.
	QA driving.QAService

	// Session holds the corpus and turns shared by every tool call.
	Session *domain.Session
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
