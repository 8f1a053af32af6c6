package driving

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// QAService answers questions against a session's loaded documents.
type QAService interface {
	// LoadDocuments reads, chunks and embeds the documents named by
	// locators and publishes the new corpus to session in one step.
	// On failure the session keeps its previous corpus.
	LoadDocuments(ctx context.Context, locators []string, session *domain.Session) (domain.LoadSummary, error)

	// AnswerQuestion answers question in the requested mode and appends
	// the turn to session. On failure no turn is appended.
	AnswerQuestion(ctx context.Context, question string, mode domain.AnswerMode, session *domain.Session) (domain.Turn, error)

	// History returns the persisted chat log.
	History(ctx context.Context) (domain.ChatLog, error)
}
