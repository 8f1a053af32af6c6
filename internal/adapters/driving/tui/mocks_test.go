package tui

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

var _ driving.QAService = (*mockQAService)(nil)

type mockQAService struct {
	answer  string
	err     error
	summary domain.LoadSummary

	asked    []string
	locators []string
}

func (m *mockQAService) LoadDocuments(_ context.Context, locators []string, _ *domain.Session) (domain.LoadSummary, error) {
	m.locators = locators
	return m.summary, m.err
}

func (m *mockQAService) AnswerQuestion(_ context.Context, question string, mode domain.AnswerMode, session *domain.Session) (domain.Turn, error) {
	m.asked = append(m.asked, question)
	if m.err != nil {
		return domain.Turn{}, m.err
	}
	turn := domain.Turn{Question: question, Answer: m.answer, Mode: mode}
	session.AppendTurn(turn)
	return turn, nil
}

func (m *mockQAService) History(_ context.Context) (domain.ChatLog, error) {
	return domain.ChatLog{}, nil
}
