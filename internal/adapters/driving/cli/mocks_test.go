package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driving"
)

var (
	_ driving.QAService       = (*mockQAService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

type askCall struct {
	question string
	mode     domain.AnswerMode
}

type mockQAService struct {
	loadErr   error
	answerErr error
	summary   domain.LoadSummary
	history   domain.ChatLog

	loads [][]string
	asks  []askCall
}

func (m *mockQAService) LoadDocuments(_ context.Context, locators []string, _ *domain.Session) (domain.LoadSummary, error) {
	m.loads = append(m.loads, locators)
	if m.loadErr != nil {
		return domain.LoadSummary{}, m.loadErr
	}
	return m.summary, nil
}

func (m *mockQAService) AnswerQuestion(_ context.Context, question string, mode domain.AnswerMode, session *domain.Session) (domain.Turn, error) {
	m.asks = append(m.asks, askCall{question: question, mode: mode})
	if m.answerErr != nil {
		return domain.Turn{}, m.answerErr
	}
	turn := domain.Turn{Question: question, Answer: "answer to " + question, Mode: mode}
	session.AppendTurn(turn)
	return turn, nil
}

func (m *mockQAService) History(_ context.Context) (domain.ChatLog, error) {
	return m.history, nil
}

type providerCall struct {
	capability string
	provider   domain.AIProvider
	model      string
	apiKey     string
}

type mockSettingsService struct {
	settings     domain.Settings
	validateErr  error
	providersErr error
	calls        []providerCall
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings()}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	m.calls = append(m.calls, providerCall{"embedding", p, model, apiKey})
	return nil
}

func (m *mockSettingsService) SetQAProvider(p domain.AIProvider, model, apiKey string) error {
	m.calls = append(m.calls, providerCall{"qa", p, model, apiKey})
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.calls = append(m.calls, providerCall{"llm", p, model, apiKey})
	return nil
}

func (m *mockSettingsService) Validate() error              { return m.validateErr }
func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }
func (m *mockSettingsService) ValidateProviders() error     { return m.providersErr }

var errBoom = errors.New("boom")

// setupTestServices installs mocks and restores the previous state on cleanup.
func setupTestServices(t *testing.T) (*mockQAService, *mockSettingsService) {
	t.Helper()
	qa := &mockQAService{summary: domain.LoadSummary{Documents: 2, Passages: 5, Dimensions: 384}}
	settings := newMockSettingsService()

	prevBootstrap := bootstrap
	bootstrap = nil
	SetServices(&Services{QA: qa, Settings: settings})
	t.Cleanup(func() {
		SetServices(nil)
		bootstrap = prevBootstrap
	})
	return qa, settings
}

// execute runs the root command with args and returns everything written.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	verbose, configPath = false, ""
	askMode, askLoad, askJSON = string(domain.ModeExtractive), nil, false
	historyLimit, historyJSON = 0, false
	chatMode, chatLoad, chatWatch, chatPlain = string(domain.ModeExtractive), nil, false, false
	providerFlag, modelFlag, apiKeyFlag = "", "", ""
}
