package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded documents"`
	Mode     string `json:"mode,omitempty" jsonschema:"answer mode: qa (extract a span) or generative (default qa)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Mode     string `json:"mode"`
}

// LoadInput is the input schema for the load_documents tool.
type LoadInput struct {
	Locators []string `json:"locators" jsonschema:"files, directories or glob patterns to load; entries may be comma-separated"`
}

// LoadOutput is the output schema for the load_documents tool.
type LoadOutput struct {
	Documents  int    `json:"documents"`
	Passages   int    `json:"passages"`
	Dimensions int    `json:"dimensions"`
	Generation uint64 `json:"generation"`
	DurationMS int64  `json:"duration_ms"`
}

// HistoryInput is the input schema for the history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"return only the most recent turns (0 = all)"`
}

// HistoryOutput is the output schema for the history tool.
type HistoryOutput struct {
	Turns []TurnOutput `json:"turns"`
	Count int          `json:"count"`
}

// TurnOutput is one question and answer pair.
type TurnOutput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the loaded documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_documents",
		Description: "Load local documents and rebuild the search index",
	}, s.handleLoad)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "history",
		Description: "List previous questions and answers",
	}, s.handleHistory)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	mode := domain.ModeExtractive
	if strings.TrimSpace(input.Mode) != "" {
		parsed, err := domain.ParseAnswerMode(input.Mode)
		if err != nil {
			return nil, AskOutput{}, err
		}
		mode = parsed
	}

	turn, err := s.ports.QA.AnswerQuestion(ctx, input.Question, mode, s.ports.Session)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Question: turn.Question,
		Answer:   turn.Answer,
		Mode:     string(turn.Mode),
	}, nil
}

func (s *Server) handleLoad(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadInput,
) (*mcp.CallToolResult, LoadOutput, error) {
	if len(input.Locators) == 0 {
		return nil, LoadOutput{}, errors.New("at least one locator is required")
	}

	summary, err := s.ports.QA.LoadDocuments(ctx, input.Locators, s.ports.Session)
	if err != nil {
		return nil, LoadOutput{}, err
	}

	return nil, LoadOutput{
		Documents:  summary.Documents,
		Passages:   summary.Passages,
		Dimensions: summary.Dimensions,
		Generation: summary.Generation,
		DurationMS: summary.Duration.Milliseconds(),
	}, nil
}

func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	log, err := s.ports.QA.History(ctx)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	turns := log.Turns()
	if input.Limit > 0 && input.Limit < len(turns) {
		turns = turns[len(turns)-input.Limit:]
	}

	output := HistoryOutput{Turns: make([]TurnOutput, len(turns)), Count: len(turns)}
	for i, t := range turns {
		output.Turns[i] = TurnOutput{Question: t.Question, Answer: t.Answer}
	}
	return nil, output, nil
}
