// Package huggingface provides extractive question answering through the
// Hugging Face Inference question-answering pipeline.
package huggingface

import (
	"context"

	hf "github.com/custodia-labs/kbqa/internal/adapters/driven/huggingface"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure QAService implements the interface.
var _ driven.ExtractiveQAService = (*QAService)(nil)

// DefaultModel is the extractive QA model used when none is configured.
const DefaultModel = "deepset/roberta-base-squad2"

// Config holds configuration for the QA service.
type Config struct {
	hf.Config

	// Model is the model repository id (default: DefaultModel).
	Model string
}

// QAService extracts answer spans with a hosted SQuAD-style model.
type QAService struct {
	client *hf.Client
	model  string
}

type qaRequest struct {
	Inputs  qaInputs   `json:"inputs"`
	Options hf.Options `json:"options"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// NewQAService creates a new QA service.
func NewQAService(cfg Config) (*QAService, error) {
	client, err := hf.NewClient(cfg.Config)
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &QAService{client: client, model: cfg.Model}, nil
}

// Answer returns the model's best answer span for question within passage.
func (s *QAService) Answer(ctx context.Context, question, passage string) (driven.QAAnswer, error) {
	req := qaRequest{
		Inputs:  qaInputs{Question: question, Context: passage},
		Options: hf.Options{WaitForModel: true, UseCache: true},
	}

	var out qaResponse
	if err := s.client.Post(ctx, s.model, "", req, &out); err != nil {
		return driven.QAAnswer{}, err
	}

	return driven.QAAnswer{
		Answer: out.Answer,
		Score:  out.Score,
		Start:  out.Start,
		End:    out.End,
	}, nil
}

// ModelName returns the name of the QA model being used.
func (s *QAService) ModelName() string {
	return s.model
}

// Ping validates the token against the model endpoint.
func (s *QAService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, s.model)
}

// Close releases resources.
func (s *QAService) Close() error {
	return nil
}
