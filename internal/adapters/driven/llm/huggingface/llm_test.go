package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hf "github.com/custodia-labs/kbqa/internal/adapters/driven/huggingface"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

func TestLLMService_Generate(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+DefaultModel, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`[{"generated_text":"Question: q\nAnswer: a full sentence."}]`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{Config: hf.Config{APIKey: "hf", BaseURL: server.URL}})
	require.NoError(t, err)

	out, err := svc.Generate(context.Background(), "Question: q\nAnswer:", driven.GenerateOptions{
		MaxLength:          200,
		NumReturnSequences: 1,
		Temperature:        0.7,
		TopP:               0.9,
		PadTokenID:         50256,
		Truncation:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, []driven.Generation{{Text: "Question: q\nAnswer: a full sentence."}}, out)
	assert.Equal(t, "Question: q\nAnswer:", got.Inputs)
	assert.Equal(t, 200, got.Parameters.MaxNewTokens)
	assert.True(t, got.Parameters.DoSample)
	assert.True(t, got.Parameters.ReturnFullText)
	require.NotNil(t, got.Parameters.Truncate)
}

func TestLLMService_Generate_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Input validation error"}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(Config{Config: hf.Config{APIKey: "hf", BaseURL: server.URL}})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	assert.ErrorContains(t, err, "Input validation error")
}
