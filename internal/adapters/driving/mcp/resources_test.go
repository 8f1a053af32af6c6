package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleCorpusResource(t *testing.T) {
	server := newTestServer(t, &mockQAService{})
	ctx := context.Background()

	result, err := server.handleCorpusResource(ctx, readRequest("kbqa://corpus"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"generation":0,"passages":0,"documents":[]}`, result.Contents[0].Text)

	server.ports.Session.SwapCorpus(&domain.Corpus{
		Documents: []domain.Document{{ID: "d1", Title: "Guide", Source: "/docs/guide.md"}},
		Passages:  []domain.Passage{{Content: "one"}, {Content: "two"}},
	})

	result, err = server.handleCorpusResource(ctx, readRequest("kbqa://corpus"))
	require.NoError(t, err)

	var info corpusInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
	assert.Equal(t, uint64(1), info.Generation)
	assert.Equal(t, 2, info.Passages)
	assert.Equal(t, []documentInfo{{ID: "d1", Title: "Guide", Source: "/docs/guide.md"}}, info.Documents)
}

func TestServer_handlePassageResource(t *testing.T) {
	server := newTestServer(t, &mockQAService{})
	ctx := context.Background()
	server.ports.Session.SwapCorpus(&domain.Corpus{
		Passages: []domain.Passage{{Content: "first"}, {Content: "second"}},
	})

	result, err := server.handlePassageResource(ctx, readRequest("kbqa://passages/1"))
	require.NoError(t, err)
	assert.Equal(t, "second", result.Contents[0].Text)

	for _, uri := range []string{"kbqa://passages/2", "kbqa://passages/-1", "kbqa://passages/x"} {
		_, err := server.handlePassageResource(ctx, readRequest(uri))
		assert.Error(t, err, uri)
	}
}
