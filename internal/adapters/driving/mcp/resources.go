package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "kbqa://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus",
		Name:        "corpus",
		Description: "Documents in the currently loaded corpus",
		MIMEType:    "application/json",
	}, s.handleCorpusResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "passages/{position}",
		Name:        "passage",
		Description: "Text of one indexed passage",
		MIMEType:    "text/plain",
	}, s.handlePassageResource)
}

type corpusInfo struct {
	Generation uint64         `json:"generation"`
	Passages   int            `json:"passages"`
	Documents  []documentInfo `json:"documents"`
}

type documentInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

func (s *Server) handleCorpusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info := corpusInfo{Documents: []documentInfo{}}
	if corpus := s.ports.Session.Corpus(); corpus != nil {
		info.Generation = corpus.Generation
		info.Passages = len(corpus.Passages)
		for _, d := range corpus.Documents {
			info.Documents = append(info.Documents, documentInfo{ID: d.ID, Title: d.Title, Source: d.Source})
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling corpus: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handlePassageResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var position int
	if _, err := fmt.Sscanf(req.Params.URI, uriScheme+"passages/%d", &position); err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	corpus := s.ports.Session.Corpus()
	if corpus == nil || position < 0 || position >= len(corpus.Passages) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     corpus.Passages[position].Content,
		}},
	}, nil
}
