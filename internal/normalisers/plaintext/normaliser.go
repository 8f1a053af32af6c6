// Package plaintext provides the fallback Normaliser for text files.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/normalisers/document"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser passes text through with line endings unified.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/x-rst",
		"text/x-org",
		"text/x-log",
		"application/json",
		"application/xml",
		"text/yaml",
		"text/toml",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise converts raw bytes to a document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(string(raw.Content))
	content = strings.TrimPrefix(content, "\ufeff")

	return &driven.NormaliseResult{
		Document: document.New(raw, document.Title(raw), content, ""),
	}, nil
}
