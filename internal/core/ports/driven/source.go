package driven

import (
	"context"

	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// DocumentSource loads documents from locators (file paths, directories
// or glob patterns).
type DocumentSource interface {
	// Load resolves every locator and returns the loaded documents in
	// locator order. Loading is all-or-nothing: any failure returns an
	// error and no documents.
	Load(ctx context.Context, locators []string) ([]domain.Document, error)
}
