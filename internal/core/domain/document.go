package domain

import "time"

// Document is raw text plus an opaque source identifier.
// Documents are immutable once loaded; the pipeline never mutates them.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Source is the locator the document was loaded from (file path, etc).
	Source string

	// Title is the human-readable title.
	Title string

	// Content is the full normalised text.
	Content string

	// Metadata contains normaliser-specific key-value pairs.
	Metadata map[string]any

	// LoadedAt is when the document was read.
	LoadedAt time.Time
}

// Passage is a contiguous, size-bounded substring of a Document.
// Passages from one chunking pass keep the document's ordering and
// overlap their neighbour by at most the configured overlap.
type Passage struct {
	// ID is the unique identifier for the passage.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the passage's index within the ordered sequence of
	// one load operation. It is also its position in the vector index.
	Position int

	// Content is the passage text.
	Content string

	// Start and End are rune offsets of Content within the document.
	Start int
	End   int
}

// PassageTexts returns the content of each passage, in order.
func PassageTexts(passages []Passage) []string {
	texts := make([]string, len(passages))
	for i := range passages {
		texts[i] = passages[i].Content
	}
	return texts
}
