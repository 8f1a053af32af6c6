// Package chunker splits document text into overlapping, size-bounded passages.
package chunker

import (
	"context"
	"unicode"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultChunkSize is the default number of characters per passage.
const DefaultChunkSize = 200

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// separators are tried in order: paragraph, line, sentence, word.
// A hard character cut is used when none occurs in the window.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune(" "),
}

// Split breaks text into consecutive passages of at most maxSize
// characters (runes). Each passage starts no earlier than overlap
// characters before its predecessor ends, and never after it ends, so
// the passages cover the text in order. Cuts land after the
// highest-priority separator found in the window.
//
// Passages consisting only of whitespace are dropped. Returned passages
// carry Position, Content, Start and End; callers assign IDs.
func Split(text string, maxSize, overlap int) ([]domain.Passage, error) {
	if maxSize <= 0 || overlap < 0 || overlap >= maxSize {
		return nil, &domain.ConfigurationError{MaxSize: maxSize, Overlap: overlap}
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	n := len(runes)
	passages := make([]domain.Passage, 0, n/(maxSize-overlap)+1)

	start := 0
	for start < n {
		end := n
		if n-start > maxSize {
			end = cutPoint(runes, start+overlap, start+maxSize)
		}

		if !isBlank(runes[start:end]) {
			passages = append(passages, domain.Passage{
				Position: len(passages),
				Content:  string(runes[start:end]),
				Start:    start,
				End:      end,
			})
		}

		if end == n {
			break
		}
		start = nextStart(runes, end-overlap, end)
	}

	return passages, nil
}

// cutPoint returns the passage end in (lo, hi]. The end sits just after
// the last occurrence of the first separator that occurs in the window.
func cutPoint(runes []rune, lo, hi int) int {
	for _, sep := range separators {
		if cut := lastCut(runes, sep, lo, hi); cut > 0 {
			return cut
		}
	}
	return hi
}

func lastCut(runes, sep []rune, lo, hi int) int {
	for cut := hi; cut > lo; cut-- {
		i := cut - len(sep)
		if i < 0 {
			break
		}
		if equalRunes(runes[i:cut], sep) {
			return cut
		}
	}
	return -1
}

// nextStart picks the next passage start in [lo, end]. It moves forward
// to the first word start so the overlap does not begin mid-word, and
// stays at lo when the window holds no word start.
func nextStart(runes []rune, lo, end int) int {
	if lo < 0 {
		lo = 0
	}
	if lo == 0 || unicode.IsSpace(runes[lo-1]) {
		return lo
	}
	for p := lo + 1; p <= end && p < len(runes); p++ {
		if unicode.IsSpace(runes[p-1]) && !unicode.IsSpace(runes[p]) {
			return p
		}
	}
	return lo
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isBlank(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Processor splits document content into passages.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// Invalid sizes are reported by Process.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into passages linked to doc.
func (p *Processor) Process(ctx context.Context, doc *domain.Document) ([]domain.Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passages, err := Split(doc.Content, p.chunkSize, p.overlap)
	if err != nil {
		return nil, err
	}

	for i := range passages {
		passages[i].ID = uuid.New().String()
		passages[i].DocumentID = doc.ID
	}

	return passages, nil
}
