// Package lexical provides an offline extractive QA service. It answers with
// the context sentence sharing the most informative words with the question.
package lexical

import (
	"context"
	"strings"
	"unicode"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
)

// Ensure QAService implements the interface.
var _ driven.ExtractiveQAService = (*QAService)(nil)

// ModelName is the name reported for this service.
const ModelName = "lexical"

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "did": true, "do": true, "does": true, "for": true,
	"from": true, "how": true, "in": true, "is": true, "it": true, "of": true,
	"on": true, "or": true, "that": true, "the": true, "this": true, "to": true,
	"was": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "who": true, "why": true, "with": true,
}

// QAService picks the best-matching sentence of the context.
type QAService struct{}

// NewQAService creates a lexical QA service.
func NewQAService() *QAService {
	return &QAService{}
}

type span struct {
	text       string
	start, end int
}

// Answer returns the sentence of passage with the highest word overlap with
// question. Score is the fraction of question terms found. Ties go to the
// earlier sentence; an empty passage yields an empty answer.
func (s *QAService) Answer(ctx context.Context, question, passage string) (driven.QAAnswer, error) {
	if err := ctx.Err(); err != nil {
		return driven.QAAnswer{}, err
	}

	terms := contentTerms(question)
	var best driven.QAAnswer
	bestHits := -1

	for _, sent := range sentences(passage) {
		words := make(map[string]bool)
		for _, w := range hashing.Tokenize(sent.text) {
			words[w] = true
		}
		hits := 0
		for t := range terms {
			if words[t] {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = driven.QAAnswer{Answer: sent.text, Start: sent.start, End: sent.end}
			if len(terms) > 0 {
				best.Score = float64(hits) / float64(len(terms))
			}
		}
	}

	return best, nil
}

func contentTerms(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range hashing.Tokenize(text) {
		if !stopWords[w] {
			terms[w] = true
		}
	}
	return terms
}

// sentences splits text after ., ! or ? followed by whitespace, and at
// newlines. Offsets are in characters and exclude surrounding whitespace.
func sentences(text string) []span {
	var out []span
	runes := []rune(text)
	start := 0

	flush := func(end int) {
		lo, hi := start, end
		for lo < hi && unicode.IsSpace(runes[lo]) {
			lo++
		}
		for hi > lo && unicode.IsSpace(runes[hi-1]) {
			hi--
		}
		if hi > lo {
			out = append(out, span{text: string(runes[lo:hi]), start: lo, end: hi})
		}
		start = end
	}

	for i, r := range runes {
		switch {
		case r == '\n':
			flush(i + 1)
		case strings.ContainsRune(".!?", r) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])):
			flush(i + 1)
		}
	}
	if start < len(runes) {
		flush(len(runes))
	}
	return out
}

// ModelName returns the name of the QA model being used.
func (s *QAService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *QAService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *QAService) Close() error {
	return nil
}

