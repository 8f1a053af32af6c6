// Package markdown provides a Normaliser that reduces Markdown to prose,
// keeping the text of links, code and headings while dropping markup.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/normalisers/document"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts a Markdown document to plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")
	front, body := splitFrontMatter(source)

	title := front["title"]
	if title == "" {
		title = firstHeading(body)
	}
	if title == "" {
		title = document.Title(raw)
	}

	return &driven.NormaliseResult{
		Document: document.New(raw, title, Strip(body), "markdown"),
	}, nil
}

type rule struct {
	pattern *regexp.Regexp
	replace string
}

// Applied in order; fences go first so code bodies survive the inline rules.
var rules = []rule{
	{regexp.MustCompile("(?m)^\\s*(```|~~~)[^\\n]*$"), ""},
	{regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile(`(?m)^\s*\[[^\]]+\]:\s+\S+.*$`), ""},
	{regexp.MustCompile("`([^`]+)`"), "$1"},
	{regexp.MustCompile(`(?m)^#{1,6}\s+`), ""},
	{regexp.MustCompile(`(?m)^\s{0,3}>\s?`), ""},
	{regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`), ""},
	{regexp.MustCompile(`(?m)^\s*[-*+]\s+(\[[ xX]\]\s+)?`), ""},
	{regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`), ""},
	{regexp.MustCompile(`(?m)^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?\s*$`), ""},
	{regexp.MustCompile(`(\*\*|__)(\S(?:.*?\S)?)(\*\*|__)`), "$2"},
	{regexp.MustCompile(`(^|[^*\w])[*_](\S(?:[^*_]*?\S)?)[*_]([^*\w]|$)`), "$1$2$3"},
	{regexp.MustCompile(`~~(.+?)~~`), "$1"},
	{regexp.MustCompile(`<[^>\n]+>`), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Strip removes Markdown syntax from content.
func Strip(content string) string {
	for _, r := range rules {
		content = r.pattern.ReplaceAllString(content, r.replace)
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.Contains(line, "|") {
			line = strings.Trim(strings.TrimSpace(line), "|")
			cells := strings.Split(line, "|")
			for j := range cells {
				cells[j] = strings.TrimSpace(cells[j])
			}
			line = strings.Join(cells, " ")
		}
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// splitFrontMatter separates a leading "---" block of "key: value" lines.
func splitFrontMatter(content string) (map[string]string, string) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, content
	}
	end := strings.Index(content[4:], "\n---")
	if end < 0 {
		return nil, content
	}

	front := make(map[string]string)
	for _, line := range strings.Split(content[4:4+end], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		front[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	body := content[4+end+len("\n---"):]
	return front, strings.TrimPrefix(body, "\n")
}
