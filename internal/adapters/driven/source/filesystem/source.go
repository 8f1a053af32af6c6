// Package filesystem loads documents from local files, directories and
// glob patterns, and watches them for changes.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/core/ports/driven"
	"github.com/custodia-labs/kbqa/internal/logger"
)

// DefaultMaxFileSize is the largest file read by default (10 MiB).
const DefaultMaxFileSize = 10 << 20

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source reads documents from the local filesystem and normalises them.
type Source struct {
	registry    driven.NormaliserRegistry
	maxFileSize int64
}

// Option configures a Source.
type Option func(*Source)

// WithMaxFileSize sets the largest file the source reads.
func WithMaxFileSize(n int64) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// New creates a source that normalises files through registry.
func New(registry driven.NormaliserRegistry, opts ...Option) *Source {
	s := &Source{
		registry:    registry,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SplitLocators splits comma-separated locator arguments and drops blanks.
func SplitLocators(args ...string) []string {
	var out []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Load resolves locators to files and returns one document per file, in
// locator order. Files found by walking a directory or expanding a glob are
// sorted and skipped when no normaliser supports their type; a file named
// explicitly must be supported. Any error aborts the whole load.
func (s *Source) Load(ctx context.Context, locators []string) ([]domain.Document, error) {
	paths, err := s.Resolve(SplitLocators(locators...))
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := s.read(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	logger.Debug("loaded %d documents from %d locators", len(docs), len(locators))
	return docs, nil
}

// Resolve expands locators into a de-duplicated list of file paths.
func (s *Source) Resolve(locators []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(path string) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	for _, locator := range locators {
		locator = expandHome(locator)

		if isGlob(locator) {
			matches, err := filepath.Glob(locator)
			if err != nil {
				return nil, fmt.Errorf("%w: bad pattern %q: %w", domain.ErrInvalidInput, locator, err)
			}
			var found int
			for _, m := range matches {
				info, err := os.Stat(m)
				if err != nil || info.IsDir() || !s.supported(m) {
					continue
				}
				add(m)
				found++
			}
			if found == 0 {
				return nil, fmt.Errorf("%w: pattern %q matched no supported files", domain.ErrNoDocuments, locator)
			}
			continue
		}

		info, err := os.Stat(locator)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", locator, err)
		}

		if !info.IsDir() {
			if !s.supported(locator) {
				return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, locator, detectMIMEType(locator))
			}
			add(locator)
			continue
		}

		files, err := s.walk(locator)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}

	return paths, nil
}

func (s *Source) walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && s.supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}

func (s *Source) read(ctx context.Context, path string) (domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.Size() > s.maxFileSize {
		return domain.Document{}, fmt.Errorf("%w: %s is %d bytes, limit is %d",
			domain.ErrInvalidInput, path, info.Size(), s.maxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := s.registry.Normalise(ctx, &domain.RawDocument{
		URI:      path,
		MIMEType: detectMIMEType(path),
		Content:  content,
		Metadata: map[string]any{
			"size":        info.Size(),
			"modified_at": info.ModTime(),
		},
	})
	if err != nil {
		return domain.Document{}, fmt.Errorf("normalising %s: %w", path, err)
	}
	return result.Document, nil
}

func (s *Source) supported(path string) bool {
	return slices.Contains(s.registry.SupportedMIMETypes(), detectMIMEType(path))
}

func isGlob(locator string) bool {
	return strings.ContainsAny(locator, "*?[")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
