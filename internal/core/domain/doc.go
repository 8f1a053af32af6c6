// Package domain defines the core business entities for kbqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Raw text loaded from a source
//   - Passage: A bounded, overlapping slice of a document
//   - Corpus: The (index, passages) pair produced by one load operation
//   - Session: Caller-owned state holding the current corpus and chat turns
//   - Turn: A question/answer pair
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
