// Package html provides a Normaliser implementation for HTML documents.
// It walks the parsed node tree, skipping non-content elements, and emits
// block elements as separate lines.
package html
