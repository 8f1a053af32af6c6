// Package normalisers turns raw file bytes into document text. Each
// normaliser handles a set of MIME types; the Registry dispatches to the
// highest-priority normaliser for a document's type.
package normalisers
