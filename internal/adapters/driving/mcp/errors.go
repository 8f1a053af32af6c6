// Package mcp provides an MCP (Model Context Protocol) server adapter for kbqa.
// It lets AI assistants load local documents and ask questions about them.
package mcp

import "errors"

// ErrMissingQAService is returned when the QA service is not provided.
var ErrMissingQAService = errors.New("mcp: QA service is required")

// ErrMissingSession is returned when no session is provided.
var ErrMissingSession = errors.New("mcp: session is required")
