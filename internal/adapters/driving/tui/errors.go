package tui

import "errors"

// ErrMissingQAService is returned when the QA service is not provided.
var ErrMissingQAService = errors.New("tui: QA service is required")

// ErrMissingSession is returned when no session is provided.
var ErrMissingSession = errors.New("tui: session is required")
