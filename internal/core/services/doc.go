// Package services implements the driving port interfaces.
// Services contain the core question answering logic and orchestrate
// calls to driven ports (adapters).
//
// The Retriever and Synthesizer are stateless: they borrow the index,
// passages and model services they are handed for one call. The Pipeline
// composes them and owns publishing new corpora to a domain.Session.
//
// Services are pure Go with no CGO or external dependencies.
package services
