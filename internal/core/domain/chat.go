package domain

import (
	"strings"
	"time"
)

// AnswerMode selects how an answer is synthesised.
type AnswerMode string

// Available answer modes.
const (
	// ModeExtractive extracts a span from the retrieved context.
	ModeExtractive AnswerMode = "qa"

	// ModeGenerative generates free text conditioned on the context.
	ModeGenerative AnswerMode = "generative"
)

// ParseAnswerMode converts user input into an AnswerMode.
// It accepts "qa", "extractive", "generative" and "gen", case-insensitively.
func ParseAnswerMode(s string) (AnswerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qa", "extractive":
		return ModeExtractive, nil
	case "generative", "gen":
		return ModeGenerative, nil
	default:
		return "", ErrInvalidInput
	}
}

// IsValid returns true if the mode is recognised.
func (m AnswerMode) IsValid() bool {
	return m == ModeExtractive || m == ModeGenerative
}

// String returns the string representation.
func (m AnswerMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m AnswerMode) Description() string {
	switch m {
	case ModeExtractive:
		return "QA (extract an answer span from the documents)"
	case ModeGenerative:
		return "Generative (write an answer using the documents)"
	default:
		return unknownDescription
	}
}

// Fixed answers produced by the synthesis policy.
const (
	// ApologyAnswer is returned in extractive mode when there is no context.
	ApologyAnswer = "I'm unable to find relevant information from the provided documents. " +
		"Please provide more context or rephrase your question."

	// UnableToGenerateAnswer replaces empty or degenerate generated text.
	UnableToGenerateAnswer = "I'm unable to generate a relevant answer at the moment. " +
		"Please try asking in a different way."

	// NoDocumentsNotice prefixes the generative fallback when retrieval
	// found nothing.
	NoDocumentsNotice = "No relevant documents found. Generating answer..."
)

// Turn is one question and its synthesised answer.
type Turn struct {
	// Question is the user's question.
	Question string

	// Answer is the final answer string.
	Answer string

	// Mode is the answer mode the caller requested.
	Mode AnswerMode

	// AskedAt is when the turn completed.
	AskedAt time.Time
}

// ChatLog is the chat history as two parallel, equal-length sequences.
type ChatLog struct {
	Questions []string
	Answers   []string
}

// Len returns the number of turns in the log.
func (l ChatLog) Len() int {
	return len(l.Questions)
}

// Turns converts the log back into turns. Mode and time are not recorded
// in a chat log and are left empty.
func (l ChatLog) Turns() []Turn {
	n := len(l.Questions)
	if len(l.Answers) < n {
		n = len(l.Answers)
	}
	turns := make([]Turn, n)
	for i := 0; i < n; i++ {
		turns[i] = Turn{Question: l.Questions[i], Answer: l.Answers[i]}
	}
	return turns
}

func newChatLog(turns []Turn) ChatLog {
	log := ChatLog{
		Questions: make([]string, len(turns)),
		Answers:   make([]string, len(turns)),
	}
	for i := range turns {
		log.Questions[i] = turns[i].Question
		log.Answers[i] = turns[i].Answer
	}
	return log
}
