// Package status provides the status bar for the chat TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// State represents what the application is doing.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateLoading  State = "loading"
	StateError    State = "error"
)

// Bar displays the answer mode, corpus size, activity and key hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	mode     domain.AnswerMode
	passages int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		mode:   domain.ModeExtractive,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.styles.ModeBadge(s.mode) + " " + s.renderState()
	right := s.renderHints()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderState() string {
	switch s.state {
	case StateThinking:
		return s.styles.Muted.Render("Thinking...")
	case StateLoading:
		return s.styles.Muted.Render("Loading documents...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	}

	if s.message != "" {
		return s.styles.Success.Render(s.message)
	}
	if s.passages == 0 {
		return s.styles.Muted.Render("No documents loaded")
	}
	return s.styles.Muted.Render(fmt.Sprintf("%d passages indexed", s.passages))
}

func (s *Bar) renderHints() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state and clears any message.
func (s *Bar) SetState(state State) {
	s.state = state
	s.message = ""
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetError switches to the error state with err's message.
func (s *Bar) SetError(err error) {
	s.state = StateError
	s.message = err.Error()
}

// SetMessage shows a transient message in the ready state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetMode sets the displayed answer mode.
func (s *Bar) SetMode(mode domain.AnswerMode) {
	s.mode = mode
}

// SetPassages sets the number of indexed passages.
func (s *Bar) SetPassages(n int) {
	s.passages = n
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}
