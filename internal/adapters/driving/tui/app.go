package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kbqa/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

// Rows taken by everything except the conversation viewport.
const chromeHeight = 6

// App is the chat application following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	status   *status.Bar

	mode     domain.AnswerMode
	busy     bool
	showHelp bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a chat application answering in mode.
func NewApp(ports *Ports, mode domain.AnswerMode) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if !mode.IsValid() {
		mode = domain.ModeExtractive
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	input := textinput.New()
	input.Placeholder = "Ask a question, or /load <paths>"
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	bar := status.NewBar(s, km)
	bar.SetMode(mode)

	app := &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		keymap:   km,
		input:    input,
		viewport: viewport.New(80, 18),
		spinner:  sp,
		help:     help.New(),
		status:   bar,
		mode:     mode,
	}
	app.status.SetPassages(app.passages())
	return app, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("kbqa"),
		a.waitForReload(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.AnswerReady:
		a.busy = false
		if msg.Err != nil {
			a.status.SetError(msg.Err)
		} else {
			a.status.SetState(status.StateReady)
		}
		a.refresh()
		return a, nil

	case messages.DocumentsLoaded:
		a.busy = false
		if msg.Err != nil {
			a.status.SetError(msg.Err)
			return a, nil
		}
		a.status.SetState(status.StateReady)
		a.status.SetPassages(msg.Summary.Passages)
		a.status.SetMessage(fmt.Sprintf("Loaded %d documents (%d passages)", msg.Summary.Documents, msg.Summary.Passages))
		return a, nil

	case messages.CorpusReloaded:
		a.status.SetPassages(msg.Summary.Passages)
		a.status.SetMessage(fmt.Sprintf("Reloaded %d documents", msg.Summary.Documents))
		return a, a.waitForReload()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.Help):
		a.showHelp = !a.showHelp
		a.resize()
		return a, nil

	case keymap.Matches(key, a.keymap.ToggleMode):
		if a.mode == domain.ModeExtractive {
			a.setMode(domain.ModeGenerative)
		} else {
			a.setMode(domain.ModeExtractive)
		}
		return a, nil

	case keymap.Matches(key, a.keymap.ScrollUp), keymap.Matches(key, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case keymap.Matches(key, a.keymap.Submit):
		return a, a.submit()
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submit() tea.Cmd {
	text := strings.TrimSpace(a.input.Value())
	if text == "" || a.busy {
		return nil
	}
	a.input.Reset()

	if strings.HasPrefix(text, "/") {
		return a.command(text)
	}

	a.busy = true
	a.status.SetState(status.StateThinking)
	return tea.Batch(a.ask(text, a.mode), a.spinner.Tick)
}

func (a *App) command(text string) tea.Cmd {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/load":
		locators := filesystem.SplitLocators(arg)
		if len(locators) == 0 {
			a.status.SetError(fmt.Errorf("usage: /load <file|dir|glob>[,...]"))
			return nil
		}
		a.busy = true
		a.status.SetState(status.StateLoading)
		return tea.Batch(a.load(locators), a.spinner.Tick)

	case "/mode":
		mode, err := domain.ParseAnswerMode(arg)
		if err != nil {
			a.status.SetError(fmt.Errorf("unknown mode %q, want qa or generative", arg))
			return nil
		}
		a.setMode(mode)
		return nil

	case "/quit", "/exit":
		return tea.Quit

	default:
		a.status.SetError(fmt.Errorf("unknown command %s", name))
		return nil
	}
}

func (a *App) ask(question string, mode domain.AnswerMode) tea.Cmd {
	return func() tea.Msg {
		turn, err := a.ports.QA.AnswerQuestion(a.ctx, question, mode, a.ports.Session)
		return messages.AnswerReady{Turn: turn, Err: err}
	}
}

func (a *App) load(locators []string) tea.Cmd {
	return func() tea.Msg {
		summary, err := a.ports.QA.LoadDocuments(a.ctx, locators, a.ports.Session)
		return messages.DocumentsLoaded{Summary: summary, Err: err}
	}
}

func (a *App) waitForReload() tea.Cmd {
	if a.ports.Reloads == nil {
		return nil
	}
	return func() tea.Msg {
		summary, ok := <-a.ports.Reloads
		if !ok {
			return nil
		}
		return messages.CorpusReloaded{Summary: summary}
	}
}

func (a *App) setMode(mode domain.AnswerMode) {
	a.mode = mode
	a.status.SetMode(mode)
}

// SetDimensions sizes the app for a terminal of width by height.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.resize()
	a.refresh()
}

func (a *App) resize() {
	h := a.height - chromeHeight
	if a.showHelp {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	a.viewport.Width = a.width
	a.viewport.Height = h
	a.input.Width = max(a.width-6, 10)
	a.status.SetWidth(a.width)
}

// refresh re-renders the conversation and scrolls to the latest turn.
func (a *App) refresh() {
	a.viewport.SetContent(a.renderTurns())
	a.viewport.GotoBottom()
}

func (a *App) renderTurns() string {
	turns := a.ports.Session.Turns()
	if len(turns) == 0 {
		return a.styles.Muted.Render("No questions yet. Load documents with /load, then ask away.")
	}

	width := max(a.width-4, 20)
	var sb strings.Builder
	for i, t := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(a.styles.Question.Width(width).Render("Q: " + t.Question))
		sb.WriteString("\n")

		answer := t.Answer
		if rest, ok := strings.CutPrefix(answer, domain.NoDocumentsNotice); ok {
			sb.WriteString(a.styles.Notice.Width(width).Render(domain.NoDocumentsNotice))
			sb.WriteString("\n")
			answer = strings.TrimSpace(rest)
		}
		sb.WriteString(a.styles.Answer.Width(width).Render(answer))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (a *App) passages() int {
	if corpus := a.ports.Session.Corpus(); corpus != nil {
		return len(corpus.Passages)
	}
	return 0
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	title := a.styles.Title.Render("kbqa") + " " +
		a.styles.Muted.Render(fmt.Sprintf("%d turns", len(a.ports.Session.Turns())))

	input := a.input.View()
	if a.busy {
		input = a.spinner.View() + " " + a.styles.Muted.Render("working...")
	}

	sections := []string{
		title,
		a.viewport.View(),
		a.styles.InputField.Width(max(a.width-2, 10)).Render(input),
	}
	if a.showHelp {
		sections = append(sections, a.help.FullHelpView(a.keymap.FullHelp()))
	}
	sections = append(sections, a.status.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Mode returns the current answer mode.
func (a *App) Mode() domain.AnswerMode {
	return a.mode
}

// Busy reports whether a question or load is in flight.
func (a *App) Busy() bool {
	return a.busy
}
