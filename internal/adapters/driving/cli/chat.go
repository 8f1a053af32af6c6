package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/kbqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/kbqa/internal/core/domain"
	"github.com/custodia-labs/kbqa/internal/logger"
)

var (
	chatMode  string
	chatLoad  []string
	chatWatch bool
	chatPlain bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question and answer session",
	Long: `Starts a conversation over the loaded documents.

On a terminal this opens the interactive chat UI. Otherwise, or with
--plain, questions are read line by line from standard input.

Commands inside a session:
  /load <paths>            Replace the corpus with new documents
  /mode qa|generative      Switch the answer mode
  /quit                    Leave the session

With --watch the corpus is reloaded whenever the loaded files change.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMode, "mode", "m", string(domain.ModeExtractive), "initial answer mode: qa or generative")
	chatCmd.Flags().StringSliceVarP(&chatLoad, "load", "l", nil, "files, directories or globs to load (comma-separated)")
	chatCmd.Flags().BoolVarP(&chatWatch, "watch", "w", false, "reload documents when they change")
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "read questions from stdin even on a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := requireQA(); err != nil {
		return err
	}

	mode, err := domain.ParseAnswerMode(chatMode)
	if err != nil {
		return fmt.Errorf("invalid --mode %q: want qa or generative", chatMode)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	locators := filesystem.SplitLocators(chatLoad...)
	if len(locators) > 0 {
		summary, err := qaService.LoadDocuments(ctx, locators, session)
		if err != nil {
			return fmt.Errorf("failed to load documents: %w", err)
		}
		logger.Info("loaded %d documents (%d passages)", summary.Documents, summary.Passages)
	}

	var reloads chan domain.LoadSummary
	if chatWatch && len(locators) > 0 {
		reloads = startWatch(ctx, locators)
	}

	if !chatPlain && isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout()) {
		return runChatTUI(ctx, mode, reloads)
	}
	return runChatREPL(ctx, cmd, mode)
}

// startWatch reloads the corpus in the background and reports each
// successful reload on the returned channel.
func startWatch(ctx context.Context, locators []string) chan domain.LoadSummary {
	if watchFunc == nil {
		logger.Warn("hot reload is not available")
		return nil
	}

	reloads := make(chan domain.LoadSummary, 1)
	reload := func(ctx context.Context) error {
		summary, err := qaService.LoadDocuments(ctx, locators, session)
		if err != nil {
			return err
		}
		select {
		case reloads <- summary:
		default:
		}
		return nil
	}

	go func() {
		if err := watchFunc(ctx, locators, reload); err != nil && ctx.Err() == nil {
			logger.Error("watcher stopped: %v", err)
		}
	}()
	return reloads
}

func runChatTUI(ctx context.Context, mode domain.AnswerMode, reloads chan domain.LoadSummary) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{QA: qaService, Session: session, Reloads: reloads}, mode)
	if err != nil {
		return fmt.Errorf("failed to create chat UI: %w", err)
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}

func runChatREPL(ctx context.Context, cmd *cobra.Command, mode domain.AnswerMode) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "kbqa chat (%s mode). Type /quit to exit.\n", mode)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			next, quit := replCommand(ctx, out, line, mode)
			if quit {
				return nil
			}
			mode = next
			continue
		}

		turn, err := qaService.AnswerQuestion(ctx, line, mode, session)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, turn.Answer)
	}
}

// replCommand runs a slash command and returns the mode to continue with.
func replCommand(ctx context.Context, out io.Writer, line string, mode domain.AnswerMode) (domain.AnswerMode, bool) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return mode, true

	case "/mode":
		next, err := domain.ParseAnswerMode(arg)
		if err != nil {
			fmt.Fprintf(out, "Unknown mode %q, want qa or generative\n", arg)
			return mode, false
		}
		fmt.Fprintf(out, "Mode: %s\n", next.Description())
		return next, false

	case "/load":
		locators := filesystem.SplitLocators(arg)
		if len(locators) == 0 {
			fmt.Fprintln(out, "Usage: /load <file|dir|glob>[,...]")
			return mode, false
		}
		summary, err := qaService.LoadDocuments(ctx, locators, session)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return mode, false
		}
		fmt.Fprintf(out, "Loaded %d documents (%d passages)\n", summary.Documents, summary.Passages)
		return mode, false

	default:
		fmt.Fprintf(out, "Unknown command %s\n", name)
		return mode, false
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
