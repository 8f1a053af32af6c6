package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/kbqa/internal/core/domain"
)

var (
	askMode string
	askLoad []string
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question",
	Long: `Answers one question, optionally after loading documents.

Without --load, or when no passage is relevant, the question is answered
by the generative model without context.

Examples:
  kbqa ask --load notes/ "When is the launch?"
  kbqa ask --load "docs/*.md,README.md" --mode generative "Summarise the design"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", string(domain.ModeExtractive), "answer mode: qa or generative")
	askCmd.Flags().StringSliceVarP(&askLoad, "load", "l", nil, "files, directories or globs to load first (comma-separated)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the turn as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireQA(); err != nil {
		return err
	}

	mode, err := domain.ParseAnswerMode(askMode)
	if err != nil {
		return fmt.Errorf("invalid --mode %q: want qa or generative", askMode)
	}

	question := strings.Join(args, " ")
	ctx := cmd.Context()

	if locators := filesystem.SplitLocators(askLoad...); len(locators) > 0 {
		if _, err := qaService.LoadDocuments(ctx, locators, session); err != nil {
			return fmt.Errorf("failed to load documents: %w", err)
		}
	}

	turn, err := qaService.AnswerQuestion(ctx, question, mode, session)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(turnJSON{Question: turn.Question, Answer: turn.Answer, Mode: string(turn.Mode)}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(turn.Answer)
	return nil
}

type turnJSON struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Mode     string `json:"mode,omitempty"`
}
