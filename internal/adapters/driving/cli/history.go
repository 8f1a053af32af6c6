package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the saved chat history",
	Long:  `Prints the persisted question and answer pairs, oldest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show only the most recent N turns (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output the chat log as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := requireQA(); err != nil {
		return err
	}

	log, err := qaService.History(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	turns := log.Turns()
	offset := 0
	if historyLimit > 0 && len(turns) > historyLimit {
		offset = len(turns) - historyLimit
		turns = turns[offset:]
	}

	if historyJSON {
		out := make([]turnJSON, len(turns))
		for i, t := range turns {
			out[i] = turnJSON{Question: t.Question, Answer: t.Answer}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(turns) == 0 {
		cmd.Println("No chat history.")
		return nil
	}

	for i, t := range turns {
		n := offset + i + 1
		cmd.Printf("Q%d: %s\n", n, t.Question)
		cmd.Printf("A%d: %s\n\n", n, t.Answer)
	}
	return nil
}
