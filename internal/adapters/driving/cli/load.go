package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbqa/internal/adapters/driven/source/filesystem"
)

var loadCmd = &cobra.Command{
	Use:   "load <file|dir|glob>...",
	Short: "Load documents and report the corpus",
	Long: `Reads, chunks and embeds the given documents and reports what was
indexed. Locators may be files, directories or glob patterns, separated by
spaces or commas. Any unreadable or unsupported document aborts the load.

The corpus only lives for the duration of the command, so this is mainly
useful to check a document set before using it with ask or chat.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	if err := requireQA(); err != nil {
		return err
	}

	locators := filesystem.SplitLocators(args...)
	if len(locators) == 0 {
		return errors.New("no documents given")
	}

	summary, err := qaService.LoadDocuments(cmd.Context(), locators, session)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}

	cmd.Printf("Loaded %d documents into %d passages", summary.Documents, summary.Passages)
	if summary.Dimensions > 0 {
		cmd.Printf(" (%d dimensions)", summary.Dimensions)
	}
	cmd.Printf(" in %s\n", summary.Duration.Round(time.Millisecond))
	return nil
}
