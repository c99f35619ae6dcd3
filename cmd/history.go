package cmd

import (
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/outwriter"
	"github.com/huangsam/gitpick/schema"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit applies when --limit is not set.
const defaultHistoryLimit = 20

// historyCmd lists recorded action runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent action runs from the journal.",
	Long: `List the most recent actions recorded in the action journal, newest first.

Examples:
  gitpick history
  gitpick history --limit 100 --output csv --output-file history.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		journal := journalStore()
		if journal == nil {
			contract.LogFatal("Cannot read history", errJournalDisabled)
		}
		limit := cfg.Limit
		if limit == 0 {
			limit = defaultHistoryLimit
		}
		entries, err := journal.List(limit)
		if err != nil {
			contract.LogFatal("Cannot read history", err)
		}
		if entries == nil {
			entries = []schema.JournalEntry{}
		}
		if err := outwriter.NewOutWriter(nil).WriteJournal(entries, cfg); err != nil {
			contract.LogFatal("Cannot write history", err)
		}
	},
}
