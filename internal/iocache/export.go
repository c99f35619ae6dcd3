package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/parquet"
)

// ExportJournal writes every journal entry to a Parquet file.
func ExportJournal(w io.Writer, store contract.JournalStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("action journal is disabled. Enable it with --journal")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get journal status: %w", err)
	}
	if status.TotalEntries == 0 {
		return errors.New("no journal entries found to export")
	}

	entries, err := store.List(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	records := parquet.ConvertJournalEntries(entries)
	if err := parquet.WriteJournalParquet(records, outputFile); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d journal entries from %s backend to: %s\n", len(records), status.Backend, outputFile)
	return nil
}
