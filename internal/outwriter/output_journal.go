package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/parquet"
	"github.com/huangsam/gitpick/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// DateTimeFormat is how journal times are printed.
const DateTimeFormat = "2006-01-02 15:04:05"

// WriteJournalEntries outputs recorded action runs, dispatching based on the output format configured.
func WriteJournalEntries(entries []schema.JournalEntry, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVJournal(w, entries)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteJournalParquet(parquet.ConvertJournalEntries(entries), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJournalTable(w, entries, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeCSVJournal writes one row per journal entry.
func writeCSVJournal(w io.Writer, entries []schema.JournalEntry) error {
	header := []string{"id", "recorded_at", "kind", "action", "target", "root", "status", "message"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, e := range entries {
			rec := []string{
				e.ID,
				e.RecordAt.Format(time.RFC3339),
				string(e.Kind),
				e.Action,
				e.Target,
				e.Root,
				string(e.Status),
				e.Message,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJournalTable generates and writes the human-readable history table.
func writeJournalTable(w io.Writer, entries []schema.JournalEntry, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Recorded", "Kind", "Action", "Target", "Status", "Message"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	width := GetMaxTableTextWidth(cfg)
	data := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := string(e.Status)
		if cfg.UseColors {
			status = colorStatus(e.Status)
		}
		data = append(data, []string{
			e.RecordAt.Local().Format(DateTimeFormat),
			string(e.Kind),
			e.Action,
			truncateText(e.Target, width/2),
			status,
			truncateText(e.Message, width/2),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d journal entries. Backend: %s\n", len(entries), cfg.CacheBackend)
	return err
}

// colorStatus colors an action status.
func colorStatus(status schema.ActionStatus) string {
	switch status {
	case schema.ActionOK:
		return contract.AddColor.Sprint(status)
	case schema.ActionFailed:
		return contract.ErrorColor.Sprint(status)
	case schema.ActionSkipped:
		return contract.UnknownColor.Sprint(status)
	}
	return string(status)
}
