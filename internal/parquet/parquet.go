// Package parquet provides data structures and functions for exporting gitpick
// candidates and the action journal to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/gitpick/schema"
	"github.com/parquet-go/parquet-go"
)

// JournalRecord represents one recorded action run.
// This struct maps to the action_journal database table.
type JournalRecord struct {
	// EntryID is the unique identifier of the run
	EntryID string `parquet:"entry_id,snappy"`

	// Kind is the source whose actions were used
	Kind string `parquet:"kind,snappy,dict"`

	// Action is the resolved action name
	Action string `parquet:"action,snappy,dict"`

	// Target holds the space separated target keys
	Target string `parquet:"target,snappy"`

	// RepoRoot is the repository the action ran in
	RepoRoot string `parquet:"repo_root,snappy,dict"`

	// Status is ok, failed or skipped
	Status string `parquet:"status,snappy,dict"`

	// Message is the failure message (nullable)
	Message *string `parquet:"message,optional,snappy"`

	// RecordedAt is when the run finished (stored as TIMESTAMP with nanosecond precision)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// CandidateRecord represents one gathered candidate.
type CandidateRecord struct {
	Rank   int32  `parquet:"rank,snappy"`
	Source string `parquet:"source,snappy,dict"`
	Label  string `parquet:"label,snappy,dict"`
	Word   string `parquet:"word,snappy"`

	// Abbr is the displayed text when it differs from Word (nullable)
	Abbr *string `parquet:"abbr,optional,snappy"`

	// Path and Line locate a file (nullable)
	Path *string `parquet:"path,optional,snappy"`
	Line *int32  `parquet:"line,optional,snappy"`

	// Key selects the candidate as an action target
	Key string `parquet:"key,snappy"`
}

// writeParquet writes rows of any struct type with schema inference from its tags.
func writeParquet[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}

// WriteJournalParquet writes a slice of JournalRecord structs to a Parquet file.
func WriteJournalParquet(data []JournalRecord, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeParquet(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteCandidatesParquet writes candidate records to w.
func WriteCandidatesParquet(w io.Writer, data []CandidateRecord) error {
	return writeParquet(w, data)
}

// ConvertJournalEntries converts schema.JournalEntry to JournalRecord for Parquet export.
func ConvertJournalEntries(entries []schema.JournalEntry) []JournalRecord {
	result := make([]JournalRecord, len(entries))
	for i, entry := range entries {
		result[i] = JournalRecord{
			EntryID:    entry.ID,
			Kind:       string(entry.Kind),
			Action:     entry.Action,
			Target:     entry.Target,
			RepoRoot:   entry.Root,
			Status:     string(entry.Status),
			Message:    optionalString(entry.Message),
			RecordedAt: entry.RecordAt,
		}
	}
	return result
}

// ConvertCandidates converts enriched candidates to CandidateRecord. key builds
// the target key of each candidate.
func ConvertCandidates(candidates []schema.EnrichedCandidate, key func(schema.Candidate) string) []CandidateRecord {
	result := make([]CandidateRecord, len(candidates))
	for i, c := range candidates {
		record := CandidateRecord{
			Rank:   int32(c.Rank),
			Source: string(c.Source),
			Label:  c.Label,
			Word:   c.Word,
			Abbr:   optionalString(c.Abbr),
			Path:   optionalString(c.Path),
			Key:    key(c.Candidate),
		}
		if c.Line > 0 {
			line := int32(c.Line)
			record.Line = &line
		}
		result[i] = record
	}
	return result
}

// optionalString maps the empty string to a null value.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
