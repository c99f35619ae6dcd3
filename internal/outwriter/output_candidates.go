package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/parquet"
	"github.com/huangsam/gitpick/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePickResult outputs gathered candidates, dispatching based on the output format configured.
func WritePickResult(result *schema.PickResult, cfg *contract.Config, key KeyFunc) error {
	enriched := schema.EnrichCandidates(result.Candidates)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONPick(w, result, enriched)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVCandidates(w, enriched, key)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		records := parquet.ConvertCandidates(enriched, key)
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteCandidatesParquet(w, records)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCandidateTable(w, result, enriched, cfg, key)
		}, "Wrote table")
	}
	return nil
}

// writeJSONPick writes the pick result with enriched candidates.
func writeJSONPick(w io.Writer, result *schema.PickResult, enriched []schema.EnrichedCandidate) error {
	type JSONPickResult struct {
		*schema.PickResult
		Candidates []schema.EnrichedCandidate `json:"candidates"`
	}
	return writeJSON(w, JSONPickResult{PickResult: result, Candidates: enriched})
}

// writeCSVCandidates writes one row per candidate.
func writeCSVCandidates(w io.Writer, enriched []schema.EnrichedCandidate, key KeyFunc) error {
	header := []string{"rank", "source", "label", "key", "word", "abbr", "path", "line"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, c := range enriched {
			line := ""
			if c.Line > 0 {
				line = strconv.Itoa(c.Line)
			}
			rec := []string{
				strconv.Itoa(c.Rank),
				string(c.Source),
				c.Label,
				key(c.Candidate),
				c.Word,
				c.Abbr,
				c.Path,
				line,
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCandidateTable generates and writes the human-readable table.
func writeCandidateTable(w io.Writer, result *schema.PickResult, enriched []schema.EnrichedCandidate, cfg *contract.Config, key KeyFunc) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Label", "Key", "Candidate"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	width := GetMaxTableTextWidth(cfg)
	data := make([][]string, 0, len(enriched))
	for _, c := range enriched {
		label := c.Label
		if cfg.UseColors {
			label = colorLabel(c.Candidate, label)
		}
		data = append(data, []string{
			strconv.Itoa(c.Rank),
			label,
			truncateText(key(c.Candidate), 30),
			candidateText(c.Candidate, width, cfg.UseColors),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d of %d %s candidates (%s)\n", len(enriched), result.Total, result.Source, result.Matcher); err != nil {
		return err
	}
	if result.Pending {
		if _, err := fmt.Fprintf(w, "More candidates pending for query %s\n", result.QueryID); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Gathered in %v. Cache backend: %s\n", result.Duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// colorLabel colors a label the way the source highlights the candidate.
func colorLabel(c schema.Candidate, label string) string {
	switch c.Source {
	case schema.GitBranchSource:
		switch {
		case c.Current:
			return contract.CurrentColor.Sprint(label)
		case c.Remote:
			return contract.RemoteColor.Sprint(label)
		}
	case schema.GitStatusSource:
		switch {
		case c.Staged && c.WorkTree:
			return contract.ChangeColor.Sprint(label)
		case c.Staged:
			return contract.AddColor.Sprint(label)
		case c.WorkTree:
			return contract.DeleteColor.Sprint(label)
		default:
			return contract.UnknownColor.Sprint(label)
		}
	case schema.GitLogSource:
		return contract.CommitColor.Sprint(label)
	}
	return label
}

// candidateText fits the displayed text into width. Paths keep their tail and
// status symbols get their own colors.
func candidateText(c schema.Candidate, width int, useColors bool) string {
	if c.Source == schema.GitFilesSource && c.Abbr != "" {
		return contract.TruncatePath(c.Abbr, width)
	}
	text := truncateText(c.Display(), width)
	if useColors && c.Source == schema.GitStatusSource {
		runes := []rune(text)
		if len(runes) > 3 {
			return contract.ColorStatusSymbol(string(runes[0])) + contract.ColorStatusSymbol(string(runes[1])) + string(runes[2:])
		}
	}
	return text
}

// truncateText cuts text to maxWidth runes with an ellipsis suffix.
func truncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}
