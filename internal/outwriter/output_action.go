package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// WriteActionResult outputs an action outcome. Text output is the editor
// script followed by a comment line, so the host can source it as is.
func WriteActionResult(result *schema.ActionResult, script string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONAction(w, result, script)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVAction(w, result)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for actions")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeActionScript(w, result, script)
		}, "Wrote script")
	}
	return nil
}

// writeJSONAction writes the result with the script embedded.
func writeJSONAction(w io.Writer, result *schema.ActionResult, script string) error {
	type JSONActionResult struct {
		*schema.ActionResult
		Script string `json:"script"`
	}
	return writeJSON(w, JSONActionResult{ActionResult: result, Script: script})
}

// writeCSVAction writes a single row describing the result.
func writeCSVAction(w io.Writer, result *schema.ActionResult) error {
	header := []string{"id", "kind", "action", "targets", "status", "message", "persist", "redraw"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		return csvWriter.Write([]string{
			result.ID,
			string(result.Kind),
			result.Action,
			strings.Join(result.Targets, "|"),
			string(result.Status),
			result.Message,
			strconv.FormatBool(result.Persist),
			strconv.FormatBool(result.Redraw),
		})
	})
}

// writeActionScript writes the script and a trailing Vim comment with the outcome.
func writeActionScript(w io.Writer, result *schema.ActionResult, script string) error {
	if script != "" {
		if _, err := io.WriteString(w, script); err != nil {
			return err
		}
		if !strings.HasSuffix(script, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	summary := fmt.Sprintf("%s %s: %s", result.Kind, result.Action, result.Status)
	if result.Message != "" {
		summary += " (" + result.Message + ")"
	}
	_, err := fmt.Fprintf(w, "\" %s persist=%t redraw=%t\n", summary, result.Persist, result.Redraw)
	return err
}
