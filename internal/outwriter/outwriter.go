// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// KeyFunc returns the key that selects a candidate as an action target.
type KeyFunc func(schema.Candidate) string

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct {
	key KeyFunc
}

// NewOutWriter creates a new instance of the output writer. key is used to
// print target keys next to candidates.
func NewOutWriter(key KeyFunc) *OutWriter {
	return &OutWriter{key: key}
}

// WritePick prints gathered candidates using the configured output format.
func (ow *OutWriter) WritePick(result *schema.PickResult, cfg *contract.Config) error {
	return WritePickResult(result, cfg, ow.key)
}

// WriteAction prints the outcome of an action along with the editor script it produced.
func (ow *OutWriter) WriteAction(result *schema.ActionResult, script string, cfg *contract.Config) error {
	return WriteActionResult(result, script, cfg)
}

// WriteJournal prints recorded action runs using the configured output format.
func (ow *OutWriter) WriteJournal(entries []schema.JournalEntry, cfg *contract.Config) error {
	return WriteJournalEntries(entries, cfg)
}
