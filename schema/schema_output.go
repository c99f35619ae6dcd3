package schema

import "time"

// PickResult is the outcome of gathering candidates from a source.
type PickResult struct {
	QueryID    string        `json:"query_id,omitempty"`
	Source     SourceName    `json:"source"`
	Root       string        `json:"root,omitempty"`
	Pattern    string        `json:"pattern,omitempty"`
	Matcher    MatcherName   `json:"matcher"`
	Candidates []Candidate   `json:"candidates"`
	Total      int           `json:"total"`   // Candidates gathered before filtering
	Pending    bool          `json:"pending"` // More candidates may follow
	Duration   time.Duration `json:"duration"`
}

// ActionResult is the outcome of running an action on selected targets.
type ActionResult struct {
	ID      string       `json:"id"`
	Kind    SourceName   `json:"kind"`
	Action  string       `json:"action"`
	Targets []string     `json:"targets"`
	Status  ActionStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Persist bool         `json:"persist"` // The picker stays open
	Redraw  bool         `json:"redraw"`  // Candidates must be gathered again
}

// EnrichedCandidate adds presentation data to a Candidate.
type EnrichedCandidate struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	Candidate
}

// GetPlainLabel returns a short label describing what the candidate points at.
func GetPlainLabel(c Candidate) string {
	switch c.Source {
	case GitBranchSource:
		switch {
		case c.Current:
			return "Current"
		case c.Remote:
			return "Remote"
		default:
			return "Local"
		}
	case GitStatusSource:
		switch {
		case c.Staged && c.WorkTree:
			return "Both"
		case c.Staged:
			return "Staged"
		case c.WorkTree:
			return "Tree"
		default:
			return "Untracked"
		}
	case GitLogSource:
		return "Commit"
	case GitChangedSource:
		return "Hunk"
	case GitFilesSource:
		return "Blob"
	default:
		return ""
	}
}

// EnrichCandidates adds rank and label to a list of candidates.
func EnrichCandidates(candidates []Candidate) []EnrichedCandidate {
	output := make([]EnrichedCandidate, len(candidates))
	for i, c := range candidates {
		output[i] = EnrichedCandidate{
			Rank:      i + 1,
			Label:     GetPlainLabel(c),
			Candidate: c,
		}
	}
	return output
}
