// Package schema has the models and constants shared by every part of gitpick.
package schema

// Candidate is one selectable item produced by a source.
// Fields other than Word and Source are source-specific metadata and stay
// empty when a source does not provide them.
type Candidate struct {
	Word   string     `json:"word"`
	Abbr   string     `json:"abbr,omitempty"`
	Source SourceName `json:"source"`

	// Path and Line locate a file for open actions.
	Path string `json:"path,omitempty"`
	Line int    `json:"line,omitempty"`

	// Root is the repository work tree the candidate belongs to.
	Root string `json:"root,omitempty"`

	// Log metadata.
	Commit string `json:"commit,omitempty"`
	GitDir string `json:"git_dir,omitempty"`
	File   string `json:"file,omitempty"` // path relative to Root, empty for whole-repo logs
	WinID  int    `json:"win_id,omitempty"`

	// Branch metadata.
	Branch  string `json:"branch,omitempty"`
	Current bool   `json:"current,omitempty"`
	Remote  bool   `json:"remote,omitempty"`

	// Status metadata.
	Staged   bool `json:"staged,omitempty"`
	WorkTree bool `json:"work_tree,omitempty"`

	// Tree object metadata.
	Object string `json:"object,omitempty"`
}

// Display returns the abbreviated text when present and the word otherwise.
func (c Candidate) Display() string {
	if c.Abbr != "" {
		return c.Abbr
	}
	return c.Word
}

// PollResult is the output of a single poll of an external process.
type PollResult struct {
	Stdout   []string
	Stderr   []string
	Finished bool
}

// Hunk is a changed region of a file, in new-file line numbers.
type Hunk struct {
	OldStart int `json:"old_start"`
	OldCount int `json:"old_count"`
	NewStart int `json:"new_start"`
	NewCount int `json:"new_count"`
}
