package parse

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/gitpick/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLine(t *testing.T) {
	meta := LogMeta{Root: "/repo", GitDir: "/repo/.git", File: "main.go", WinID: 1000}

	tests := []struct {
		name   string
		line   string
		ok     bool
		commit string
		word   string
	}{
		{
			name:   "quoted pretty format",
			line:   "* 'a1b2c3d - (HEAD -> main) Fix parser (2 days ago) <Sam>'",
			ok:     true,
			commit: "a1b2c3d",
			word:   "* a1b2c3d - (HEAD -> main) Fix parser (2 days ago) <Sam>",
		},
		{
			name:   "merge parent marker",
			line:   "| * 'abcdef0123 - Add feature (3 weeks ago) <Ana>'",
			ok:     true,
			commit: "abcdef0123",
			word:   "| * abcdef0123 - Add feature (3 weeks ago) <Ana>",
		},
		{
			name:   "unquoted line",
			line:   "* 1234567 - plain (now) <me>",
			ok:     true,
			commit: "1234567",
			word:   "* 1234567 - plain (now) <me>",
		},
		{
			name:   "apostrophe in subject survives",
			line:   "* 'a1b2c3d - Don't panic (1 day ago) <Sam>'",
			ok:     true,
			commit: "a1b2c3d",
			word:   "* a1b2c3d - Don't panic (1 day ago) <Sam>",
		},
		{name: "graph continuation", line: "|\\", ok: false},
		{name: "graph pipe only", line: "| |", ok: false},
		{name: "hash too short", line: "* 'abc12 - short (now) <me>'", ok: false},
		{name: "empty", line: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := LogLine(tt.line, meta)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.commit, c.Commit)
			assert.Equal(t, tt.word, c.Word)
			assert.Equal(t, schema.GitLogSource, c.Source)
			assert.Equal(t, "/repo/.git", c.GitDir)
			assert.Equal(t, "main.go", c.File)
			assert.Equal(t, 1000, c.WinID)
			assert.Equal(t, "/repo", c.Root)
		})
	}
}

func TestLogLine_MixedStreamKeepsOrder(t *testing.T) {
	lines := []string{
		"* 'aaaaaaa - one (1 hour ago) <a>'",
		"|\\",
		"| * 'bbbbbbb - two (2 hours ago) <b>'",
		"garbage",
		"* 'ccccccc - three (3 hours ago) <c>'",
	}
	var commits []string
	for _, line := range lines {
		if c, ok := LogLine(line, LogMeta{}); ok {
			commits = append(commits, c.Commit)
		}
	}
	assert.Equal(t, []string{"aaaaaaa", "bbbbbbb", "ccccccc"}, commits)
}

func TestStatusLine(t *testing.T) {
	root := "/repo"
	tests := []struct {
		name     string
		line     string
		ok       bool
		word     string
		path     string
		staged   bool
		worktree bool
	}{
		{name: "modified in tree", line: " M main.go", ok: true, word: " ~ main.go", path: "/repo/main.go", staged: false, worktree: true},
		{name: "staged add", line: "A  new.go", ok: true, word: "+  new.go", path: "/repo/new.go", staged: true, worktree: false},
		{name: "staged and modified", line: "MM both.go", ok: true, word: "~~ both.go", path: "/repo/both.go", staged: true, worktree: true},
		{name: "untracked", line: "?? tmp/x.txt", ok: true, word: "?? tmp/x.txt", path: "/repo/tmp/x.txt", staged: false, worktree: false},
		{name: "deleted in tree", line: " D gone.go", ok: true, word: " - gone.go", path: "/repo/gone.go", staged: false, worktree: true},
		{name: "rename", line: "R  old.go -> new.go", ok: true, word: "→  old.go -> new.go", path: "/repo/new.go", staged: true, worktree: false},
		{name: "conflict", line: "UU conflict.go", ok: true, word: "UU conflict.go", path: "/repo/conflict.go", staged: true, worktree: true},
		{name: "quoted path", line: `?? "with space\tand tab.txt"`, ok: true, word: `?? "with space\tand tab.txt"`, path: "/repo/with space\tand tab.txt"},
		{name: "unknown code shown as is", line: "T  link", ok: true, word: "T  link", path: "/repo/link", staged: true},
		{name: "empty", line: "", ok: false},
		{name: "blank", line: "    ", ok: false},
		{name: "too short", line: "M ", ok: false},
		{name: "not porcelain", line: "fatal: not a git repository", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := StatusLine(tt.line, root)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.word, c.Word)
			assert.Equal(t, filepath.FromSlash(tt.path), c.Path)
			assert.Equal(t, tt.staged, c.Staged, "staged")
			assert.Equal(t, tt.worktree, c.WorkTree, "worktree")
			assert.Equal(t, root, c.Root)
			assert.Equal(t, schema.GitStatusSource, c.Source)
		})
	}
}

func TestBranchLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		ok      bool
		branch  string
		path    string
		current bool
		remote  bool
	}{
		{name: "current", line: "* main", ok: true, branch: "main", path: "main", current: true},
		{name: "local", line: "  feature/x", ok: true, branch: "feature/x", path: "feature/x"},
		{name: "remote", line: "  remotes/origin/feature", ok: true, branch: "origin/feature", path: "remotes/origin/feature", remote: true},
		{name: "remote head", line: "  remotes/origin/HEAD -> origin/main", ok: true, branch: "origin/HEAD", path: "remotes/origin/HEAD -> origin/main", remote: true},
		{name: "worktree branch", line: "+ other", ok: true, branch: "other", path: "other"},
		{name: "empty", line: "", ok: false},
		{name: "blank", line: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := BranchLine(tt.line, "/repo")
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.line, c.Word)
			assert.Equal(t, tt.branch, c.Branch)
			assert.Equal(t, tt.path, c.Path)
			assert.Equal(t, tt.current, c.Current)
			assert.Equal(t, tt.remote, c.Remote)
			assert.Equal(t, "/repo", c.Root)
		})
	}
}

func TestTreeLine(t *testing.T) {
	c, ok := TreeLine("100644 blob 8c3a9f0e1d2b3c4d5e6f708192a3b4c5d6e7f809\tcmd/main.go", "/repo")
	require.True(t, ok)
	assert.Equal(t, "8c3a9f0e1d2b3c4d5e6f708192a3b4c5d6e7f809", c.Word)
	assert.Equal(t, "8c3a9f0e1d2b3c4d5e6f708192a3b4c5d6e7f809", c.Object)
	assert.Equal(t, filepath.FromSlash("/repo/cmd/main.go"), c.Abbr)
	assert.Equal(t, c.Abbr, c.Path)
	assert.Equal(t, c.Abbr, c.Display())

	_, ok = TreeLine("100644 blob abc", "/repo")
	assert.False(t, ok, "missing tab")
	_, ok = TreeLine("100644 blob\tfile", "/repo")
	assert.False(t, ok, "missing object")
	_, ok = TreeLine("", "/repo")
	assert.False(t, ok)
}

func TestLinesAndAll(t *testing.T) {
	out := []byte("* main\r\n  dev\n\n")
	assert.Equal(t, []string{"* main", "  dev", ""}, Lines(out))
	assert.Empty(t, Lines(nil))

	candidates := All(out, "/repo", BranchLine)
	require.Len(t, candidates, 2)
	assert.Equal(t, "main", candidates[0].Branch)
	assert.Equal(t, "dev", candidates[1].Branch)
}

func TestHunks(t *testing.T) {
	diff := []byte(`diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,0 +2,2 @@
+
+func main() {}
@@ -10 +12 @@ func helper() {
-old
+new
@@ -20,3 +21,0 @@
-a
-b
-c
`)
	assert.Equal(t, []schema.Hunk{
		{OldStart: 1, OldCount: 0, NewStart: 2, NewCount: 2},
		{OldStart: 10, OldCount: 1, NewStart: 12, NewCount: 1},
		{OldStart: 20, OldCount: 3, NewStart: 21, NewCount: 0},
	}, Hunks(diff))
	assert.Empty(t, Hunks([]byte("no hunks here")))
}

func TestChangedLines(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "line"
	}
	lines[1] = "second"
	lines[11] = "twelfth"

	hunks := []schema.Hunk{
		{NewStart: 2, NewCount: 1},
		{NewStart: 12, NewCount: 1},
		{NewStart: 0, NewCount: 0},
		{NewStart: 40, NewCount: 1},
	}
	candidates := ChangedLines(lines, hunks, "/repo/main.go", "/repo")
	require.Len(t, candidates, 2)

	assert.Equal(t, "second", candidates[0].Word)
	assert.Equal(t, " 2: second", candidates[0].Abbr)
	assert.Equal(t, 2, candidates[0].Line)
	assert.Equal(t, "/repo/main.go", candidates[0].Path)
	assert.Equal(t, schema.GitChangedSource, candidates[0].Source)

	assert.Equal(t, "twelfth", candidates[1].Word)
	assert.Equal(t, "12: twelfth", candidates[1].Abbr)
	assert.Equal(t, 12, candidates[1].Line)

	assert.Empty(t, ChangedLines(nil, hunks, "/repo/main.go", "/repo"))
}
