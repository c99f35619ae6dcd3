package parse

import (
	"strings"
	"testing"
)

// FuzzLogLine fuzzes LogLine with arbitrary lines.
func FuzzLogLine(f *testing.F) {
	seeds := []string{
		"* 'a1b2c3d - (HEAD -> main) Fix parser (2 days ago) <Sam>'",
		"| * 'abcdef0123 - Add feature (3 weeks ago) <Ana>'",
		"|\\",
		"''''",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, line string) {
		c, ok := LogLine(line, LogMeta{})
		if !ok {
			return
		}
		if len(c.Commit) < 6 || len(c.Commit) > 13 {
			t.Fatalf("commit %q has invalid length", c.Commit)
		}
		if !strings.Contains(c.Word, c.Commit) {
			t.Fatalf("word %q does not contain commit %q", c.Word, c.Commit)
		}
	})
}

// FuzzStatusLine fuzzes StatusLine with arbitrary lines.
func FuzzStatusLine(f *testing.F) {
	seeds := []string{" M main.go", "R  a -> b", `?? "q\"uoted"`, "", "XY"}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, line string) {
		_, _ = StatusLine(line, "/repo")
		_, _ = BranchLine(line, "/repo")
		_, _ = TreeLine(line, "/repo")
	})
}

// FuzzHunks fuzzes the hunk header parser.
func FuzzHunks(f *testing.F) {
	f.Add("@@ -1,0 +2,2 @@\n+a\n")
	f.Add("@@ -99999999999999999999 +1 @@")
	f.Add("")

	f.Fuzz(func(t *testing.T, diff string) {
		for _, h := range Hunks([]byte(diff)) {
			if h.NewStart < 0 || h.OldStart < 0 {
				t.Fatalf("negative hunk start parsed from %q", diff)
			}
		}
	})
}
