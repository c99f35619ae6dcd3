// Package parse turns git output lines into candidates.
package parse

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/gitpick/schema"
)

// logLinePattern finds the abbreviated hash after a graph marker.
var logLinePattern = regexp.MustCompile(`(\*|\|)\s([0-9A-Za-z]{6,13})\s-\s`)

// hunkHeaderPattern matches unified diff hunk headers.
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// LogMeta is the query metadata attached to every log candidate.
type LogMeta struct {
	Root   string
	GitDir string
	File   string
	WinID  int
}

// LogLine parses one `git log --graph` line. The first quote and any trailing
// quotes are stripped because the pretty format is passed to git with literal
// quotes. Lines without a commit marker, such as graph continuations, are rejected.
func LogLine(line string, meta LogMeta) (schema.Candidate, bool) {
	line = strings.Replace(line, "'", "", 1)
	line = strings.TrimRight(line, "'")
	m := logLinePattern.FindStringSubmatch(line)
	if m == nil {
		return schema.Candidate{}, false
	}
	return schema.Candidate{
		Word:   line,
		Source: schema.GitLogSource,
		Root:   meta.Root,
		Commit: m[2],
		GitDir: meta.GitDir,
		File:   meta.File,
		WinID:  meta.WinID,
	}, true
}

// StatusLine parses one `git status --porcelain` line.
func StatusLine(line string, root string) (schema.Candidate, bool) {
	if len(line) < 4 || strings.TrimSpace(line) == "" || line[2] != ' ' {
		return schema.Candidate{}, false
	}
	index, tree := line[0], line[1]
	rest := line[3:]

	path := rest
	if i := strings.Index(path, " -> "); i >= 0 {
		path = path[i+len(" -> "):]
	}
	path = unquotePath(path)

	indexSymbol := schema.StatusSymbol(index)
	treeSymbol := schema.StatusSymbol(tree)
	return schema.Candidate{
		Word:     fmt.Sprintf("%s%s %s", indexSymbol, treeSymbol, rest),
		Source:   schema.GitStatusSource,
		Path:     filepath.Join(root, filepath.FromSlash(path)),
		Root:     root,
		Staged:   schema.IsChangeCode(index),
		WorkTree: schema.IsChangeCode(tree),
	}, true
}

// BranchLine parses one `git branch -a` line. Remote branches drop their
// "remotes/" prefix and symbolic refs keep only the name before the arrow.
func BranchLine(line string, root string) (schema.Candidate, bool) {
	if len(line) < 3 || strings.TrimSpace(line) == "" {
		return schema.Candidate{}, false
	}
	ref := line[2:]
	remote := strings.HasPrefix(ref, "remotes/")

	branch := strings.TrimPrefix(ref, "remotes/")
	if i := strings.Index(branch, " -> "); i >= 0 {
		branch = branch[:i]
	}
	return schema.Candidate{
		Word:    line,
		Source:  schema.GitBranchSource,
		Path:    ref,
		Root:    root,
		Branch:  branch,
		Current: line[0] == '*',
		Remote:  remote,
	}, true
}

// TreeLine parses one `git ls-tree -r` line: "<mode> <type> <object>\t<file>".
func TreeLine(line string, root string) (schema.Candidate, bool) {
	meta, file, ok := strings.Cut(line, "\t")
	if !ok || file == "" {
		return schema.Candidate{}, false
	}
	fields := strings.Fields(meta)
	if len(fields) < 3 {
		return schema.Candidate{}, false
	}
	object := fields[2]
	path := filepath.Join(root, filepath.FromSlash(unquotePath(file)))
	return schema.Candidate{
		Word:   object,
		Abbr:   path,
		Source: schema.GitFilesSource,
		Path:   path,
		Root:   root,
		Object: object,
	}, true
}

// Lines splits command output into lines without the trailing empty line.
func Lines(out []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines
}

// All applies a line parser to every line of out, dropping rejected lines.
func All(out []byte, root string, parse func(string, string) (schema.Candidate, bool)) []schema.Candidate {
	var candidates []schema.Candidate
	for _, line := range Lines(out) {
		if c, ok := parse(line, root); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// Hunks extracts the hunk headers of a unified diff.
func Hunks(diff []byte) []schema.Hunk {
	var hunks []schema.Hunk
	for _, line := range Lines(diff) {
		m := hunkHeaderPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		hunks = append(hunks, schema.Hunk{
			OldStart: atoi(m[1]),
			OldCount: count(m[2]),
			NewStart: atoi(m[3]),
			NewCount: count(m[4]),
		})
	}
	return hunks
}

// ChangedLines builds one candidate per buffer line that starts a hunk.
// lines holds the buffer content, and line numbers start at 1.
func ChangedLines(lines []string, hunks []schema.Hunk, path string, root string) []schema.Candidate {
	starts := make(map[int]bool, len(hunks))
	for _, h := range hunks {
		starts[h.NewStart] = true
	}

	width := len(strconv.Itoa(len(lines)))
	var candidates []schema.Candidate
	for i, text := range lines {
		lnum := i + 1
		if !starts[lnum] {
			continue
		}
		candidates = append(candidates, schema.Candidate{
			Word:   text,
			Abbr:   fmt.Sprintf("%*d: %s", width, lnum, text),
			Source: schema.GitChangedSource,
			Path:   path,
			Line:   lnum,
			Root:   root,
		})
	}
	return candidates
}

// unquotePath decodes the C-style quoting git applies to unusual paths.
func unquotePath(path string) string {
	if len(path) < 2 || path[0] != '"' || path[len(path)-1] != '"' {
		return path
	}
	if unquoted, err := strconv.Unquote(path); err == nil {
		return unquoted
	}
	return path
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// count parses an optional hunk length, which defaults to 1.
func count(s string) int {
	if s == "" {
		return 1
	}
	return atoi(s)
}
