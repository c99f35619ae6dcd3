// Package editor adapts action effects to the hosting editor.
//
// ScriptGateway renders every effect as a line of Vim script. The host
// sources the emitted script after the action returns, so effects are applied
// in the order the action produced them.
package editor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/huangsam/gitpick/internal/contract"
)

// State is the editor state captured when an action was invoked.
type State struct {
	WindowID      int    // Focused window id
	PreviewBuffer string // Buffer shown in the preview window, empty when closed
}

// ScriptGateway implements contract.EditorGateway by writing Vim script.
type ScriptGateway struct {
	out     io.Writer
	prompts io.Writer
	in      *bufio.Reader
	answers []string
	state   State
	err     error
}

var _ contract.EditorGateway = &ScriptGateway{} // Compile-time check

// NewScriptGateway creates a gateway that writes script to out. Prompts go to
// prompts and are answered from answers first, then from in. A nil in means
// every prompt takes its default.
func NewScriptGateway(out io.Writer, prompts io.Writer, in io.Reader, answers []string, state State) *ScriptGateway {
	g := &ScriptGateway{
		out:     out,
		prompts: prompts,
		answers: answers,
		state:   state,
	}
	if in != nil {
		g.in = bufio.NewReader(in)
	}
	if g.prompts == nil {
		g.prompts = io.Discard
	}
	return g
}

// Err returns the first write error, if any.
func (g *ScriptGateway) Err() error {
	return g.err
}

// emit writes one script line. After the first failure nothing else is written.
func (g *ScriptGateway) emit(format string, args ...any) error {
	if g.err != nil {
		return g.err
	}
	if _, err := fmt.Fprintf(g.out, format+"\n", args...); err != nil {
		g.err = fmt.Errorf("write editor script: %w", err)
	}
	return g.err
}

// Message implements contract.EditorGateway. Each line of msg becomes its
// own echomsg and blank lines are dropped.
func (g *ScriptGateway) Message(msg string) {
	for line := range strings.SplitSeq(msg, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		_ = g.emit("echomsg %s", Quote(line))
	}
}

// Input implements contract.EditorGateway.
func (g *ScriptGateway) Input(prompt string, def string) (string, error) {
	if len(g.answers) > 0 {
		answer := g.answers[0]
		g.answers = g.answers[1:]
		return answer, nil
	}
	if g.in == nil {
		return def, nil
	}

	_, _ = fmt.Fprint(g.prompts, prompt)
	line, err := g.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Command implements contract.EditorGateway.
func (g *ScriptGateway) Command(ex string) error {
	return g.emit("%s", ex)
}

// OpenBuffer implements contract.EditorGateway.
func (g *ScriptGateway) OpenBuffer(path string, line int) error {
	if err := g.emit("execute 'edit' fnameescape(%s)", Quote(path)); err != nil {
		return err
	}
	if line > 0 {
		return g.emit("call cursor(%d, 1)", line)
	}
	return nil
}

// OpenScratch implements contract.EditorGateway.
func (g *ScriptGateway) OpenScratch(shellCmd string) error {
	return g.emit("new | r !%s", shellCmd)
}

// ShowCommit implements contract.EditorGateway.
func (g *ScriptGateway) ShowCommit(commit string, opts contract.ShowOptions) error {
	option := map[string]string{
		"gitdir": Quote(opts.GitDir),
		"all":    "0",
	}
	if opts.All {
		option["all"] = "1"
	} else if opts.File != "" {
		option["file"] = Quote(opts.File)
	}
	if opts.Edit != "" {
		option["edit"] = Quote(opts.Edit)
	}
	return g.emit("call easygit#show(%s, %s)", Quote(commit), dict(option))
}

// DiffThis implements contract.EditorGateway.
func (g *ScriptGateway) DiffThis(commit string) error {
	return g.emit("call easygit#diffThis(%s)", Quote(commit))
}

// DiffShow implements contract.EditorGateway.
func (g *ScriptGateway) DiffShow(args string, edit string) error {
	return g.emit("call easygit#diffShow(%s, %s)", Quote(args), Quote(edit))
}

// Commit implements contract.EditorGateway.
func (g *ScriptGateway) Commit(args string) error {
	return g.emit("call easygit#commit(%s)", Quote(args))
}

// Reset implements contract.EditorGateway.
func (g *ScriptGateway) Reset(args string) error {
	return g.emit("call easygit#reset(%s)", Quote(args))
}

// RemoveFile implements contract.EditorGateway.
func (g *ScriptGateway) RemoveFile(path string) error {
	return g.emit("call delete(%s)", Quote(path))
}

// ReloadBuffers implements contract.EditorGateway.
func (g *ScriptGateway) ReloadBuffers() error {
	return g.emit("bufdo e")
}

// CurrentWindow implements contract.EditorGateway.
func (g *ScriptGateway) CurrentWindow() int {
	return g.state.WindowID
}

// GotoWindow implements contract.EditorGateway.
func (g *ScriptGateway) GotoWindow(id int) error {
	g.state.WindowID = id
	return g.emit("call win_gotoid(%d)", id)
}

// PreviewBuffer implements contract.EditorGateway.
func (g *ScriptGateway) PreviewBuffer() (string, bool) {
	return g.state.PreviewBuffer, g.state.PreviewBuffer != ""
}

// ClosePreview implements contract.EditorGateway.
func (g *ScriptGateway) ClosePreview() error {
	g.state.PreviewBuffer = ""
	return g.emit("pclose!")
}

// MarkPreview implements contract.EditorGateway.
func (g *ScriptGateway) MarkPreview() error {
	if err := g.emit("set previewwindow"); err != nil {
		return err
	}
	return g.emit("wincmd P")
}

// Quote renders s as a Vim string literal that fits on one script line.
// Text with line breaks uses an escaped double-quoted literal.
func Quote(s string) string {
	if strings.ContainsAny(s, "\r\n") {
		return `"` + doubleQuoteEscaper.Replace(s) + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var doubleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// dict renders pre-quoted values as a Vim dictionary with sorted keys.
func dict(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, Quote(k)+": "+values[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
