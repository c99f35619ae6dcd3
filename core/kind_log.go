package core

import (
	"context"
	"strings"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// previewEdit opens the preview window above the current one.
const previewEdit = "abo 20split"

// newGitLogKind builds the commit actions.
func newGitLogKind() *Kind {
	k := newKind(schema.GitLogSource, "open")
	k.register(logOpen, "open")
	k.register(logPreview, "preview")
	k.register(logDiff, "delete", "diff")
	k.register(logReset, "reset")
	k.PersistActions = []string{"reset", "preview"}
	k.RedrawActions = []string{"reset"}
	return k
}

// showOptions builds the commit view options for a log candidate.
func showOptions(target schema.Candidate, edit string) contract.ShowOptions {
	return contract.ShowOptions{
		GitDir: target.GitDir,
		File:   target.File,
		All:    target.File == "",
		Edit:   edit,
	}
}

// logOpen shows every target commit.
func logOpen(_ context.Context, ac *ActionContext) error {
	for _, target := range ac.Targets {
		if err := ac.Editor.ShowCommit(target.Commit, showOptions(target, "")); err != nil {
			return err
		}
		if err := ac.Editor.Command("set nofen"); err != nil {
			return err
		}
	}
	return nil
}

// logPreview toggles the first target in the preview window and keeps focus
// on the current window. Previewing the commit already shown closes it.
func logPreview(_ context.Context, ac *ActionContext) error {
	target := ac.Targets[0]
	if name, ok := ac.Editor.PreviewBuffer(); ok {
		same := strings.HasSuffix(name, "__"+target.Commit+"__")
		if err := ac.Editor.ClosePreview(); err != nil {
			return err
		}
		if same {
			return nil
		}
	}

	prev := ac.Editor.CurrentWindow()
	if err := ac.Editor.ShowCommit(target.Commit, showOptions(target, previewEdit)); err != nil {
		return err
	}
	if err := ac.Editor.MarkPreview(); err != nil {
		return err
	}
	if err := ac.Editor.Command("set nofen"); err != nil {
		return err
	}
	return ac.Editor.GotoWindow(prev)
}

// logDiff diffs the buffer of the originating window against each target commit.
func logDiff(_ context.Context, ac *ActionContext) error {
	for _, target := range ac.Targets {
		if err := ac.Editor.GotoWindow(target.WinID); err != nil {
			return err
		}
		if err := ac.Editor.DiffThis(target.Commit); err != nil {
			return err
		}
	}
	return nil
}

// logReset resets the current branch to the first target in the chosen mode.
func logReset(_ context.Context, ac *ActionContext) error {
	target := ac.Targets[0]
	answer, err := ac.Editor.Input("Reset mode mixed|soft|hard [m/s/h]: ", "")
	if err != nil {
		return err
	}

	var opt string
	switch strings.TrimSpace(answer) {
	case "m":
		opt = "--mixed"
	case "s":
		opt = "--soft"
	case "h":
		opt = "--hard"
	default:
		return ErrActionSkipped
	}
	return ac.Editor.Reset(opt + " " + target.Commit)
}
