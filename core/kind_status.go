package core

import (
	"context"
	"strings"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/schema"
)

// newGitStatusKind builds the status actions on top of the openable ones.
func newGitStatusKind() *Kind {
	k := newKind(schema.GitStatusSource, "open")
	k.registerOpenable()
	k.register(statusAdd, "add")
	k.register(statusDiff, "delete", "diff")
	k.register(statusReset, "reset")
	k.register(statusCommit, "commit")
	k.PersistActions = []string{"reset", "add"}
	k.RedrawActions = []string{"reset", "add", "commit"}
	return k
}

// relPaths returns the target paths relative to the first target's root.
func relPaths(targets []schema.Candidate) (string, []string) {
	root := targets[0].Root
	paths := make([]string, 0, len(targets))
	for _, target := range targets {
		paths = append(paths, contract.RelativePath(root, target.Path))
	}
	return root, paths
}

// statusAdd stages every target.
func statusAdd(ctx context.Context, ac *ActionContext) error {
	root, paths := relPaths(ac.Targets)
	return runGit(ctx, ac, root, append([]string{"add", "--"}, paths...)...)
}

// statusDiff shows the diff of the first target. A staged-only entry diffs the
// index, an entry changed in both asks which side to show.
func statusDiff(_ context.Context, ac *ActionContext) error {
	target := ac.Targets[0]
	rel := contract.RelativePath(target.Root, target.Path)

	prefix := ""
	if target.Staged {
		if target.WorkTree {
			answer, err := ac.Editor.Input("Diff cached?[y/n]", "y")
			if err != nil {
				return err
			}
			if confirmed(answer) {
				prefix = "--cached "
			}
		} else {
			prefix = "--cached "
		}
	}
	return ac.Editor.DiffShow(prefix+rel, "bot split")
}

// statusReset discards each target: worktree changes are checked out, staged
// changes are unstaged, and untracked files are removed.
func statusReset(ctx context.Context, ac *ActionContext) error {
	for _, target := range ac.Targets {
		rel := contract.RelativePath(target.Root, target.Path)

		var err error
		switch {
		case target.WorkTree && target.Staged:
			var answer string
			answer, err = ac.Editor.Input("Select action reset or checkout [r/c]", "")
			if err != nil {
				return err
			}
			switch strings.TrimSpace(answer) {
			case "c":
				err = runGit(ctx, ac, target.Root, "checkout", "--", rel)
			case "r":
				err = runGit(ctx, ac, target.Root, "reset", "HEAD", "--", rel)
			}
		case target.WorkTree:
			err = runGit(ctx, ac, target.Root, "checkout", "--", rel)
		case target.Staged:
			err = runGit(ctx, ac, target.Root, "reset", "HEAD", "--", rel)
		default:
			err = ac.Editor.RemoveFile(target.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// statusCommit starts a verbose commit of the target paths.
func statusCommit(_ context.Context, ac *ActionContext) error {
	_, paths := relPaths(ac.Targets)
	return ac.Editor.Commit(strings.Join(append([]string{"-v"}, paths...), " "))
}
