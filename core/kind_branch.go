package core

import (
	"context"
	"strings"

	"github.com/huangsam/gitpick/schema"
)

// newGitBranchKind builds the branch actions. Every action runs on the first target only.
func newGitBranchKind() *Kind {
	k := newKind(schema.GitBranchSource, "checkout")
	k.register(branchCheckout, "checkout")
	k.register(branchDelete, "delete")
	k.register(branchUpdate("merge"), "merge")
	k.register(branchUpdate("rebase"), "rebase")
	return k
}

// branchCheckout checks out the branch and reloads every buffer.
func branchCheckout(ctx context.Context, ac *ActionContext) error {
	target := ac.Targets[0]
	if err := runGit(ctx, ac, target.Root, "checkout", target.Branch); err != nil {
		return err
	}
	return ac.Editor.ReloadBuffers()
}

// branchDelete deletes a remote branch after confirmation, or a local branch
// with -D when the user asks to force it.
func branchDelete(ctx context.Context, ac *ActionContext) error {
	target := ac.Targets[0]

	var args []string
	if target.Remote {
		remote, name := splitRemoteBranch(target.Branch)
		answer, err := ac.Editor.Input("Delete remote branch "+name+"? [y/n] : ", "n")
		if err != nil {
			return err
		}
		if !confirmed(answer) {
			return ErrActionSkipped
		}
		args = []string{"push", remote, "--delete", name}
	} else {
		answer, err := ac.Editor.Input("Force delete? [y/n] : ", "n")
		if err != nil {
			return err
		}
		flag := "-d"
		if confirmed(answer) {
			flag = "-D"
		}
		args = []string{"branch", flag, target.Branch}
	}

	if err := runGit(ctx, ac, target.Root, args...); err != nil {
		return err
	}
	return ac.Editor.ReloadBuffers()
}

// branchUpdate merges or rebases onto the branch. The current branch is skipped.
func branchUpdate(subcommand string) ActionFunc {
	return func(ctx context.Context, ac *ActionContext) error {
		target := ac.Targets[0]
		if target.Current {
			return ErrActionSkipped
		}
		if err := runGit(ctx, ac, target.Root, subcommand, target.Branch); err != nil {
			return err
		}
		return ac.Editor.ReloadBuffers()
	}
}

// splitRemoteBranch splits "origin/feature/x" into "origin" and "feature/x".
func splitRemoteBranch(branch string) (string, string) {
	remote, name, ok := strings.Cut(branch, "/")
	if !ok {
		return "origin", branch
	}
	return remote, name
}
