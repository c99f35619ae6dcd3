package core

import (
	"context"

	"github.com/huangsam/gitpick/schema"
)

// newGitChangedKind builds the changed-line actions.
func newGitChangedKind() *Kind {
	k := newKind(schema.GitChangedSource, "open")
	k.registerOpenable()
	return k
}

// newGitFilesKind builds the tree object actions.
func newGitFilesKind() *Kind {
	k := newKind(schema.GitFilesSource, "open")
	k.register(filesOpen, "open")
	return k
}

// filesOpen shows the first target object in a scratch buffer.
func filesOpen(_ context.Context, ac *ActionContext) error {
	target := ac.Targets[0]
	cmd := "git cat-file -p " + target.Object
	if target.Root != "" {
		cmd = "git -C " + shellQuote(target.Root) + " cat-file -p " + target.Object
	}
	return ac.Editor.OpenScratch(cmd)
}
