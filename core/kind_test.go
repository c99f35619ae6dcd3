package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/editor"
	"github.com/huangsam/gitpick/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newActionContext builds an action context with fresh mocks.
func newActionContext(targets ...schema.Candidate) (*ActionContext, *editor.MockGateway, *contract.MockGitClient) {
	gw := &editor.MockGateway{}
	client := &contract.MockGitClient{}
	return &ActionContext{Targets: targets, Editor: gw, Git: client}, gw, client
}

func statusTarget(rel string, staged, tree bool) schema.Candidate {
	return schema.Candidate{
		Source:   schema.GitStatusSource,
		Root:     testRoot,
		Path:     filepath.Join(testRoot, rel),
		Staged:   staged,
		WorkTree: tree,
	}
}

func logTarget(commit string) schema.Candidate {
	return schema.Candidate{
		Source: schema.GitLogSource,
		Root:   testRoot,
		Commit: commit,
		GitDir: filepath.Join(testRoot, ".git"),
		WinID:  1001,
	}
}

func TestKind_Metadata(t *testing.T) {
	log := newGitLogKind()
	assert.Equal(t, "open", log.Resolve("default"))
	assert.True(t, log.IsPersist("preview"))
	assert.True(t, log.IsRedraw("reset"))
	assert.False(t, log.IsRedraw("preview"))
	assert.Equal(t, []string{"delete", "diff", "open", "preview", "reset"}, log.Actions())

	status := newGitStatusKind()
	assert.True(t, status.IsPersist("add"))
	assert.True(t, status.IsRedraw("commit"))
	assert.False(t, status.IsPersist("commit"))
	assert.True(t, status.Has("tabopen"))

	branch := newGitBranchKind()
	assert.Equal(t, "checkout", branch.Resolve(""))
	assert.False(t, branch.Has("add"))
}

func TestKind_DoErrors(t *testing.T) {
	k := newGitBranchKind()
	ac, _, _ := newActionContext()

	err := k.Do(context.Background(), "checkout", ac)
	assert.ErrorIs(t, err, ErrNoTargets)

	err = k.Do(context.Background(), "stash", ac)
	assert.ErrorContains(t, err, "unknown action 'stash'")
}

func TestBranchCheckout(t *testing.T) {
	ctx := context.Background()
	ac, gw, client := newActionContext(schema.Candidate{Root: testRoot, Branch: "feature"})
	client.On("Run", ctx, testRoot, "checkout", "feature").Return([]byte("Switched to branch 'feature'\n"), nil)
	gw.On("Message", "Switched to branch 'feature'").Return()
	gw.On("ReloadBuffers").Return(nil)

	require.NoError(t, newGitBranchKind().Do(ctx, "default", ac))
	client.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestBranchDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		target schema.Candidate
		prompt string
		answer string
		args   []any
		skip   bool
	}{
		{
			name:   "local safe",
			target: schema.Candidate{Root: testRoot, Branch: "old"},
			prompt: "Force delete? [y/n] : ",
			answer: "n",
			args:   []any{ctx, testRoot, "branch", "-d", "old"},
		},
		{
			name:   "local forced",
			target: schema.Candidate{Root: testRoot, Branch: "old"},
			prompt: "Force delete? [y/n] : ",
			answer: "y",
			args:   []any{ctx, testRoot, "branch", "-D", "old"},
		},
		{
			name:   "remote confirmed",
			target: schema.Candidate{Root: testRoot, Branch: "upstream/feature/x", Remote: true},
			prompt: "Delete remote branch feature/x? [y/n] : ",
			answer: "y",
			args:   []any{ctx, testRoot, "push", "upstream", "--delete", "feature/x"},
		},
		{
			name:   "remote declined",
			target: schema.Candidate{Root: testRoot, Branch: "origin/x", Remote: true},
			prompt: "Delete remote branch x? [y/n] : ",
			answer: "n",
			skip:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ac, gw, client := newActionContext(tt.target)
			gw.On("Input", tt.prompt, "n").Return(tt.answer, nil)
			if !tt.skip {
				client.On("Run", tt.args...).Return([]byte(nil), nil)
				gw.On("ReloadBuffers").Return(nil)
			}

			err := newGitBranchKind().Do(ctx, "delete", ac)
			if tt.skip {
				assert.ErrorIs(t, err, ErrActionSkipped)
				client.AssertNumberOfCalls(t, "Run", 0)
			} else {
				require.NoError(t, err)
			}
			gw.AssertExpectations(t)
			client.AssertExpectations(t)
		})
	}
}

func TestBranchMergeSkipsCurrent(t *testing.T) {
	ctx := context.Background()
	ac, _, client := newActionContext(schema.Candidate{Root: testRoot, Branch: "main", Current: true})

	err := newGitBranchKind().Do(ctx, "merge", ac)
	assert.ErrorIs(t, err, ErrActionSkipped)
	client.AssertNumberOfCalls(t, "Run", 0)
}

func TestBranchRebaseFailure(t *testing.T) {
	ctx := context.Background()
	ac, gw, client := newActionContext(schema.Candidate{Root: testRoot, Branch: "feature"})
	client.On("Run", ctx, testRoot, "rebase", "feature").Return([]byte("CONFLICT\n"), errors.New("git rebase failed"))
	gw.On("Message", mock.Anything).Return()

	err := newGitBranchKind().Do(ctx, "rebase", ac)
	assert.EqualError(t, err, "git rebase failed")
	gw.AssertCalled(t, "Message", "CONFLICT")
	gw.AssertNotCalled(t, "ReloadBuffers")
}

func TestStatusAdd(t *testing.T) {
	ctx := context.Background()
	ac, _, client := newActionContext(statusTarget("a.go", false, true), statusTarget("dir/b.go", false, false))
	client.On("Run", ctx, testRoot, "add", "--", "a.go", "dir/b.go").Return([]byte(nil), nil)

	require.NoError(t, newGitStatusKind().Do(ctx, "add", ac))
	client.AssertExpectations(t)
}

func TestStatusDiff(t *testing.T) {
	ctx := context.Background()

	t.Run("tree only", func(t *testing.T) {
		ac, gw, _ := newActionContext(statusTarget("a.go", false, true))
		gw.On("DiffShow", "a.go", "bot split").Return(nil)
		require.NoError(t, newGitStatusKind().Do(ctx, "diff", ac))
		gw.AssertExpectations(t)
	})

	t.Run("staged only", func(t *testing.T) {
		ac, gw, _ := newActionContext(statusTarget("a.go", true, false))
		gw.On("DiffShow", "--cached a.go", "bot split").Return(nil)
		require.NoError(t, newGitStatusKind().Do(ctx, "delete", ac))
		gw.AssertExpectations(t)
	})

	t.Run("both declined", func(t *testing.T) {
		ac, gw, _ := newActionContext(statusTarget("a.go", true, true))
		gw.On("Input", "Diff cached?[y/n]", "y").Return("n", nil)
		gw.On("DiffShow", "a.go", "bot split").Return(nil)
		require.NoError(t, newGitStatusKind().Do(ctx, "diff", ac))
		gw.AssertExpectations(t)
	})
}

func TestStatusReset(t *testing.T) {
	ctx := context.Background()
	ac, gw, client := newActionContext(
		statusTarget("tree.go", false, true),
		statusTarget("staged.go", true, false),
		statusTarget("both.go", true, true),
		statusTarget("new.txt", false, false),
	)
	client.On("Run", ctx, testRoot, "checkout", "--", "tree.go").Return([]byte(nil), nil)
	client.On("Run", ctx, testRoot, "reset", "HEAD", "--", "staged.go").Return([]byte(nil), nil)
	gw.On("Input", "Select action reset or checkout [r/c]", "").Return("r", nil)
	client.On("Run", ctx, testRoot, "reset", "HEAD", "--", "both.go").Return([]byte(nil), nil)
	gw.On("RemoveFile", filepath.Join(testRoot, "new.txt")).Return(nil)

	require.NoError(t, newGitStatusKind().Do(ctx, "reset", ac))
	client.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestStatusCommit(t *testing.T) {
	ac, gw, _ := newActionContext(statusTarget("a.go", true, false), statusTarget("b.go", true, false))
	gw.On("Commit", "-v a.go b.go").Return(nil)

	require.NoError(t, newGitStatusKind().Do(context.Background(), "commit", ac))
	gw.AssertExpectations(t)
}

func TestStatusOpenSplit(t *testing.T) {
	ac, gw, _ := newActionContext(statusTarget("a.go", false, true))
	gw.On("Command", "vsplit").Return(nil)
	gw.On("OpenBuffer", filepath.Join(testRoot, "a.go"), 0).Return(nil)

	require.NoError(t, newGitStatusKind().Do(context.Background(), "vsplit", ac))
	gw.AssertExpectations(t)
}

func TestLogOpen(t *testing.T) {
	target := logTarget("1a2b3c4")
	ac, gw, _ := newActionContext(target)
	gw.On("ShowCommit", "1a2b3c4", contract.ShowOptions{GitDir: target.GitDir, All: true}).Return(nil)
	gw.On("Command", "set nofen").Return(nil)

	require.NoError(t, newGitLogKind().Do(context.Background(), "open", ac))
	gw.AssertExpectations(t)
}

func TestLogPreview(t *testing.T) {
	ctx := context.Background()
	target := logTarget("1a2b3c4")
	opts := contract.ShowOptions{GitDir: target.GitDir, All: true, Edit: previewEdit}

	t.Run("opens and returns", func(t *testing.T) {
		ac, gw, _ := newActionContext(target)
		gw.On("PreviewBuffer").Return("", false)
		gw.On("CurrentWindow").Return(1001)
		gw.On("ShowCommit", "1a2b3c4", opts).Return(nil)
		gw.On("MarkPreview").Return(nil)
		gw.On("Command", "set nofen").Return(nil)
		gw.On("GotoWindow", 1001).Return(nil)

		require.NoError(t, newGitLogKind().Do(ctx, "preview", ac))
		gw.AssertExpectations(t)
	})

	t.Run("same commit toggles off", func(t *testing.T) {
		ac, gw, _ := newActionContext(target)
		gw.On("PreviewBuffer").Return("easygit://__1a2b3c4__", true)
		gw.On("ClosePreview").Return(nil)

		require.NoError(t, newGitLogKind().Do(ctx, "preview", ac))
		gw.AssertNotCalled(t, "ShowCommit", mock.Anything, mock.Anything)
		gw.AssertExpectations(t)
	})

	t.Run("other commit replaces", func(t *testing.T) {
		ac, gw, _ := newActionContext(target)
		gw.On("PreviewBuffer").Return("easygit://__ffffff0__", true)
		gw.On("ClosePreview").Return(nil)
		gw.On("CurrentWindow").Return(7)
		gw.On("ShowCommit", "1a2b3c4", opts).Return(nil)
		gw.On("MarkPreview").Return(nil)
		gw.On("Command", "set nofen").Return(nil)
		gw.On("GotoWindow", 7).Return(nil)

		require.NoError(t, newGitLogKind().Do(ctx, "preview", ac))
		gw.AssertExpectations(t)
	})
}

func TestLogDiff(t *testing.T) {
	ac, gw, _ := newActionContext(logTarget("1a2b3c4"))
	gw.On("GotoWindow", 1001).Return(nil)
	gw.On("DiffThis", "1a2b3c4").Return(nil)

	require.NoError(t, newGitLogKind().Do(context.Background(), "delete", ac))
	gw.AssertExpectations(t)
}

func TestLogReset(t *testing.T) {
	ctx := context.Background()
	prompt := "Reset mode mixed|soft|hard [m/s/h]: "

	for answer, opt := range map[string]string{"m": "--mixed", "s": "--soft", "h": "--hard"} {
		t.Run(opt, func(t *testing.T) {
			ac, gw, _ := newActionContext(logTarget("1a2b3c4"))
			gw.On("Input", prompt, "").Return(answer, nil)
			gw.On("Reset", opt+" 1a2b3c4").Return(nil)
			require.NoError(t, newGitLogKind().Do(ctx, "reset", ac))
			gw.AssertExpectations(t)
		})
	}

	t.Run("invalid mode", func(t *testing.T) {
		ac, gw, _ := newActionContext(logTarget("1a2b3c4"))
		gw.On("Input", prompt, "").Return("x", nil)
		assert.ErrorIs(t, newGitLogKind().Do(ctx, "reset", ac), ErrActionSkipped)
		gw.AssertNotCalled(t, "Reset", mock.Anything)
	})
}

func TestFilesOpen(t *testing.T) {
	ac, gw, _ := newActionContext(schema.Candidate{Root: testRoot, Object: "abc123"})
	gw.On("OpenScratch", "git -C '/work/repo' cat-file -p abc123").Return(nil)

	require.NoError(t, newGitFilesKind().Do(context.Background(), "open", ac))
	gw.AssertExpectations(t)
}

func TestChangedOpen(t *testing.T) {
	ac, gw, _ := newActionContext(schema.Candidate{Path: "/work/repo/main.go", Line: 12})
	gw.On("OpenBuffer", "/work/repo/main.go", 12).Return(nil)

	require.NoError(t, newGitChangedKind().Do(context.Background(), "default", ac))
	gw.AssertExpectations(t)
}

func TestSplitRemoteBranch(t *testing.T) {
	remote, name := splitRemoteBranch("origin/feature/x")
	assert.Equal(t, "origin", remote)
	assert.Equal(t, "feature/x", name)

	remote, name = splitRemoteBranch("lonely")
	assert.Equal(t, "origin", remote)
	assert.Equal(t, "lonely", name)
}
