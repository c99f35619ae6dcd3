package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/huangsam/gitpick/core"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/editor"
	"github.com/huangsam/gitpick/internal/outwriter"
	"github.com/huangsam/gitpick/schema"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newSourceCommand creates the command that lists the candidates of a source,
// with one subcommand per action of the source's kind.
func newSourceCommand(name schema.SourceName, use, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Long:    long,
		Args:    cobra.ArbitraryArgs,
		PreRunE: sharedSetupWrapper,
		Run: func(_ *cobra.Command, args []string) {
			result, err := core.ExecuteSource(rootCtx, cfg, newRegistry(), name, args, printMessage)
			if err != nil {
				contract.LogFatal(fmt.Sprintf("Cannot gather %s candidates", name), err)
			}
			if err := outwriter.NewOutWriter(core.CandidateKey).WritePick(result, cfg); err != nil {
				contract.LogFatal("Cannot write candidates", err)
			}
		},
	}

	src, err := newRegistry().Get(name)
	if err != nil {
		contract.LogFatal("Cannot register source", err)
	}
	kind := src.Kind()
	actions := append([]string{"default"}, kind.Actions()...)
	for _, action := range actions {
		cmd.AddCommand(newActionCommand(name, action, kind))
	}
	return cmd
}

// newActionCommand creates the command that runs one action on candidates selected by key.
func newActionCommand(name schema.SourceName, action string, kind *core.Kind) *cobra.Command {
	short := fmt.Sprintf("Run %s on %s candidates", action, name)
	if action == "default" {
		short = fmt.Sprintf("Run the default action (%s) on %s candidates", kind.DefaultAction, name)
	}
	return &cobra.Command{
		Use:     action + " <key>...",
		Short:   short,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: sharedSetupWrapper,
		Run: func(cmd *cobra.Command, keys []string) {
			sourceArgs, _ := cmd.Flags().GetStringArray("arg")
			runAction(name, action, keys, sourceArgs)
		},
	}
}

// runAction runs an action and writes the editor script it produced.
// The script is written even when the action fails so that its messages reach the user.
func runAction(name schema.SourceName, action string, keys []string, sourceArgs []string) {
	// Prompts are read from the terminal only; otherwise they take their defaults.
	var script bytes.Buffer
	state := editor.State{WindowID: cfg.WindowID, PreviewBuffer: cfg.Preview}
	gw := editor.NewScriptGateway(&script, os.Stderr, nil, cfg.Answers, state)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		gw = editor.NewScriptGateway(&script, os.Stderr, os.Stdin, cfg.Answers, state)
	}

	deps := core.ActionDeps{Editor: gw, Git: contract.NewLocalGitClient(), Journal: journalStore()}
	result, err := core.ExecuteAction(rootCtx, cfg, newRegistry(), deps, name, action, keys, sourceArgs)
	if result == nil {
		contract.LogFatal(fmt.Sprintf("Cannot run %s action", name), err)
	}
	if werr := gw.Err(); werr != nil {
		contract.LogFatal("Cannot render editor script", werr)
	}
	if werr := outwriter.NewOutWriter(core.CandidateKey).WriteAction(result, script.String(), cfg); werr != nil {
		contract.LogFatal("Cannot write action result", werr)
	}
	if err != nil {
		contract.LogFatal(fmt.Sprintf("Action %s failed", result.Action), err)
	}
}

var branchCmd = newSourceCommand(schema.GitBranchSource, "branch",
	"List local and remote branches.",
	`List every branch from 'git branch -a'. The current branch is marked.

Actions:
  checkout (default), delete, merge, rebase

Examples:
  # List branches matching "feat"
  gitpick branch --input feat

  # Check out a branch
  gitpick branch checkout feature/login

  # Force delete a local branch without prompting
  gitpick branch delete --answer y feature/old`)

var statusCmd = newSourceCommand(schema.GitStatusSource, "status",
	"List changed, staged and untracked files.",
	`List every entry of 'git status --porcelain -uall' with its staged and work tree state.

Actions:
  open (default), add, delete/diff, reset, commit

Examples:
  # Stage two files
  gitpick status add main.go cmd/root.go

  # Diff a staged file against HEAD
  gitpick status diff --answer y main.go`)

var logCmd = newSourceCommand(schema.GitLogSource, "log [all] [pattern]",
	"Stream commits of the current file or the whole repository.",
	`Stream 'git log' for the current buffer. Pass "all" to log the whole repository.
Candidates arrive while git is still running; the command waits for the whole log.

Actions:
  open (default), preview, delete/diff, reset

Examples:
  # Log the whole repository
  gitpick log all

  # Log the file being edited
  gitpick log --buffer main.go

  # Soft reset to a commit
  gitpick log reset --arg all --answer s 1a2b3c4`)

var changedCmd = newSourceCommand(schema.GitChangedSource, "changed",
	"List changed lines of the current buffer.",
	`List every added or modified line of the current buffer.
Hunks come from the editor through --hunks, or from 'git diff -U0' otherwise.

Examples:
  gitpick changed --buffer main.go
  gitpick changed --buffer main.go --hunks "10,0,11,2;40,1,42,1"`)

var filesCmd = newSourceCommand(schema.GitFilesSource, "files [ref]",
	"List every file of a tree.",
	`List the blobs of 'git ls-tree -r' at a ref (HEAD by default).
Listings are cached by tree hash in the configured cache backend.

Examples:
  gitpick files
  gitpick files v1.2.0
  gitpick files open --arg v1.2.0 README.md`)
