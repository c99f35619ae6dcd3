// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/gitpick/schema"
)

// GitClient defines the git operations needed by the blocking sources and the kinds.
// This allows the core logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command inside repoPath and returns its stdout.
	// Actions use it for mutating commands such as checkout or reset.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Repository Resolution ---

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetTreeHash resolves ref to the hash of its root tree object.
	GetTreeHash(ctx context.Context, repoPath string, ref string) (string, error)

	// --- Listings ---

	// GetStatus returns the raw `git status --porcelain -uall` output.
	GetStatus(ctx context.Context, repoPath string) ([]byte, error)

	// ListBranches returns the raw `git branch --no-color -a` output.
	ListBranches(ctx context.Context, repoPath string) ([]byte, error)

	// ListTree returns the raw recursive `git ls-tree` output for ref.
	ListTree(ctx context.Context, repoPath string, ref string) ([]byte, error)

	// GetFileDiff returns the zero-context diff of a worktree file against the index.
	GetFileDiff(ctx context.Context, repoPath string, path string) ([]byte, error)

	// CatFile returns the contents of a git object.
	CatFile(ctx context.Context, repoPath string, object string) ([]byte, error)
}

// ShowOptions controls how a commit is displayed by the editor.
type ShowOptions struct {
	GitDir string // Path to the .git directory
	File   string // Restrict the commit view to this file when not All
	All    bool   // Show the whole commit
	Edit   string // Split command used to open the view, empty for the default
}

// EditorGateway is every effect an action can have on the hosting editor.
// One method per effect keeps actions testable against a mock.
type EditorGateway interface {
	// Message shows an informational line to the user.
	Message(msg string)

	// Input prompts the user and returns the answer, or def when none is given.
	Input(prompt string, def string) (string, error)

	// Command runs a raw ex command.
	Command(ex string) error

	// OpenBuffer edits path and moves the cursor to line when line > 0.
	OpenBuffer(path string, line int) error

	// OpenScratch opens a new scratch buffer filled with the output of a shell command.
	OpenScratch(shellCmd string) error

	// ShowCommit displays a commit.
	ShowCommit(commit string, opts ShowOptions) error

	// DiffThis diffs the current buffer against commit.
	DiffThis(commit string) error

	// DiffShow opens a diff for the given git diff arguments using the edit command.
	DiffShow(args string, edit string) error

	// Commit starts an interactive commit with the given arguments.
	Commit(args string) error

	// Reset runs an interactive reset with the given arguments.
	Reset(args string) error

	// RemoveFile deletes a file from disk through the editor.
	RemoveFile(path string) error

	// ReloadBuffers re-reads every buffer from disk.
	ReloadBuffers() error

	// CurrentWindow returns the id of the focused window.
	CurrentWindow() int

	// GotoWindow focuses a window by id.
	GotoWindow(id int) error

	// PreviewBuffer returns the buffer name shown in the preview window, if one is open.
	PreviewBuffer() (string, bool)

	// ClosePreview closes the preview window.
	ClosePreview() error

	// MarkPreview turns the current window into the preview window.
	MarkPreview() error
}

// CacheManager defines the interface for managing stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetTreeStore() CacheStore
	GetJournalStore() JournalStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// JournalStore records every action run against a repository.
type JournalStore interface {
	// Record persists one journal entry.
	Record(entry schema.JournalEntry) error

	// List returns the most recent entries, newest first. limit <= 0 means all.
	List(limit int) ([]schema.JournalEntry, error)

	// GetStatus returns status information about the journal store
	GetStatus() (schema.JournalStatus, error)

	// Close closes the underlying connection
	Close() error
}
