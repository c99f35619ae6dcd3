package core

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/poller"
	"github.com/huangsam/gitpick/schema"
)

// QueryContext is everything a source needs to open one query.
type QueryContext struct {
	ID    uuid.UUID
	Args  []string
	Input string

	// Pattern filters candidates. Sources may derive it from Args when Input is empty.
	Pattern string

	Cwd      string
	Root     string // Repository root, empty outside a repository
	Buffer   string // Absolute path of the current buffer
	BufType  string
	WindowID int
	Hunks    []schema.Hunk

	InitialWait time.Duration
	PollWait    time.Duration
	LogOptions  []string
	FilesRef    string

	// Sink receives informational messages such as the spawned command line.
	Sink poller.MessageSink
}

// NewQueryContext builds a query context from the validated configuration.
func NewQueryContext(cfg *contract.Config, args []string, sink poller.MessageSink) *QueryContext {
	if sink == nil {
		sink = func(string) {}
	}
	return &QueryContext{
		ID:          uuid.New(),
		Args:        slices.Clone(args),
		Input:       cfg.Input,
		Pattern:     cfg.Input,
		Cwd:         cfg.Cwd,
		Root:        cfg.RepoPath,
		Buffer:      cfg.Buffer,
		BufType:     cfg.BufType,
		WindowID:    cfg.WindowID,
		Hunks:       slices.Clone(cfg.Hunks),
		InitialWait: cfg.InitialWait,
		PollWait:    cfg.PollWait,
		LogOptions:  slices.Clone(cfg.LogOptions),
		FilesRef:    cfg.FilesRef,
		Sink:        sink,
	}
}

// Arg returns the positional argument at i, or "" when absent.
func (qc *QueryContext) Arg(i int) string {
	if i < 0 || i >= len(qc.Args) {
		return ""
	}
	return qc.Args[i]
}

// message forwards msg to the sink when one is set.
func (qc *QueryContext) message(msg string) {
	if qc.Sink != nil {
		qc.Sink(msg)
	}
}
