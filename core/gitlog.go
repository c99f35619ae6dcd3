package core

import (
	"context"
	"regexp"

	"github.com/huangsam/gitpick/core/parse"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/poller"
	"github.com/huangsam/gitpick/schema"
)

// commitKeyPattern accepts abbreviated or full commit hashes.
var commitKeyPattern = regexp.MustCompile(`^[0-9A-Fa-f]{4,40}$`)

// GitLogSource streams `git log --graph` through a poller.
type GitLogSource struct {
	spawner poller.Spawner
	kind    *Kind
}

var (
	_ Source         = &GitLogSource{} // Compile-time check
	_ TargetResolver = &GitLogSource{} // Compile-time check
)

// NewGitLogSource creates the gitlog source.
func NewGitLogSource(spawner poller.Spawner) *GitLogSource {
	if spawner == nil {
		spawner = poller.ProcessSpawner{}
	}
	return &GitLogSource{spawner: spawner, kind: newGitLogKind()}
}

// Name implements Source.
func (s *GitLogSource) Name() schema.SourceName { return schema.GitLogSource }

// Kind implements Source.
func (s *GitLogSource) Kind() *Kind { return s.kind }

// DefaultMatcher implements Source.
func (s *GitLogSource) DefaultMatcher() schema.MatcherName { return schema.RegexpMatcher }

// Open implements Source. The first argument "all" lists the whole history,
// otherwise a normal file buffer restricts the log to that file. The second
// argument is the pattern when no input is given.
func (s *GitLogSource) Open(_ context.Context, qc *QueryContext) (Query, error) {
	if qc.Pattern == "" {
		qc.Pattern = qc.Arg(1)
	}
	if qc.Root == "" {
		return emptyQuery(), nil
	}

	meta := s.meta(qc)
	cmd := poller.Command{Argv: logArgv(qc, meta.File), Dir: qc.Root}
	qc.message(cmd.String())

	p := poller.New(cmd, s.spawner, func(line string) (schema.Candidate, bool) {
		return parse.LogLine(line, meta)
	}, qc.Sink)
	if qc.InitialWait > 0 {
		p.InitialWait = qc.InitialWait
	}
	if qc.PollWait > 0 {
		p.PollWait = qc.PollWait
	}
	return &logQuery{poller: p}, nil
}

// ResolveTarget implements TargetResolver.
func (s *GitLogSource) ResolveTarget(qc *QueryContext, key string) (schema.Candidate, bool) {
	if qc.Root == "" || !commitKeyPattern.MatchString(key) {
		return schema.Candidate{}, false
	}
	meta := s.meta(qc)
	return schema.Candidate{
		Word:   key,
		Source: schema.GitLogSource,
		Root:   meta.Root,
		Commit: key,
		GitDir: meta.GitDir,
		File:   meta.File,
		WinID:  meta.WinID,
	}, true
}

// meta computes the metadata attached to every candidate of the query.
func (s *GitLogSource) meta(qc *QueryContext) parse.LogMeta {
	meta := parse.LogMeta{
		Root:   qc.Root,
		GitDir: contract.GitDir(qc.Root),
		WinID:  qc.WindowID,
	}
	if qc.Arg(0) != "all" && qc.Buffer != "" && qc.BufType == "" {
		meta.File = contract.RelativePath(qc.Root, qc.Buffer)
	}
	return meta
}

// logArgv builds the git log command line.
func logArgv(qc *QueryContext, file string) []string {
	opts := qc.LogOptions
	if len(opts) == 0 {
		opts = schema.DefaultLogOptions
	}
	argv := []string{"git", "-C", qc.Root, "--no-pager", "log"}
	argv = append(argv, opts...)
	if file != "" {
		argv = append(argv, "--", file)
	}
	return argv
}

// logQuery adapts a poller to the Query interface.
type logQuery struct {
	poller *poller.Poller
	done   bool
}

var _ Query = &logQuery{} // Compile-time check

// Gather implements Query.
func (q *logQuery) Gather(ctx context.Context) ([]schema.Candidate, bool, error) {
	if q.done {
		return nil, false, nil
	}
	candidates, more := q.poller.Request(ctx)
	if !more {
		q.done = true
	}
	return candidates, more, ctx.Err()
}

// Close implements Query.
func (q *logQuery) Close() {
	q.poller.Cancel()
	q.done = true
}
