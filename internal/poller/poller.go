// Package poller turns a streaming external process into candidate batches
// for a caller that re-invokes it until the stream ends.
package poller

import (
	"context"
	"strings"
	"time"

	"github.com/huangsam/gitpick/schema"
)

// Stream is a running process that can be polled for new output.
type Stream interface {
	Poll(maxWait time.Duration) schema.PollResult
	Kill() error
}

// Spawner starts streams.
type Spawner interface {
	Spawn(argv []string, dir string) (Stream, error)
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(argv []string, dir string) (Stream, error)

// Spawn implements Spawner.
func (f SpawnerFunc) Spawn(argv []string, dir string) (Stream, error) {
	return f(argv, dir)
}

// LineParser turns one output line into a candidate. Lines it rejects are dropped.
type LineParser func(line string) (schema.Candidate, bool)

// MessageSink receives informational messages such as stderr lines.
type MessageSink func(msg string)

// Command is the process a poller runs for its query.
type Command struct {
	Argv []string
	Dir  string
}

// String renders the command line for messages.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Poller drives one query: it is Idle until the first Request, Streaming while
// a process is alive, and Idle again once the stream is finished or cancelled.
// A Poller is not safe for concurrent use.
type Poller struct {
	cmd     Command
	spawner Spawner
	parse   LineParser
	sink    MessageSink

	// InitialWait bounds the first poll after spawning.
	InitialWait time.Duration
	// PollWait bounds every later poll.
	PollWait time.Duration

	stream    Stream
	stopWatch func() bool
}

// New creates an idle poller.
func New(cmd Command, spawner Spawner, parse LineParser, sink MessageSink) *Poller {
	if sink == nil {
		sink = func(string) {}
	}
	return &Poller{
		cmd:         cmd,
		spawner:     spawner,
		parse:       parse,
		sink:        sink,
		InitialWait: schema.DefaultInitialWait,
		PollWait:    schema.DefaultPollWait,
	}
}

// Streaming reports whether a process is currently owned by the poller.
func (p *Poller) Streaming() bool {
	return p.stream != nil
}

// Request returns the candidates parsed since the previous call and whether
// more are pending. A spawn failure yields no candidates and nothing pending.
// When ctx is done the running process is killed.
func (p *Poller) Request(ctx context.Context) ([]schema.Candidate, bool) {
	if ctx.Err() != nil {
		p.Cancel()
		return nil, false
	}

	var res schema.PollResult
	if p.stream == nil {
		stream, err := p.spawner.Spawn(p.cmd.Argv, p.cmd.Dir)
		if err != nil {
			p.sink(err.Error())
			return nil, false
		}
		p.stream = stream
		p.stopWatch = context.AfterFunc(ctx, func() { _ = stream.Kill() })
		res = stream.Poll(p.InitialWait)
	} else {
		res = p.stream.Poll(p.PollWait)
	}

	for _, line := range res.Stderr {
		p.sink(line)
	}

	candidates := make([]schema.Candidate, 0, len(res.Stdout))
	for _, line := range res.Stdout {
		if c, ok := p.parse(line); ok {
			candidates = append(candidates, c)
		}
	}

	if res.Finished {
		p.release()
	}
	return candidates, !res.Finished
}

// Cancel kills the running process, if any, and returns the poller to Idle.
func (p *Poller) Cancel() {
	if p.stream == nil {
		return
	}
	if err := p.stream.Kill(); err != nil {
		p.sink(err.Error())
	}
	p.release()
}

// release forgets the stream without killing it.
func (p *Poller) release() {
	if p.stopWatch != nil {
		p.stopWatch()
		p.stopWatch = nil
	}
	p.stream = nil
}
