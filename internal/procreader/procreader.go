// Package procreader runs one external command and hands out its output
// incrementally, one bounded poll at a time.
package procreader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/gitpick/schema"
)

// readChunkSize is the size of each pipe read.
const readChunkSize = 32 * 1024

// SpawnError is returned when the command cannot be launched at all,
// e.g. the executable is missing or not executable.
type SpawnError struct {
	Argv []string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot start %q: %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Process owns one spawned command and its undelivered output.
//
// Two pump goroutines copy stdout and stderr into line buffers; Poll is the
// only place where buffered lines are handed to the caller.
type Process struct {
	argv []string
	dir  string
	cmd  *exec.Cmd

	mu       sync.Mutex
	stdout   lineBuffer
	stderr   lineBuffer
	exited   bool // pipes drained and the process reaped
	finished bool // exit was reported by Poll
	killed   bool
	exitErr  error

	wake chan struct{}
}

// Start spawns argv in dir with stdout and stderr captured separately and
// stdin detached.
func Start(argv []string, dir string) (*Process, error) {
	if len(argv) == 0 {
		return nil, &SpawnError{Argv: argv, Err: errors.New("empty command")}
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{Argv: argv, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &SpawnError{Argv: argv, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Argv: argv, Err: err}
	}

	p := &Process{
		argv: argv,
		dir:  dir,
		cmd:  cmd,
		wake: make(chan struct{}, 1),
	}

	var pumps sync.WaitGroup
	pumps.Add(2)
	go p.pump(stdout, &p.stdout, &pumps)
	go p.pump(stderr, &p.stderr, &pumps)
	go p.reap(&pumps)

	return p, nil
}

// Argv returns the command line the process was started with.
func (p *Process) Argv() []string {
	return p.argv
}

// Dir returns the working directory of the process.
func (p *Process) Dir() string {
	return p.dir
}

// pump copies one pipe into buf until EOF.
func (p *Process) pump(r io.Reader, buf *lineBuffer, wg *sync.WaitGroup) {
	defer wg.Done()
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			p.mu.Lock()
			if !p.killed {
				buf.write(chunk[:n])
			}
			p.mu.Unlock()
			p.signal()
		}
		if err != nil {
			return
		}
	}
}

// reap waits for both pipes to drain, then for the process to exit.
// Wait must not run before the pipes are fully read.
func (p *Process) reap(pumps *sync.WaitGroup) {
	pumps.Wait()
	err := p.cmd.Wait()

	p.mu.Lock()
	p.exited = true
	p.exitErr = err
	p.mu.Unlock()
	p.signal()
}

// signal wakes a pending Poll without blocking.
func (p *Process) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Poll waits up to maxWait for new complete lines or process exit and returns
// the lines produced since the previous call. Once exit is observed the
// trailing partial lines are flushed and Finished is set. Later calls return
// an empty finished result.
func (p *Process) Poll(maxWait time.Duration) schema.PollResult {
	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	for {
		if res, ok := p.collect(false); ok {
			return res
		}
		select {
		case <-p.wake:
		case <-timer.C:
			res, _ := p.collect(true)
			return res
		}
	}
}

// collect returns pending output. Without force it reports ok only when there
// is something worth returning.
func (p *Process) collect(force bool) (schema.PollResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.finished || p.killed:
		return schema.PollResult{Finished: true}, true
	case p.exited:
		p.finished = true
		return schema.PollResult{
			Stdout:   p.stdout.flush(),
			Stderr:   p.stderr.flush(),
			Finished: true,
		}, true
	case force || p.stdout.ready() || p.stderr.ready():
		return schema.PollResult{
			Stdout: p.stdout.take(),
			Stderr: p.stderr.take(),
		}, true
	}
	return schema.PollResult{}, false
}

// Kill terminates the process and discards undelivered output.
// It is safe to call more than once and after the process exited.
func (p *Process) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.killed {
		return nil
	}
	p.killed = true
	p.stdout.reset()
	p.stderr.reset()

	if p.exited || p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill %q: %w", strings.Join(p.argv, " "), err)
	}
	return nil
}

// Finished reports whether Poll already delivered the end of the stream.
func (p *Process) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finished || p.killed
}

// ExitErr returns the error from waiting on the process, nil until it exits.
// A non-zero exit status shows up here as an *exec.ExitError.
func (p *Process) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}
