package procreader

import (
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfShellNotAvailable skips the test if sh is not found in PATH.
func skipIfShellNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skipf("sh binary not found in PATH: %v", err)
	}
}

// drain polls p until it reports Finished, returning every delivered line.
func drain(t *testing.T, p *Process) (stdout, stderr []string, finishedCount int) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		res := p.Poll(50 * time.Millisecond)
		stdout = append(stdout, res.Stdout...)
		stderr = append(stderr, res.Stderr...)
		if res.Finished {
			finishedCount++
			return stdout, stderr, finishedCount
		}
	}
	t.Fatal("process did not finish in time")
	return nil, nil, 0
}

func TestStart_SpawnError(t *testing.T) {
	_, err := Start([]string{"gitpick-no-such-binary-xyz"}, "")
	require.Error(t, err)

	var spawnErr *SpawnError
	assert.True(t, errors.As(err, &spawnErr))
	assert.Equal(t, []string{"gitpick-no-such-binary-xyz"}, spawnErr.Argv)

	_, err = Start(nil, "")
	assert.True(t, errors.As(err, &spawnErr))
}

func TestPoll_NoTrailingNewline(t *testing.T) {
	skipIfShellNotAvailable(t)

	p, err := Start([]string{"sh", "-c", `printf 'a\nb\nc'`}, "")
	require.NoError(t, err)

	var lines []string
	for {
		res := p.Poll(time.Second)
		if !res.Finished {
			assert.NotContains(t, res.Stdout, "c", "partial line released before exit")
		}
		lines = append(lines, res.Stdout...)
		if res.Finished {
			break
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestPoll_StreamsInOrderWithoutDuplicates(t *testing.T) {
	skipIfShellNotAvailable(t)

	script := `for i in 1 2 3; do printf "line$i\npar"; sleep 0.05; printf "tial$i\n"; done`
	p, err := Start([]string{"sh", "-c", script}, "")
	require.NoError(t, err)

	stdout, stderr, finished := drain(t, p)
	assert.Equal(t, []string{"line1", "partial1", "line2", "partial2", "line3", "partial3"}, stdout)
	assert.Empty(t, stderr)
	assert.Equal(t, 1, finished)
}

func TestPoll_SeparatesStderr(t *testing.T) {
	skipIfShellNotAvailable(t)

	p, err := Start([]string{"sh", "-c", `echo out; echo err 1>&2; exit 3`}, "")
	require.NoError(t, err)

	stdout, stderr, _ := drain(t, p)
	assert.Equal(t, []string{"out"}, stdout)
	assert.Equal(t, []string{"err"}, stderr)

	var exitErr *exec.ExitError
	assert.True(t, errors.As(p.ExitErr(), &exitErr), "non-zero exit is still a normal finish")
}

func TestPoll_FinishedOnlyOnce(t *testing.T) {
	skipIfShellNotAvailable(t)

	p, err := Start([]string{"sh", "-c", `echo done`}, "")
	require.NoError(t, err)

	_, _, _ = drain(t, p)
	assert.True(t, p.Finished())

	res := p.Poll(10 * time.Millisecond)
	assert.True(t, res.Finished)
	assert.Empty(t, res.Stdout, "no line may be delivered twice")
	assert.Empty(t, res.Stderr)
}

func TestPoll_TimesOutWhileRunning(t *testing.T) {
	skipIfShellNotAvailable(t)

	p, err := Start([]string{"sh", "-c", `sleep 5`}, "")
	require.NoError(t, err)
	defer func() { _ = p.Kill() }()

	start := time.Now()
	res := p.Poll(30 * time.Millisecond)
	assert.False(t, res.Finished)
	assert.Empty(t, res.Stdout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestKill_Idempotent(t *testing.T) {
	skipIfShellNotAvailable(t)

	p, err := Start([]string{"sh", "-c", `printf 'x\npartial'; sleep 5`}, "")
	require.NoError(t, err)

	require.NoError(t, p.Kill())
	require.NoError(t, p.Kill())

	res := p.Poll(10 * time.Millisecond)
	assert.True(t, res.Finished)
	assert.Empty(t, res.Stdout, "killing discards buffered output")
}

func TestKill_AfterExit(t *testing.T) {
	skipIfShellNotAvailable(t)

	p, err := Start([]string{"sh", "-c", `true`}, "")
	require.NoError(t, err)
	_, _, _ = drain(t, p)

	assert.NoError(t, p.Kill())
	assert.NoError(t, p.Kill())
}

func TestStart_WorkingDirectory(t *testing.T) {
	skipIfShellNotAvailable(t)

	dir := t.TempDir()
	p, err := Start([]string{"sh", "-c", `pwd -P`}, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, p.Dir())

	stdout, _, _ := drain(t, p)
	require.Len(t, stdout, 1)
	assert.NotEmpty(t, stdout[0])
}
