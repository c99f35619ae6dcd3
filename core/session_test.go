package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/poller"
	"github.com/huangsam/gitpick/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newStreamingRegistry wires a registry whose gitlog spawns stream.
func newStreamingRegistry(stream poller.Stream) *Registry {
	spawner := &poller.MockSpawner{}
	spawner.On("Spawn", mock.Anything, testRoot).Return(stream, nil)
	return NewRegistry(&contract.MockGitClient{}, nil, spawner)
}

func TestSession_PagesStreamingSource(t *testing.T) {
	ctx := context.Background()
	stream := &poller.MockStream{}
	stream.On("Poll", schema.DefaultInitialWait).Return(schema.PollResult{
		Stdout: []string{"* 1a2b3c4 - first (2 days ago) <A>"},
	}).Once()
	stream.On("Poll", schema.DefaultPollWait).Return(schema.PollResult{
		Stdout:   []string{"* 5d6e7f8 - second (3 days ago) <B>"},
		Finished: true,
	}).Once()

	s := NewSession(newStreamingRegistry(stream))
	cfg := &contract.Config{RepoPath: testRoot}

	first, err := s.Start(ctx, cfg, schema.GitLogSource, []string{"all"}, nil)
	require.NoError(t, err)
	assert.True(t, first.Pending)
	assert.Equal(t, schema.RegexpMatcher, first.Matcher)
	require.Len(t, first.Candidates, 1)
	assert.Equal(t, []string{first.QueryID}, s.Open())

	second, err := s.Continue(ctx, first.QueryID)
	require.NoError(t, err)
	assert.False(t, second.Pending)
	require.Len(t, second.Candidates, 1)
	assert.Equal(t, "5d6e7f8", second.Candidates[0].Commit)

	assert.Empty(t, s.Open())
	_, err = s.Continue(ctx, first.QueryID)
	assert.ErrorContains(t, err, "no open query")
}

func TestSession_NewQueryClosesPrevious(t *testing.T) {
	ctx := context.Background()
	stream := &poller.MockStream{}
	stream.On("Poll", mock.Anything).Return(schema.PollResult{
		Stdout: []string{"* 1a2b3c4 - first (2 days ago) <A>"},
	})
	stream.On("Kill").Return(nil)

	s := NewSession(newStreamingRegistry(stream))
	cfg := &contract.Config{RepoPath: testRoot, InitialWait: time.Millisecond}

	first, err := s.Start(ctx, cfg, schema.GitLogSource, nil, nil)
	require.NoError(t, err)
	second, err := s.Start(ctx, cfg, schema.GitLogSource, nil, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.QueryID, second.QueryID)
	assert.Equal(t, []string{second.QueryID}, s.Open())
	stream.AssertNumberOfCalls(t, "Kill", 1)

	s.CloseAll()
	assert.Empty(t, s.Open())
	stream.AssertNumberOfCalls(t, "Kill", 2)
}

func TestSession_FiltersEachBatch(t *testing.T) {
	ctx := context.Background()
	stream := &poller.MockStream{}
	stream.On("Poll", mock.Anything).Return(schema.PollResult{
		Stdout:   []string{"* 1a2b3c4 - fix parser (2 days ago) <A>", "* 5d6e7f8 - add poller (3 days ago) <B>"},
		Finished: true,
	})

	s := NewSession(newStreamingRegistry(stream))
	result, err := s.Start(ctx, &contract.Config{RepoPath: testRoot, Input: "poller"}, schema.GitLogSource, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "5d6e7f8", result.Candidates[0].Commit)
	assert.Empty(t, s.Open())
}

func TestSession_ConcurrentContinueAndClose(t *testing.T) {
	ctx := context.Background()
	stream := &poller.MockStream{}
	stream.On("Poll", mock.Anything).Return(schema.PollResult{
		Stdout: []string{"* 1a2b3c4 - first (2 days ago) <A>"},
	})
	stream.On("Kill").Return(nil)

	s := NewSession(newStreamingRegistry(stream))
	cfg := &contract.Config{RepoPath: testRoot, InitialWait: time.Millisecond, PollWait: time.Millisecond}

	first, err := s.Start(ctx, cfg, schema.GitLogSource, []string{"all"}, nil)
	require.NoError(t, err)
	require.True(t, first.Pending)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				// Calls racing the close fail cleanly
				result, err := s.Continue(ctx, first.QueryID)
				if err == nil {
					assert.Equal(t, first.QueryID, result.QueryID)
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Close(first.QueryID)
	}()
	wg.Wait()

	assert.Empty(t, s.Open())
	stream.AssertNumberOfCalls(t, "Kill", 1)
	_, err = s.Continue(ctx, first.QueryID)
	assert.ErrorContains(t, err, "no open query")
}
