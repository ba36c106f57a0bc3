package parallel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AllAgentsSucceed(t *testing.T) {
	e := NewExecutor(func(ctx context.Context, agent string) error { return nil }, 4, false)

	r, err := e.Run(context.Background(), []AgentSpec{
		{Name: "a"},
		{Name: "b", Dependencies: []string{"a"}},
	})
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.ElementsMatch(t, []string{"a", "b"}, r.CompletedAgents)
	assert.Empty(t, r.SkippedAgents)
}

func TestRun_StopsSchedulingFurtherLevelsOnFailure(t *testing.T) {
	runner := func(ctx context.Context, agent string) error {
		if agent == "a" {
			return errors.New("boom")
		}
		return nil
	}
	e := NewExecutor(runner, 4, false)

	r, err := e.Run(context.Background(), []AgentSpec{
		{Name: "a"},
		{Name: "b", Dependencies: []string{"a"}},
	})
	require.NoError(t, err)
	assert.False(t, r.Success)
	assert.Equal(t, []string{"a"}, r.FailedAgents)
	assert.Equal(t, []string{"b"}, r.SkippedAgents)
}

func TestRun_ContinuesOnFailureRunsEverything(t *testing.T) {
	runner := func(ctx context.Context, agent string) error {
		if agent == "a" {
			return errors.New("boom")
		}
		return nil
	}
	e := NewExecutor(runner, 4, true)

	r, err := e.Run(context.Background(), []AgentSpec{
		{Name: "a"},
		{Name: "b", Dependencies: []string{"a"}},
	})
	require.NoError(t, err)
	assert.False(t, r.Success)
	assert.Equal(t, []string{"a"}, r.FailedAgents)
	assert.Equal(t, []string{"b"}, r.CompletedAgents)
	assert.Empty(t, r.SkippedAgents)
}

func TestRun_SameLevelAgentsRunConcurrently(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	runner := func(ctx context.Context, agent string) error {
		mu.Lock()
		seen[agent] = true
		mu.Unlock()
		return nil
	}
	e := NewExecutor(runner, 4, false)

	r, err := e.Run(context.Background(), []AgentSpec{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Len(t, seen, 3)
}

func TestRun_PropagatesDAGBuildErrors(t *testing.T) {
	e := NewExecutor(func(ctx context.Context, agent string) error { return nil }, 4, false)

	_, err := e.Run(context.Background(), []AgentSpec{{Name: "a", Dependencies: []string{"ghost"}}})
	assert.Error(t, err)
}

func TestRun_TimelineHasOneEntryPerAgent(t *testing.T) {
	runner := func(ctx context.Context, agent string) error {
		if agent == "a" {
			return errors.New("boom")
		}
		return nil
	}
	e := NewExecutor(runner, 4, false)

	r, err := e.Run(context.Background(), []AgentSpec{
		{Name: "a"},
		{Name: "b", Dependencies: []string{"a"}},
		{Name: "c", Dependencies: []string{"a"}},
	})
	require.NoError(t, err)
	assert.Len(t, r.Timeline, 3)
}
