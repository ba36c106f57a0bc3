package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_SeedsInitiatorAndActive(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	s := m.Create("writer")
	assert.Equal(t, StatusActive, s.Status)
	assert.Equal(t, []string{"writer"}, s.Agents)
	assert.NotEmpty(t, s.ID)
}

func TestAddAgent_IsIdempotent(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	s := m.Create("writer")

	require.NoError(t, m.AddAgent(s.ID, "reviewer"))
	require.NoError(t, m.AddAgent(s.ID, "reviewer"))

	got, err := m.GetSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"writer", "reviewer"}, got.Agents)
}

func TestAddAgent_NotFound(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	assert.Error(t, m.AddAgent("ghost", "writer"))
}

func TestGetActiveSessions_NewestFirst(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	a := m.Create("writer")
	time.Sleep(2 * time.Millisecond)
	b := m.Create("reviewer")

	active := m.GetActiveSessions()
	require.Len(t, active, 2)
	assert.Equal(t, b.ID, active[0].ID)
	assert.Equal(t, a.ID, active[1].ID)
}

func TestGetActiveSessionsForAgent_Filters(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	m.Create("writer")
	b := m.Create("reviewer")

	got := m.GetActiveSessionsForAgent("reviewer")
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}

func TestCompleteSession_IdempotentNoOp(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	s := m.Create("writer")

	require.NoError(t, m.CompleteSession(s.ID))
	require.NoError(t, m.CompleteSession(s.ID))

	got, _ := m.GetSession(s.ID)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestFailSession_StoresErrorAndStack(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	s := m.Create("writer")

	require.NoError(t, m.FailSession(s.ID, "boom", "stack trace"))

	got, _ := m.GetSession(s.ID)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "boom", got.Metadata["error"])
	assert.Equal(t, "stack trace", got.Metadata["stack"])
}

func TestUpdateMetadata_Merges(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	s := m.Create("writer")

	require.NoError(t, m.UpdateMetadata(s.ID, map[string]any{"a": 1}))
	require.NoError(t, m.UpdateMetadata(s.ID, map[string]any{"b": 2}))

	got, _ := m.GetSession(s.ID)
	assert.Equal(t, 1, got.Metadata["a"])
	assert.Equal(t, 2, got.Metadata["b"])
}

func TestEvict_CapsToMaxSize(t *testing.T) {
	m := NewManager(3, zerolog.Nop())
	for i := 0; i < 5; i++ {
		m.Create("writer")
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 3, m.GetStats().Total)
}

func TestCleanupOldSessions_OnlyNonActiveAndOld(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	active := m.Create("writer")
	completed := m.Create("reviewer")
	require.NoError(t, m.CompleteSession(completed.ID))

	m.mu.Lock()
	m.sessions[completed.ID].UpdatedAt = time.Now().AddDate(0, 0, -10)
	m.mu.Unlock()

	removed := m.CleanupOldSessions(7)
	assert.Equal(t, 1, removed)

	_, err := m.GetSession(active.ID)
	assert.NoError(t, err)
	_, err = m.GetSession(completed.ID)
	assert.Error(t, err)
}

func TestClearAll_EmptiesMap(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	m.Create("writer")
	m.ClearAll()
	assert.Equal(t, 0, m.GetStats().Total)
}

func TestGetStats_CountsByStatus(t *testing.T) {
	m := NewManager(0, zerolog.Nop())
	a := m.Create("writer")
	b := m.Create("reviewer")
	require.NoError(t, m.CompleteSession(a.ID))
	require.NoError(t, m.FailSession(b.ID, "err", ""))

	stats := m.GetStats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Active)
}
