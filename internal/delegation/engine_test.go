package delegation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automatosx/internal/events"
	"automatosx/internal/execctx"
	"automatosx/internal/profile"
	"automatosx/internal/storage"
)

const fromProfileYAML = `
role: Lead
description: Coordinates work
systemPrompt: You are a lead.
orchestration:
  canDelegate: true
  canDelegateTo: [writer]
  maxDelegationDepth: 2
`

const toProfileYAML = `
role: Writer
description: Writes things
systemPrompt: You are a writer.
`

func newTestProfiles(t *testing.T) *profile.Store {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lead.yaml"), []byte(fromProfileYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "writer.yaml"), []byte(toProfileYAML), 0o644))
	s := profile.NewStore(dir, "", zerolog.Nop())
	t.Cleanup(func() { s.Close() })
	return s
}

type fakeRunner struct {
	outcome *RunOutcome
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, agentName, task string, opts execctx.Options) (*RunOutcome, error) {
	return f.outcome, f.err
}

func TestDelegate_SucceedsAndSurfacesOutcome(t *testing.T) {
	e := NewEngine(newTestProfiles(t), &fakeRunner{outcome: &RunOutcome{Response: "done", Workspace: "/ws"}}, nil, nil, zerolog.Nop())

	r, err := e.Delegate(context.Background(), Request{FromAgent: "lead", ToAgent: "writer", Task: "write something"})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, "done", r.Response)
	assert.Equal(t, "/ws", r.Outputs.Workspace)
	assert.NotEmpty(t, r.DelegationID)
}

func TestDelegate_UnauthorizedWhenCanDelegateFalse(t *testing.T) {
	e := NewEngine(newTestProfiles(t), &fakeRunner{}, nil, nil, zerolog.Nop())

	r, err := e.Delegate(context.Background(), Request{FromAgent: "writer", ToAgent: "lead", Task: "x"})
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, r.Status)
	assert.Equal(t, ReasonUnauthorized, r.Reason)
}

func TestDelegate_UnauthorizedWhenTargetNotWhitelisted(t *testing.T) {
	e := NewEngine(newTestProfiles(t), &fakeRunner{}, nil, nil, zerolog.Nop())

	r, err := e.Delegate(context.Background(), Request{FromAgent: "lead", ToAgent: "lead", Task: "x"})
	require.NoError(t, err)
	assert.Equal(t, ReasonUnauthorized, r.Reason)
}

func TestDelegate_CycleRejected(t *testing.T) {
	e := NewEngine(newTestProfiles(t), &fakeRunner{}, nil, nil, zerolog.Nop())

	r, err := e.Delegate(context.Background(), Request{FromAgent: "lead", ToAgent: "writer", Task: "x", DelegationChain: []string{"writer"}})
	require.NoError(t, err)
	assert.Equal(t, ReasonCycle, r.Reason)
}

func TestDelegate_MaxDepthRejected(t *testing.T) {
	e := NewEngine(newTestProfiles(t), &fakeRunner{}, nil, nil, zerolog.Nop())

	r, err := e.Delegate(context.Background(), Request{FromAgent: "lead", ToAgent: "writer", Task: "x", DelegationChain: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, ReasonMaxDepth, r.Reason)
}

func TestDelegate_NotFoundWhenTargetMissing(t *testing.T) {
	// A profile store whose lead whitelists an agent with no backing file.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lead.yaml"), []byte(`
role: Lead
description: Coordinates work
systemPrompt: You are a lead.
orchestration:
  canDelegate: true
  canDelegateTo: [ghost]
`), 0o644))
	ghostStore := profile.NewStore(dir, "", zerolog.Nop())
	t.Cleanup(func() { ghostStore.Close() })
	e := NewEngine(ghostStore, &fakeRunner{}, nil, nil, zerolog.Nop())

	r, err := e.Delegate(context.Background(), Request{FromAgent: "lead", ToAgent: "ghost", Task: "x"})
	require.NoError(t, err)
	assert.Equal(t, ReasonNotFound, r.Reason)
}

func TestDelegate_ExecutionFailureRecorded(t *testing.T) {
	e := NewEngine(newTestProfiles(t), &fakeRunner{err: errors.New("boom")}, nil, nil, zerolog.Nop())

	r, err := e.Delegate(context.Background(), Request{FromAgent: "lead", ToAgent: "writer", Task: "x"})
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, r.Status)
	assert.Equal(t, ReasonExecutionFailed, r.Reason)
}

func TestDelegate_EmitsStartedAndCompleteEvents(t *testing.T) {
	bus := events.NewBus()
	var kinds []events.Kind
	bus.Attach(events.SinkFunc(func(e events.Event) { kinds = append(kinds, e.Kind) }))

	e := NewEngine(newTestProfiles(t), &fakeRunner{outcome: &RunOutcome{Response: "done"}}, nil, bus, zerolog.Nop())
	_, err := e.Delegate(context.Background(), Request{FromAgent: "lead", ToAgent: "writer", Task: "write something"})
	require.NoError(t, err)

	assert.Equal(t, []events.Kind{events.DelegationStarted, events.DelegationComplete}, kinds)
}

func TestDelegate_PersistsAuditRecord(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "delegation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tracker := NewTracker(db)
	e := NewEngine(newTestProfiles(t), &fakeRunner{outcome: &RunOutcome{Response: "done"}}, tracker, nil, zerolog.Nop())

	r, err := e.Delegate(context.Background(), Request{FromAgent: "lead", ToAgent: "writer", Task: "write something"})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM delegate_invocations WHERE id = ?", r.DelegationID).Scan(&count))
	assert.Equal(t, 1, count)
}
