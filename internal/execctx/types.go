// Package execctx implements the Context Builder (spec §4.9): it
// resolves an agent profile, its abilities, its provider, its workspace,
// and any session/delegation/memory context into one immutable
// ExecutionContext per task.
package execctx

import (
	"time"

	"automatosx/internal/memory"
	"automatosx/internal/profile"
	"automatosx/internal/provider"
)

// Orchestration carries delegation metadata for agents that can delegate.
type Orchestration struct {
	PeerAgents      []string
	SharedWorkspace string
	DelegationChain []string
}

// Options configures a single CreateContext call.
type Options struct {
	SessionID       string
	SkipMemory      bool
	DelegationChain []string
	TopK            int
}

// ExecutionContext is the immutable bundle the Stage Executor, Delegation
// Engine, and Parallel Agent Executor all operate against. Built once per
// task; never mutated afterward.
type ExecutionContext struct {
	Agent          *profile.Profile
	Task           string
	Memory         []memory.Entry
	ProjectDir     string
	WorkingDir     string
	AgentWorkspace string
	Provider       provider.Adapter
	Abilities      string
	CreatedAt      time.Time
	Orchestration  *Orchestration
	SessionID      string
}
