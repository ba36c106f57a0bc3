package execctx

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"automatosx/internal/ability"
	"automatosx/internal/apperr"
	"automatosx/internal/memory"
	"automatosx/internal/profile"
	"automatosx/internal/provider"
	"automatosx/internal/session"
	"automatosx/internal/workspace"
)

// DefaultTopK is used when Options.TopK is unset.
const DefaultTopK = 5

// Builder assembles an ExecutionContext per call, per spec §4.9. It never
// holds per-call state; every dependency is resolved fresh from the
// shared stores it wraps.
type Builder struct {
	Profiles  *profile.Store
	Abilities *ability.Store
	Providers *provider.Registry
	Resolver  *workspace.Resolver
	Sessions  *session.Manager
	Memory    memory.Capability
	Log       zerolog.Logger

	// workingDir is the process's actual current working directory,
	// captured once at construction. Unlike ProjectDir and AgentWorkspace,
	// it is never rooted under the resolved project root.
	workingDir string
}

// NewBuilder wires the Context Builder's dependencies. Memory may be nil,
// in which case CreateContext skips memory retrieval entirely.
func NewBuilder(profiles *profile.Store, abilities *ability.Store, providers *provider.Registry, resolver *workspace.Resolver, sessions *session.Manager, mem memory.Capability, log zerolog.Logger) *Builder {
	wd, err := os.Getwd()
	if err != nil {
		log.Warn().Err(err).Msg("context builder: os.Getwd failed, falling back to \".\"")
		wd = "."
	}
	return &Builder{
		Profiles:   profiles,
		Abilities:  abilities,
		Providers:  providers,
		Resolver:   resolver,
		Sessions:   sessions,
		Memory:     mem,
		Log:        log,
		workingDir: wd,
	}
}

// CreateContext resolves the agent, its abilities, provider, workspace,
// session, delegation, and memory context for a single task into one
// immutable ExecutionContext.
func (b *Builder) CreateContext(ctx context.Context, agentName, task string, opts Options) (*ExecutionContext, error) {
	// Steps 1-2: resolve and load the profile (Store.Get covers both the
	// exact-name and alias lookup paths).
	p, err := b.Profiles.Get(agentName)
	if err != nil {
		return nil, err
	}

	// Step 3-4: select and compose abilities.
	names := selectAbilities(p, task)
	abilitiesText := b.Abilities.GetAbilitiesText(names)

	// Step 5: select a provider, honoring the agent's preference.
	selected, err := b.Providers.Select(ctx, p.Provider)
	if err != nil {
		return nil, err
	}

	// Step 6: resolve project root, working dir, and agent workspace,
	// re-verifying the workspace boundary.
	projectDir := b.Resolver.ProjectRoot()
	sanitized := workspace.SanitizeAgentName(p.Name)
	agentWorkspace, err := b.Resolver.AgentWorkspace(sanitized)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(agentWorkspace, projectDir) {
		return nil, apperr.PathTraversal(agentWorkspace, projectDir)
	}

	// Step 7: attach an existing session if one was named; never create
	// one implicitly.
	sessionID := ""
	if opts.SessionID != "" {
		if _, err := b.Sessions.GetSession(opts.SessionID); err == nil {
			sessionID = opts.SessionID
		}
	}

	// Step 8: build delegation orchestration metadata when the agent is
	// allowed to delegate.
	var orch *Orchestration
	if p.Orchestration != nil && p.Orchestration.CanDelegate {
		shared := ""
		if sessionID != "" {
			shared, err = b.Resolver.SharedSessionWorkspace(sessionID)
		} else {
			shared, err = b.Resolver.SharedPersistentWorkspace()
		}
		if err != nil {
			return nil, err
		}
		orch = &Orchestration{
			PeerAgents:      append([]string(nil), p.Orchestration.CanDelegateTo...),
			SharedWorkspace: shared,
			DelegationChain: opts.DelegationChain,
		}
	}

	// Step 9: query memory, degrading to an empty result on any failure —
	// this capability never aborts the run.
	var entries []memory.Entry
	if !opts.SkipMemory && b.Memory != nil {
		topK := opts.TopK
		if topK <= 0 {
			topK = DefaultTopK
		}
		entries, err = b.Memory.Query(ctx, task, topK)
		if err != nil {
			b.Log.Warn().Err(err).Str("agent", p.Name).Msg("memory query failed, continuing without recall")
			entries = nil
		}
	}

	return &ExecutionContext{
		Agent:          p,
		Task:           task,
		Memory:         entries,
		ProjectDir:     projectDir,
		WorkingDir:     b.workingDir,
		AgentWorkspace: agentWorkspace,
		Provider:       selected,
		Abilities:      abilitiesText,
		CreatedAt:      time.Now(),
		Orchestration:  orch,
		SessionID:      sessionID,
	}, nil
}
