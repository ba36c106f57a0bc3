package controller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"automatosx/internal/cache"
	"automatosx/internal/config"
	"automatosx/internal/delegation"
	"automatosx/internal/events"
	"automatosx/internal/execctx"
	"automatosx/internal/parallel"
	"automatosx/internal/provider"
	"automatosx/internal/session"
	"automatosx/internal/stage"
	"automatosx/internal/team"
	"automatosx/internal/timeout"
)

// Controller is the Execution Controller façade (spec §4.13): the single
// entry point the CLI/MCP layer calls to run one agent, a staged agent, or
// a DAG of agents. It binds the Context Builder, Stage Executor,
// Delegation Engine, and Parallel Agent Executor together. Every provider
// call runs under the timeout resolved by internal/timeout and the
// retry/circuit-breaker handling of the internal/provider adapter.
// Single-shot calls also go through the response cache (see invoke);
// staged runs call the provider directly and are not cached.
type Controller struct {
	Builder  *execctx.Builder
	Stages   *stage.Executor
	Teams    *team.Store
	Timeouts *timeout.Manager
	Sessions *session.Manager
	Cache    *cache.Cache
	Bus      *events.Bus

	cfg Config
	log zerolog.Logger
}

// New wires a Controller from its already-constructed dependencies.
// Teams, Cache, and Bus may be nil: team-less timeout resolution falls
// back to the global/default tiers, a nil cache behaves as disabled, and
// a nil bus drops every emitted event silently.
func New(builder *execctx.Builder, stages *stage.Executor, teams *team.Store, timeouts *timeout.Manager, sessions *session.Manager, respCache *cache.Cache, bus *events.Bus, cfg Config, log zerolog.Logger) *Controller {
	if cfg.MaxConcurrentAgents <= 0 {
		cfg.MaxConcurrentAgents = 1
	}
	return &Controller{
		Builder:  builder,
		Stages:   stages,
		Teams:    teams,
		Timeouts: timeouts,
		Sessions: sessions,
		Cache:    respCache,
		Bus:      bus,
		cfg:      cfg,
		log:      log.With().Str("component", "execution_controller").Logger(),
	}
}

func (c *Controller) emit(kind events.Kind, payload map[string]any) {
	if c.Bus == nil {
		return
	}
	c.Bus.Emit(events.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

// teamName looks up the agent's bound team, if any, purely to feed the
// Timeout Manager's team tier; a missing or unbound team resolves to "".
func (c *Controller) teamName(agentTeam string) string {
	if agentTeam == "" || c.Teams == nil {
		return ""
	}
	if _, err := c.Teams.Get(agentTeam); err != nil {
		return ""
	}
	return agentTeam
}

// resolveTimeout runs the Timeout Manager's priority chain and arms its
// warning monitor for the duration of the returned cancel func's caller.
func (c *Controller) resolveTimeout(ctx context.Context, agentName, teamName string, runtimeTimeout time.Duration, task string) (context.Context, context.CancelFunc, *timeout.Handle) {
	resolved := c.Timeouts.Resolve(timeout.Request{
		AgentName:      agentName,
		TeamName:       teamName,
		RuntimeTimeout: runtimeTimeout,
	})
	handle := c.Timeouts.StartMonitoring(resolved, timeout.MonitorTarget{Agent: agentName, Task: task})
	runCtx, cancel := context.WithTimeout(ctx, resolved.Value)
	return runCtx, cancel, handle
}

// RunAgent executes a single agent (with or without stages) and is also
// the delegation.Runner implementation the Delegation Engine calls into.
func (c *Controller) RunAgent(ctx context.Context, agentName, task string, opts execctx.Options) (*Result, error) {
	c.emit(events.ExecutionStarted, map[string]any{"agent": agentName, "task": task})

	ec, err := c.Builder.CreateContext(ctx, agentName, task, opts)
	if err != nil {
		c.log.Warn().Err(err).Str("agent", agentName).Msg("execution controller: context build failed")
		return nil, err
	}

	runCtx, cancel, warnHandle := c.resolveTimeout(ctx, agentName, c.teamName(ec.Agent.Team), 0, task)
	defer cancel()
	defer warnHandle.Stop()

	start := time.Now()

	if len(ec.Agent.Stages) > 0 {
		outcome, err := c.Stages.Run(runCtx, ec, c.cfg.ContinueOnFailure)
		if err != nil {
			return nil, err
		}
		c.emit(events.ExecutionCompleted, map[string]any{"agent": agentName, "success": outcome.Success})
		return &Result{
			Response: outcome.Output,
			Duration: time.Since(start),
			Context:  ec,
			Stages:   outcome,
		}, nil
	}

	resp, cached, err := c.invoke(runCtx, ec, provider.Request{
		Prompt:       task,
		SystemPrompt: ec.Agent.SystemPrompt,
		Model:        ec.Agent.Model,
		Temperature:  ec.Agent.Temperature,
		MaxTokens:    maxTokensPtr(ec.Agent.MaxTokens),
	})
	if err != nil {
		return nil, err
	}

	c.emit(events.ExecutionCompleted, map[string]any{"agent": agentName, "success": true})
	return &Result{
		Response: resp.Content,
		Duration: time.Since(start),
		Context:  ec,
		Cached:   cached,
	}, nil
}

// Run implements delegation.Runner for the Delegation Engine: it runs the
// child agent end to end and reports back the text response plus whatever
// it wrote into its own workspace.
func (c *Controller) Run(ctx context.Context, agentName, task string, opts execctx.Options) (*delegation.RunOutcome, error) {
	result, err := c.RunAgent(ctx, agentName, task, opts)
	if err != nil {
		return nil, err
	}
	var files []string
	if c.Builder.Resolver != nil {
		if infos, err := c.Builder.Resolver.ListFiles(result.Context.AgentWorkspace); err == nil {
			for _, fi := range infos {
				files = append(files, fi.Name)
			}
		}
	}
	return &delegation.RunOutcome{
		Response:  result.Response,
		Files:     files,
		Workspace: result.Context.AgentWorkspace,
	}, nil
}

// invoke wraps a single provider call in the response-cache lookup, per
// spec §4.6/§4.13: a hit skips the CLI call entirely and emits
// events.CacheHit; a miss emits events.CacheMiss, calls through and, on
// success, populates both cache tiers.
func (c *Controller) invoke(ctx context.Context, ec *execctx.ExecutionContext, req provider.Request) (*provider.Response, bool, error) {
	params := cache.Params{
		Provider:     ec.Provider.Identifier(),
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		Model:        req.Model,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		TopP:         req.TopP,
	}

	if c.Cache != nil {
		if content, ok := c.Cache.Get(params); ok {
			c.emit(events.CacheHit, map[string]any{"agent": ec.Agent.Name, "provider": ec.Provider.Identifier()})
			return &provider.Response{Content: content, Model: req.Model, FromCache: true}, true, nil
		}
		c.emit(events.CacheMiss, map[string]any{"agent": ec.Agent.Name, "provider": ec.Provider.Identifier()})
	}

	resp, err := ec.Provider.Execute(ctx, req)
	if err != nil {
		return nil, false, err
	}
	if c.Cache != nil {
		c.Cache.Put(params, resp.Content)
	}
	return resp, false, nil
}

func maxTokensPtr(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}

// RunDAG executes a set of agents under their declared dependencies (spec
// §4.12), reusing a single Options template (session, delegation chain)
// across every agent's own context build. tasks maps an agent name to its
// own task text; an agent missing from tasks runs with defaultTask.
func (c *Controller) RunDAG(ctx context.Context, specs []parallel.AgentSpec, tasks map[string]string, defaultTask string, template execctx.Options) (*parallel.Result, error) {
	runner := func(runCtx context.Context, agentName string) error {
		task := defaultTask
		if t, ok := tasks[agentName]; ok {
			task = t
		}
		_, err := c.RunAgent(runCtx, agentName, task, template)
		return err
	}

	exec := parallel.NewExecutor(runner, c.cfg.MaxConcurrentAgents, c.cfg.ContinueOnFailure)
	result, err := exec.Run(ctx, specs)
	if err != nil {
		return nil, err
	}
	for _, name := range result.SkippedAgents {
		c.emit(events.AgentSkipped, map[string]any{"agent": name})
	}
	return result, nil
}

// StartSession creates and returns a new session for initiator. Callers
// pass its ID as Options.SessionID so subsequent RunAgent/RunDAG calls
// under the same task share it.
func (c *Controller) StartSession(initiator string) *session.Session {
	return c.Sessions.Create(initiator)
}

// FinishSession marks sess completed on success or failed (with cause
// recorded) on error.
func (c *Controller) FinishSession(sessID string, runErr error) error {
	if runErr == nil {
		return c.Sessions.CompleteSession(sessID)
	}
	return c.Sessions.FailSession(sessID, runErr.Error(), "")
}

// ConfigFromExecution derives the controller's concurrency/failure-policy
// knobs from the application's execution config section.
func ConfigFromExecution(exec config.ExecutionConfig, continueOnFailure bool) Config {
	max := exec.MaxConcurrentAgents
	if max <= 0 {
		max = 1
	}
	return Config{MaxConcurrentAgents: max, ContinueOnFailure: continueOnFailure}
}
