package stage

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"automatosx/internal/events"
	"automatosx/internal/execctx"
	"automatosx/internal/memory"
	"automatosx/internal/profile"
	"automatosx/internal/provider"
)

// Executor drives a profile's stage list through its resolved provider.
// Memory may be nil, in which case stage outputs are never persisted. Bus
// may be nil, in which case stage lifecycle events are dropped silently.
type Executor struct {
	Memory memory.Capability
	Bus    *events.Bus
	Log    zerolog.Logger
}

// NewExecutor builds a stage Executor.
func NewExecutor(mem memory.Capability, bus *events.Bus, log zerolog.Logger) *Executor {
	return &Executor{Memory: mem, Bus: bus, Log: log}
}

func (e *Executor) emit(kind events.Kind, payload map[string]any) {
	if e.Bus == nil {
		return
	}
	e.Bus.Emit(events.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

// Run drives every stage in ec.Agent.Stages in order, accumulating
// successful outputs into later stages' prompts. continueOnFailure
// controls whether a failed stage stops the run or is skipped in favor of
// the remaining stages.
func (e *Executor) Run(ctx context.Context, ec *execctx.ExecutionContext, continueOnFailure bool) (*Outcome, error) {
	agent := ec.Agent
	results := make([]Result, 0, len(agent.Stages))
	failedStage := -1
	anyFailed := false

	for i, s := range agent.Stages {
		e.emit(events.StageStarted, map[string]any{"agent": agent.Name, "stage": s.Name, "index": i})

		prompt := composePrompt(s, i, ec.Task, results)
		req := provider.Request{
			Prompt:       prompt,
			SystemPrompt: agent.SystemPrompt,
			Model:        resolveModel(s, agent),
			Temperature:  resolveTemperature(s, agent),
		}
		if agent.MaxTokens > 0 {
			mt := agent.MaxTokens
			req.MaxTokens = &mt
		}

		start := time.Now()
		resp, err := ec.Provider.Execute(ctx, req)
		duration := time.Since(start)

		r := Result{Name: s.Name, Index: i, Duration: duration}
		if err != nil {
			r.Success = false
			r.Error = err.Error()
			results = append(results, r)
			anyFailed = true
			e.emit(events.StageCompleted, map[string]any{"agent": agent.Name, "stage": s.Name, "index": i, "success": false})
			if !continueOnFailure {
				failedStage = i
				break
			}
			continue
		}

		r.Success = true
		r.Output = resp.Content
		r.TokensUsed = resp.TotalTokens
		r.Model = resp.Model
		results = append(results, r)

		e.persist(ctx, agent.Name, s.Name, i, resp.Content)
		e.emit(events.StageCompleted, map[string]any{"agent": agent.Name, "stage": s.Name, "index": i, "success": true})
	}

	success := !anyFailed
	return &Outcome{
		Stages:      results,
		Output:      assemble(results),
		Success:     success,
		FailedStage: failedStage,
	}, nil
}

func (e *Executor) persist(ctx context.Context, agentName, stageName string, index int, output string) {
	if e.Memory == nil {
		return
	}
	entry := memory.Entry{
		Content:   output,
		Source:    agentName,
		CreatedAt: time.Now(),
		Metadata: map[string]any{
			"type":   "task",
			"source": agentName,
			"stage":  stageName,
			"index":  index,
		},
	}
	if err := e.Memory.Store(ctx, entry); err != nil {
		e.Log.Warn().Err(err).Str("agent", agentName).Str("stage", stageName).Msg("stage executor: memory persistence failed")
	}
}

func resolveModel(s profile.Stage, p *profile.Profile) string {
	if s.Model != "" {
		return s.Model
	}
	return p.Model
}

func resolveTemperature(s profile.Stage, p *profile.Profile) *float64 {
	if s.Temperature != nil {
		return s.Temperature
	}
	return p.Temperature
}
