package delegation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"automatosx/internal/events"
	"automatosx/internal/execctx"
	"automatosx/internal/profile"
)

// Engine evaluates delegation preconditions and, when they pass, hands
// the child task to a Runner.
type Engine struct {
	Profiles *profile.Store
	Runner   Runner
	Tracker  *Tracker
	Bus      *events.Bus
	Log      zerolog.Logger
}

// NewEngine wires an Engine. Tracker may be nil, in which case delegation
// attempts are not audited. Bus may be nil, in which case delegation
// lifecycle events are dropped silently.
func NewEngine(profiles *profile.Store, runner Runner, tracker *Tracker, bus *events.Bus, log zerolog.Logger) *Engine {
	return &Engine{Profiles: profiles, Runner: runner, Tracker: tracker, Bus: bus, Log: log}
}

func (e *Engine) emit(kind events.Kind, payload map[string]any) {
	if e.Bus == nil {
		return
	}
	e.Bus.Emit(events.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}

// Delegate evaluates req's preconditions and, if they hold, runs the
// child task through the Runner. It always returns synchronously with a
// Result rather than propagating precondition failures as errors — the
// Status/Reason fields carry the outcome.
func (e *Engine) Delegate(ctx context.Context, req Request) (*Result, error) {
	id := uuid.NewString()
	start := time.Now()
	result := &Result{DelegationID: id, From: req.FromAgent, To: req.ToAgent, StartTime: start}
	e.emit(events.DelegationStarted, map[string]any{"delegationId": id, "from": req.FromAgent, "to": req.ToAgent})

	if reason, ok := e.checkPreconditions(req); !ok {
		result.Status = StatusFailure
		result.Reason = reason
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(start)
		e.record(result, req, "")
		e.emit(events.DelegationComplete, map[string]any{"delegationId": id, "status": string(result.Status)})
		return result, nil
	}

	childChain := append(append([]string{}, req.DelegationChain...), req.FromAgent)
	opts := execctx.Options{
		SessionID:       req.SessionID,
		DelegationChain: childChain,
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if req.Timeout != nil {
		runCtx, cancel = context.WithTimeout(ctx, *req.Timeout)
		defer cancel()
	}

	outcome, err := e.Runner.Run(runCtx, req.ToAgent, req.Task, opts)
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)

	switch {
	case err == nil:
		result.Status = StatusSuccess
		result.Response = outcome.Response
		result.Outputs = Outputs{Files: outcome.Files, Workspace: outcome.Workspace}
	case errors.Is(err, context.DeadlineExceeded):
		result.Status = StatusTimeout
		result.Reason = ReasonTimeout
	default:
		result.Status = StatusFailure
		result.Reason = ReasonExecutionFailed
	}

	e.record(result, req, req.SessionID)
	e.emit(events.DelegationComplete, map[string]any{"delegationId": id, "status": string(result.Status)})
	return result, nil
}

func (e *Engine) checkPreconditions(req Request) (Reason, bool) {
	from, err := e.Profiles.Get(req.FromAgent)
	if err != nil {
		return ReasonNotFound, false
	}
	if from.Orchestration == nil || !from.Orchestration.CanDelegate {
		return ReasonUnauthorized, false
	}
	if !contains(from.Orchestration.CanDelegateTo, req.ToAgent) {
		return ReasonUnauthorized, false
	}
	if contains(req.DelegationChain, req.ToAgent) {
		return ReasonCycle, false
	}

	maxDepth := from.Orchestration.MaxDelegationDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if len(req.DelegationChain) >= maxDepth {
		return ReasonMaxDepth, false
	}

	if _, err := e.Profiles.Get(req.ToAgent); err != nil {
		return ReasonNotFound, false
	}

	return "", true
}

func (e *Engine) record(r *Result, req Request, childSessionID string) {
	if e.Tracker == nil {
		return
	}
	if err := e.Tracker.Record(r, req, childSessionID); err != nil {
		e.Log.Warn().Err(err).Str("delegationId", r.DelegationID).Msg("delegation engine: failed to persist audit record")
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
