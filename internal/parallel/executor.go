package parallel

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// AgentRunner executes one agent's task to completion. The Execution
// Controller supplies the concrete implementation (context build + stage
// or single-shot provider call); this package only orchestrates when and
// how many run concurrently.
type AgentRunner func(ctx context.Context, agentName string) error

// Executor runs a DAG of agents level by level, batching each level's
// agents per MaxConcurrentAgents.
type Executor struct {
	Runner              AgentRunner
	MaxConcurrentAgents int
	ContinueOnFailure   bool
}

// NewExecutor builds a parallel Executor.
func NewExecutor(runner AgentRunner, maxConcurrentAgents int, continueOnFailure bool) *Executor {
	return &Executor{Runner: runner, MaxConcurrentAgents: maxConcurrentAgents, ContinueOnFailure: continueOnFailure}
}

// Run builds the DAG from specs, plans its level/batch execution, and
// runs it to completion or until a failure halts further scheduling.
func (e *Executor) Run(ctx context.Context, specs []AgentSpec) (*Result, error) {
	start := time.Now()

	specByName := make(map[string]AgentSpec, len(specs))
	for _, s := range specs {
		specByName[s.Name] = s
	}

	nodes, err := buildGraph(specs)
	if err != nil {
		return nil, err
	}
	plan := buildPlan(nodes, specByName, e.MaxConcurrentAgents)

	var (
		mu        sync.Mutex
		timeline  []TimelineEntry
		completed []string
		failed    []string
		started   = make(map[string]bool, len(nodes))
	)

	stop := false
levels:
	for _, lvl := range plan.Levels {
		if stop {
			break
		}
		for _, batch := range lvl.Batches {
			g, gctx := errgroup.WithContext(ctx)
			for _, agent := range batch {
				agent := agent
				started[agent] = true
				g.Go(func() error {
					agentStart := time.Now()
					runErr := e.Runner(gctx, agent)
					entry := TimelineEntry{
						Agent:     agent,
						StartTime: agentStart,
						EndTime:   time.Now(),
						Level:     lvl.Level,
					}
					entry.Duration = entry.EndTime.Sub(entry.StartTime)

					mu.Lock()
					if runErr != nil {
						entry.Status = StatusFailed
						entry.Error = runErr.Error()
						failed = append(failed, agent)
					} else {
						entry.Status = StatusCompleted
						completed = append(completed, agent)
					}
					timeline = append(timeline, entry)
					mu.Unlock()
					return runErr
				})
			}
			_ = g.Wait()

			if len(failed) > 0 && !e.ContinueOnFailure {
				stop = true
				break levels
			}
		}
	}

	var skipped []string
	if stop {
		now := time.Now()
		for _, n := range nodes {
			if started[n.Agent] {
				continue
			}
			skipped = append(skipped, n.Agent)
			timeline = append(timeline, TimelineEntry{
				Agent:     n.Agent,
				StartTime: now,
				EndTime:   now,
				Level:     n.Level,
				Status:    StatusSkipped,
			})
		}
	}

	return &Result{
		Success:         len(failed) == 0,
		CompletedAgents: completed,
		FailedAgents:    failed,
		SkippedAgents:   skipped,
		Timeline:        timeline,
		TotalDuration:   time.Since(start),
		Graph:           nodes,
		Plan:            plan,
	}, nil
}
