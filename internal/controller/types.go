// Package controller implements the Execution Controller (spec §4.13):
// the façade the CLI/MCP layer calls to run either a single agent (with
// or without stages) or a DAG of agents, wrapping every provider call in
// the timeout, retry, circuit-breaker, and response-cache pipeline and
// emitting the engine's lifecycle events.
package controller

import (
	"time"

	"automatosx/internal/execctx"
	"automatosx/internal/stage"
)

// Config bounds DAG concurrency and the default stage failure policy.
type Config struct {
	MaxConcurrentAgents int
	ContinueOnFailure   bool
}

// Result is what RunAgent returns for both staged and single-shot runs.
type Result struct {
	Response string
	Duration time.Duration
	Context  *execctx.ExecutionContext
	Stages   *stage.Outcome // nil for a single-shot (no-stage) run
	Cached   bool
}
