package delegation

import (
	"context"

	"automatosx/internal/execctx"
)

// RunOutcome is what a child invocation reports back to the engine: the
// final response text, any files it wrote, and its workspace path.
type RunOutcome struct {
	Response  string
	Files     []string
	Workspace string
}

// Runner executes a single agent's task end to end — context build,
// stage or single-shot provider invocation — and reports its outcome.
// The Execution Controller supplies the concrete implementation; Engine
// depends only on this interface so the two packages don't import each
// other.
type Runner interface {
	Run(ctx context.Context, agentName, task string, opts execctx.Options) (*RunOutcome, error)
}
