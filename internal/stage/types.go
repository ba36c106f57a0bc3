// Package stage implements the Stage Executor (spec §4.10): it drives an
// agent profile's ordered stage list, accumulating each stage's output
// into the next stage's prompt, honoring per-stage model/temperature
// overrides and a continue-or-stop failure policy.
package stage

import "time"

// Result is one stage's outcome.
type Result struct {
	Name       string
	Index      int
	Output     string
	Duration   time.Duration
	TokensUsed int
	Success    bool
	Error      string
	Model      string
}

// Outcome is the accumulated result of running every stage in a profile.
type Outcome struct {
	Stages      []Result
	Output      string
	Success     bool
	FailedStage int // index of the stage whose failure stopped the run; -1 if none did
}
