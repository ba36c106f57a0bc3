package stage

import (
	"fmt"
	"strings"

	"automatosx/internal/profile"
)

// composePrompt builds the prompt for stage s at position i in the stage
// list, per spec §4.10: header, description, optional key-questions and
// expected-outputs sections, the original task, a "Context from Previous
// Stages" section once prior stages exist, and a closing focus
// instruction.
func composePrompt(s profile.Stage, index int, task string, prior []Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Current Stage: %s\n\n", s.Name)
	b.WriteString(s.Description)
	b.WriteString("\n\n")

	if len(s.KeyQuestions) > 0 {
		b.WriteString("## Key Questions\n\n")
		for _, q := range s.KeyQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
		b.WriteString("\n")
	}

	if len(s.Outputs) > 0 {
		b.WriteString("## Expected Outputs\n\n")
		for _, o := range s.Outputs {
			fmt.Fprintf(&b, "- %s\n", o)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Task\n\n%s\n\n", task)

	if index > 0 {
		successful := successfulPrior(prior)
		if len(successful) > 0 {
			b.WriteString("## Context from Previous Stages\n\n")
			for _, r := range successful {
				fmt.Fprintf(&b, "### Stage %d: %s\n\n%s\n\n", r.Index+1, r.Name, r.Output)
			}
		}
	}

	fmt.Fprintf(&b, "Focus on completing the %q stage.\n", s.Name)
	return b.String()
}

func successfulPrior(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Success {
			out = append(out, r)
		}
	}
	return out
}

// assemble produces the final document per spec §4.10: a single stage's
// output passes through unformatted; multiple stages are concatenated
// under a heading marking each stage's outcome.
func assemble(results []Result) string {
	if len(results) == 1 {
		r := results[0]
		if r.Success {
			return r.Output
		}
		return fmt.Sprintf("## Stage %d: %s ✗\n\n%s", r.Index+1, r.Name, r.Error)
	}

	var b strings.Builder
	for i, r := range results {
		mark := "✓"
		body := r.Output
		if !r.Success {
			mark = "✗"
			body = r.Error
		}
		fmt.Fprintf(&b, "## Stage %d: %s %s\n\n%s", r.Index+1, r.Name, mark, body)
		if i < len(results)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
