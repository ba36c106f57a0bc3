package execctx

import (
	"strings"

	"automatosx/internal/profile"
)

// selectAbilities implements spec §4.9 step 3: if the profile declares
// abilitySelection.loadAll or omits the policy entirely, use every
// declared ability. Otherwise take the core set plus any task-keyed
// abilities whose keyword appears (case-insensitive, substring) in task,
// deduplicated. An empty result falls back to the profile's first two
// declared abilities.
func selectAbilities(p *profile.Profile, task string) []string {
	sel := p.AbilitySelection
	if sel == nil || (sel.LoadAll != nil && *sel.LoadAll) {
		return p.Abilities
	}

	seen := make(map[string]bool)
	var out []string
	add := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}

	add(sel.Core)

	lowerTask := strings.ToLower(task)
	for keyword, names := range sel.TaskBased {
		if strings.Contains(lowerTask, strings.ToLower(keyword)) {
			add(names)
		}
	}

	if len(out) == 0 {
		if len(p.Abilities) >= 2 {
			return p.Abilities[:2]
		}
		return p.Abilities
	}
	return out
}
