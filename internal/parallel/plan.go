package parallel

// buildPlan groups nodes by level and partitions each level into batches
// bounded by maxConcurrentAgents (falling back to 1 for non-positive
// values), per spec §4.12.
func buildPlan(nodes []DAGNode, specByName map[string]AgentSpec, maxConcurrentAgents int) Plan {
	batchSize := maxConcurrentAgents
	if batchSize <= 0 {
		batchSize = 1
	}

	byLevel := make(map[int][]string)
	maxLevel := 0
	for _, n := range nodes {
		byLevel[n.Level] = append(byLevel[n.Level], n.Agent)
		if n.Level > maxLevel {
			maxLevel = n.Level
		}
	}

	plan := Plan{}
	for level := 0; level <= maxLevel; level++ {
		agents, ok := byLevel[level]
		if !ok {
			continue
		}

		mode := ModeParallel
		for _, a := range agents {
			if !specByName[a].runsInParallel() {
				mode = ModeSequential
				break
			}
		}

		size := batchSize
		if mode == ModeSequential {
			size = 1
		}

		var batches [][]string
		for i := 0; i < len(agents); i += size {
			end := i + size
			if end > len(agents) {
				end = len(agents)
			}
			batches = append(batches, agents[i:end])
		}

		plan.Levels = append(plan.Levels, LevelPlan{Level: level, Mode: mode, Batches: batches})
	}
	return plan
}
