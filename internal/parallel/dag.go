package parallel

import (
	"sort"

	"automatosx/internal/apperr"
)

// buildGraph validates specs and assigns each agent its topological
// level. Rejects unknown dependencies and cycles per spec §4.12.
func buildGraph(specs []AgentSpec) ([]DAGNode, error) {
	byName := make(map[string]AgentSpec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	for _, s := range specs {
		for _, dep := range s.Dependencies {
			if _, ok := byName[dep]; !ok {
				return nil, apperr.UnknownDependency(s.Name, dep)
			}
		}
	}

	levels := make(map[string]int, len(specs))
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(specs))

	var resolve func(name string) (int, error)
	resolve = func(name string) (int, error) {
		switch state[name] {
		case done:
			return levels[name], nil
		case visiting:
			return 0, apperr.CircularDependency(name)
		}
		state[name] = visiting

		spec := byName[name]
		level := 0
		for _, dep := range spec.Dependencies {
			depLevel, err := resolve(dep)
			if err != nil {
				return 0, err
			}
			if depLevel+1 > level {
				level = depLevel + 1
			}
		}
		state[name] = done
		levels[name] = level
		return level, nil
	}

	nodes := make([]DAGNode, 0, len(specs))
	for _, s := range specs {
		level, err := resolve(s.Name)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, DAGNode{Agent: s.Name, Dependencies: s.Dependencies, Level: level})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Level != nodes[j].Level {
			return nodes[i].Level < nodes[j].Level
		}
		return nodes[i].Agent < nodes[j].Agent
	})
	return nodes, nil
}
