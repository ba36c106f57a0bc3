// Package session implements the Session Manager (spec §4.8): a pure
// in-memory map of running and historical agent execution sessions, with
// a hard-cap LRU-by-updatedAt eviction and an age-based cleanup sweep.
package session

import "time"

// Status is a Session's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Session tracks one execution run: the set of agents participating in
// it, its lifecycle status, and free-form metadata.
type Session struct {
	ID        string
	Agents    []string
	Status    Status
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}

func (s *Session) hasAgent(name string) bool {
	for _, a := range s.Agents {
		if a == name {
			return true
		}
	}
	return false
}

// Stats summarizes the manager's current contents.
type Stats struct {
	Total     int
	Active    int
	Completed int
	Failed    int
}
