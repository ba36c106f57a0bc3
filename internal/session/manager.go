package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"automatosx/internal/apperr"
)

// DefaultMaxSessions bounds the in-memory map before LRU-by-updatedAt
// eviction kicks in, mirroring the teacher's session cache cap.
const DefaultMaxSessions = 1000

// DefaultCleanupDays is cleanupOldSessions' default age threshold.
const DefaultCleanupDays = 7

// Manager owns the process-wide session map. All operations are
// concurrency-safe; §6 names the session map a shared resource that must
// be serialized by the implementation.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxSize  int
	log      zerolog.Logger
}

// NewManager builds an empty Manager. maxSize <= 0 uses DefaultMaxSessions.
func NewManager(maxSize int, log zerolog.Logger) *Manager {
	if maxSize <= 0 {
		maxSize = DefaultMaxSessions
	}
	return &Manager{
		sessions: make(map[string]*Session),
		maxSize:  maxSize,
		log:      log.With().Str("component", "session_manager").Logger(),
	}
}

// Create mints a new session with a UUID id, the initiator already added
// as a participant, and status=active.
func (m *Manager) Create(initiator string) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Agents:    []string{initiator},
		Status:    StatusActive,
		Metadata:  make(map[string]any),
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.evictLocked()
	m.mu.Unlock()
	return s
}

// AddAgent appends name to the session's participant list, idempotently:
// a repeated name is not added twice.
func (m *Manager) AddAgent(sessionID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return apperr.SessionNotFound(sessionID)
	}
	if !s.hasAgent(name) {
		s.Agents = append(s.Agents, name)
	}
	s.touch()
	return nil
}

// GetSession returns the session for id.
func (m *Manager) GetSession(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, apperr.SessionNotFound(id)
	}
	return s, nil
}

// GetActiveSessions returns every session with status=active, newest
// first by updatedAt.
func (m *Manager) GetActiveSessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Session
	for _, s := range m.sessions {
		if s.Status == StatusActive {
			out = append(out, s)
		}
	}
	sortNewestFirst(out)
	return out
}

// GetActiveSessionsForAgent filters GetActiveSessions to sessions where
// agent is a participant.
func (m *Manager) GetActiveSessionsForAgent(agent string) []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Session
	for _, s := range m.sessions {
		if s.Status == StatusActive && s.hasAgent(agent) {
			out = append(out, s)
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(sessions []*Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}

// CompleteSession marks id completed. Re-completing an already-completed
// session is a no-op, per spec §4.8.
func (m *Manager) CompleteSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return apperr.SessionNotFound(id)
	}
	if s.Status == StatusCompleted {
		return nil
	}
	s.Status = StatusCompleted
	s.touch()
	return nil
}

// FailSession marks id failed, storing errMsg and an optional stack trace
// in its metadata.
func (m *Manager) FailSession(id, errMsg, stack string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return apperr.SessionNotFound(id)
	}
	s.Status = StatusFailed
	s.Metadata["error"] = errMsg
	if stack != "" {
		s.Metadata["stack"] = stack
	}
	s.touch()
	return nil
}

// UpdateMetadata merges updates into the session's metadata map.
func (m *Manager) UpdateMetadata(id string, updates map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return apperr.SessionNotFound(id)
	}
	for k, v := range updates {
		s.Metadata[k] = v
	}
	s.touch()
	return nil
}

// evictLocked evicts the oldest-by-updatedAt sessions once the map exceeds
// maxSize. Must be called with mu held.
func (m *Manager) evictLocked() {
	if len(m.sessions) <= m.maxSize {
		return
	}

	type entry struct {
		id        string
		updatedAt time.Time
	}
	entries := make([]entry, 0, len(m.sessions))
	for id, s := range m.sessions {
		entries = append(entries, entry{id, s.UpdatedAt})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].updatedAt.Before(entries[j].updatedAt) })

	toRemove := len(m.sessions) - m.maxSize
	for i := 0; i < toRemove && i < len(entries); i++ {
		delete(m.sessions, entries[i].id)
	}
}

// CleanupOldSessions removes non-active sessions whose updatedAt is older
// than daysThreshold days (default 7). Active sessions are never removed
// by age. Returns the count removed.
func (m *Manager) CleanupOldSessions(daysThreshold int) int {
	if daysThreshold <= 0 {
		daysThreshold = DefaultCleanupDays
	}
	cutoff := time.Now().AddDate(0, 0, -daysThreshold)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.Status == StatusActive {
			continue
		}
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// ClearAll empties the session map.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*Session)
}

// GetStats summarizes the manager's current contents.
func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var st Stats
	st.Total = len(m.sessions)
	for _, s := range m.sessions {
		switch s.Status {
		case StatusActive:
			st.Active++
		case StatusCompleted:
			st.Completed++
		case StatusFailed:
			st.Failed++
		}
	}
	return st
}
