package delegation

import (
	"strings"
	"time"

	"automatosx/internal/storage"
)

// Tracker persists the delegation audit trail into the shared sqlite
// database's delegate_invocations table.
type Tracker struct {
	db *storage.DB
}

// NewTracker wraps db for delegation audit logging.
func NewTracker(db *storage.DB) *Tracker {
	return &Tracker{db: db}
}

// Record inserts one completed (or rejected) delegation attempt. req is
// the originating request (its task and chain are what's persisted);
// childSessionID is the session the child ran under, if any.
func (t *Tracker) Record(r *Result, req Request, childSessionID string) error {
	var durationMs *int64
	if !r.EndTime.IsZero() {
		ms := r.Duration.Milliseconds()
		durationMs = &ms
	}

	_, err := t.db.Exec(
		`INSERT INTO delegate_invocations
		   (id, parent_session_id, child_session_id, from_agent, to_agent, depth, chain, task, status, reason, started_at, completed_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.DelegationID, nullable(req.SessionID), nullable(childSessionID), r.From, r.To, len(req.DelegationChain),
		strings.Join(req.DelegationChain, ","), req.Task, string(r.Status), string(r.Reason),
		r.StartTime, nullableTime(r.EndTime), durationMs,
	)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
