package session

import "github.com/robfig/cron/v3"

// StartSweep schedules a periodic CleanupOldSessions(daysThreshold) run on
// a cron schedule. Returns the running scheduler; callers should Stop() it
// on shutdown.
func (m *Manager) StartSweep(spec string, daysThreshold int) (*cron.Cron, error) {
	sched := cron.New()
	_, err := sched.AddFunc(spec, func() {
		if n := m.CleanupOldSessions(daysThreshold); n > 0 {
			m.log.Debug().Int("removed", n).Msg("session sweep: removed aged sessions")
		}
	})
	if err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}
