package cache

import (
	"github.com/robfig/cron/v3"
)

// StartSweep schedules a periodic expired-entry purge as a backstop for a
// cache that only ever receives hits, so entries past their TTL are not
// left occupying L2 indefinitely when no Put ever triggers the
// opportunistic sweep in evictIfOverCapacity. Returns the running
// scheduler; callers should Stop() it on shutdown.
func (c *Cache) StartSweep(spec string) (*cron.Cron, error) {
	sched := cron.New()
	_, err := sched.AddFunc(spec, func() {
		if !c.enabled || c.l2 == nil {
			return
		}
		if n, err := c.l2.KVCleanExpired(); err != nil {
			c.log.Warn().Err(err).Msg("response cache: scheduled sweep failed")
		} else if n > 0 {
			c.log.Debug().Int64("evicted", n).Msg("response cache: scheduled sweep")
		}
	})
	if err != nil {
		return nil, err
	}
	sched.Start()
	return sched, nil
}
