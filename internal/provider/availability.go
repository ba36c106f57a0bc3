package provider

import (
	"sync"
	"time"
)

// availabilityHistoryCap bounds how many recent probes feed the uptime
// calculation; older samples roll off. Spec names a ring buffer of the
// last 20 probe outcomes.
const availabilityHistoryCap = 20

// minSamplesForAdaptiveTTL is the number of probes required before the
// uptime-based TTL policy kicks in; below it, availability falls back to
// the 60s baseline TTL.
const minSamplesForAdaptiveTTL = 10

// TTL bands from spec §4.6's adaptive availability cache: uptime under
// 90% shortens the cache window so a recovering provider is retried
// sooner; uptime over 99% lengthens it to cut probe traffic.
const (
	ttlLowUptime    = 30 * time.Second
	ttlBaselineTTL  = 60 * time.Second
	ttlHighUptime   = 120 * time.Second
	lowUptimeBound  = 0.90
	highUptimeBound = 0.99
)

// AvailabilityCache remembers the result of the last HealthCheck probe per
// adapter and adapts how long that result is trusted based on recent
// uptime, avoiding a health probe on every single request.
type AvailabilityCache struct {
	mu      sync.Mutex
	history []bool
	cached  bool
	checked time.Time
}

// NewAvailabilityCache returns an empty cache; the first IsAvailable call
// always misses and must probe.
func NewAvailabilityCache() *AvailabilityCache {
	return &AvailabilityCache{}
}

// Get returns the cached availability and whether it is still within its
// adaptive TTL window.
func (c *AvailabilityCache) Get() (available bool, fresh bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checked.IsZero() {
		return false, false
	}
	ttl := c.ttlLocked()
	if time.Since(c.checked) >= ttl {
		return false, false
	}
	return c.cached, true
}

// Record stores the outcome of a fresh probe and appends it to the
// bounded uptime history.
func (c *AvailabilityCache) Record(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cached = available
	c.checked = time.Now()
	c.history = append(c.history, available)
	if len(c.history) > availabilityHistoryCap {
		c.history = c.history[len(c.history)-availabilityHistoryCap:]
	}
}

func (c *AvailabilityCache) ttlLocked() time.Duration {
	if len(c.history) < minSamplesForAdaptiveTTL {
		return ttlBaselineTTL
	}
	uptime := c.uptimeLocked()
	switch {
	case uptime < lowUptimeBound:
		return ttlLowUptime
	case uptime > highUptimeBound:
		return ttlHighUptime
	default:
		return ttlBaselineTTL
	}
}

// Uptime reports the fraction of recent probes that succeeded, for callers
// that want to log or display it.
func (c *AvailabilityCache) Uptime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uptimeLocked()
}

func (c *AvailabilityCache) uptimeLocked() float64 {
	if len(c.history) == 0 {
		return 1
	}
	up := 0
	for _, ok := range c.history {
		if ok {
			up++
		}
	}
	return float64(up) / float64(len(c.history))
}
