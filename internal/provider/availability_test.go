package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityCache_EmptyMisses(t *testing.T) {
	c := NewAvailabilityCache()
	_, fresh := c.Get()
	assert.False(t, fresh)
}

func TestAvailabilityCache_HitsWithinTTL(t *testing.T) {
	c := NewAvailabilityCache()
	c.Record(true)

	available, fresh := c.Get()
	assert.True(t, fresh)
	assert.True(t, available)
}

func TestAvailabilityCache_BaselineTTLBelowSampleFloor(t *testing.T) {
	c := NewAvailabilityCache()
	for i := 0; i < 5; i++ {
		c.Record(false)
	}
	assert.Equal(t, ttlBaselineTTL, c.ttlLocked())
}

func TestAvailabilityCache_LowUptimeShortenesTTL(t *testing.T) {
	c := NewAvailabilityCache()
	for i := 0; i < 10; i++ {
		c.Record(i < 5)
	}
	assert.Equal(t, ttlLowUptime, c.ttlLocked())
}

func TestAvailabilityCache_HighUptimeLengthensTTL(t *testing.T) {
	c := NewAvailabilityCache()
	for i := 0; i < 10; i++ {
		c.Record(true)
	}
	assert.Equal(t, ttlHighUptime, c.ttlLocked())
}

func TestAvailabilityCache_HistoryBounded(t *testing.T) {
	c := NewAvailabilityCache()
	for i := 0; i < availabilityHistoryCap+10; i++ {
		c.Record(true)
	}
	assert.Len(t, c.history, availabilityHistoryCap)
}
