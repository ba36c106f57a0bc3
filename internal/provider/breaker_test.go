package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automatosx/internal/events"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker("test", 3, 2, time.Minute)

	for i := 0; i < 2; i++ {
		require.NoError(t, b.Allow())
		b.RecordFailure()
	}
	assert.Equal(t, "closed", b.State())

	require.NoError(t, b.Allow())
	b.RecordFailure()
	assert.Equal(t, "open", b.State())
	assert.Error(t, b.Allow())
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	b := NewCircuitBreaker("test", 1, 1, 10*time.Millisecond)

	require.NoError(t, b.Allow())
	b.RecordFailure()
	assert.Equal(t, "open", b.State())
	assert.Error(t, b.Allow())

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, b.Allow())
	assert.Equal(t, "half_open", b.State())
}

func TestCircuitBreaker_RecloseAfterSuccessThreshold(t *testing.T) {
	b := NewCircuitBreaker("test", 1, 2, 10*time.Millisecond)

	require.NoError(t, b.Allow())
	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Allow())

	b.RecordSuccess()
	assert.Equal(t, "half_open", b.State())
	b.RecordSuccess()
	assert.Equal(t, "closed", b.State())
}

func TestCircuitBreaker_FailureInHalfOpenReopens(t *testing.T) {
	b := NewCircuitBreaker("test", 1, 2, 10*time.Millisecond)

	require.NoError(t, b.Allow())
	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Allow())

	b.RecordSuccess()
	assert.Equal(t, "half_open", b.State())

	b.RecordFailure()
	assert.Equal(t, "open", b.State())
}

func TestCircuitBreaker_EmitsOpenAndCloseEvents(t *testing.T) {
	bus := events.NewBus()
	var kinds []events.Kind
	bus.Attach(events.SinkFunc(func(e events.Event) { kinds = append(kinds, e.Kind) }))

	b := NewCircuitBreaker("test", 1, 1, 10*time.Millisecond)
	b.SetBus(bus)

	require.NoError(t, b.Allow())
	b.RecordFailure()
	assert.Equal(t, "open", b.State())

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.Allow())
	b.RecordSuccess()
	assert.Equal(t, "closed", b.State())

	assert.Equal(t, []events.Kind{events.CircuitOpened, events.CircuitClosed}, kinds)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewCircuitBreaker("test", 3, 2, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, "closed", b.State())
}
