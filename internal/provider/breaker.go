package provider

import (
	"sync"
	"time"

	"automatosx/internal/apperr"
	"automatosx/internal/events"
)

// breakerState is the three-state circuit breaker machine from spec §4.6.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// CircuitBreaker guards a single adapter from hammering a provider that is
// failing consecutively. failureThreshold consecutive failures open it;
// while open, calls fail fast until timeout elapses, after which it moves
// to the half-open state; successThreshold consecutive successes there
// re-close it and any failure re-opens it. Half-open does not limit how
// many calls go through: every caller is admitted while in that state.
type CircuitBreaker struct {
	failureThreshold int
	successThreshold int
	timeout          time.Duration

	mu         sync.Mutex
	state      breakerState
	failures   int
	successes  int
	openedAt   time.Time
	providerID string

	bus *events.Bus
}

// DefaultFailureThreshold and DefaultSuccessThreshold match spec §4.6's
// named defaults.
const (
	DefaultFailureThreshold = 5
	DefaultSuccessThreshold = 2
	DefaultBreakerTimeout   = 60 * time.Second
)

// NewCircuitBreaker builds a breaker in the closed state.
func NewCircuitBreaker(providerID string, failureThreshold, successThreshold int, timeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = DefaultFailureThreshold
	}
	if successThreshold <= 0 {
		successThreshold = DefaultSuccessThreshold
	}
	if timeout <= 0 {
		timeout = DefaultBreakerTimeout
	}
	return &CircuitBreaker{
		providerID:       providerID,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		state:            breakerClosed,
	}
}

// SetBus attaches the event bus breaker state transitions are reported on.
// A breaker with no bus attached (the zero value) simply never emits.
func (b *CircuitBreaker) SetBus(bus *events.Bus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bus = bus
}

func (b *CircuitBreaker) emitLocked(kind events.Kind) {
	if b.bus == nil {
		return
	}
	b.bus.Emit(events.Event{
		Kind:      kind,
		Timestamp: time.Now(),
		Payload:   map[string]any{"provider": b.providerID},
	})
}

// Allow reports whether a call may proceed. It transitions OPEN to
// HALF_OPEN once the timeout has elapsed and admits the caller that
// observes the transition; every call made while HALF_OPEN is admitted
// as well.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed:
		return nil
	case breakerHalfOpen:
		return nil
	case breakerOpen:
		if time.Since(b.openedAt) >= b.timeout {
			b.state = breakerHalfOpen
			b.successes = 0
			return nil
		}
		return apperr.ProviderUnavailable(b.providerID, "circuit breaker open")
	default:
		return nil
	}
}

// RecordSuccess resets the failure counter; in HALF_OPEN it accumulates
// toward successThreshold and re-closes the breaker once reached.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerHalfOpen:
		b.successes++
		if b.successes >= b.successThreshold {
			b.state = breakerClosed
			b.failures = 0
			b.successes = 0
			b.emitLocked(events.CircuitClosed)
		}
	case breakerClosed:
		b.failures = 0
	}
}

// RecordFailure increments the failure counter, opening the breaker once
// failureThreshold is reached. A failure observed in HALF_OPEN re-opens
// immediately and resets the success counter.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerHalfOpen:
		b.state = breakerOpen
		b.openedAt = time.Now()
		b.successes = 0
		b.emitLocked(events.CircuitOpened)
	case breakerClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.state = breakerOpen
			b.openedAt = time.Now()
			b.emitLocked(events.CircuitOpened)
		}
	}
}

// State reports the breaker's current state as a string for diagnostics
// and event emission ("closed", "open", "half_open").
func (b *CircuitBreaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}
