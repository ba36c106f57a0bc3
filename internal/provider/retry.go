package provider

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// retryableSubstrings are case-insensitive fragments of an error message
// that mark the failure as transient, per spec §4.6.
var retryableSubstrings = []string{
	"timeout",
	"econnreset",
	"econnrefused",
	"socket hang up",
	"network error",
	"rate limit",
	"too many requests",
	"502", "503", "504",
	"resource_exhausted",
	"unavailable",
	"deadline_exceeded",
	"internal",
	"rate_limit",
}

// fatalSubstrings mark a failure as never worth retrying even if it also
// happens to contain a retryable substring.
var fatalSubstrings = []string{
	"invalid_argument",
	"permission_denied",
}

// classify reports whether err should be retried, per spec §4.6's
// substring classification.
func classify(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, f := range fatalSubstrings {
		if strings.Contains(msg, f) {
			return false
		}
	}
	for _, r := range retryableSubstrings {
		if strings.Contains(msg, r) {
			return true
		}
	}
	return false
}

// RetryPolicy configures the exponential backoff schedule.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFrac   float64
}

// DefaultRetryPolicy matches the defaults named in spec §4.6: 3 attempts,
// exponential backoff, ±25% jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFrac:   0.25,
	}
}

func (p RetryPolicy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.JitterFrac
	return b
}

// withRetry runs fn, retrying retryable failures up to policy.MaxAttempts
// times with exponential backoff between attempts, capped at MaxDelay with
// jitter. A fatal or non-retryable error returns immediately.
func withRetry[T any](ctx context.Context, policy RetryPolicy, identifier string, log zerolog.Logger, fn func(ctx context.Context) (T, error)) (T, error) {
	b := policy.newBackOff()
	var zero T

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !classify(err) {
			return zero, err
		}
		if attempt == policy.MaxAttempts-1 {
			break
		}

		delay := b.NextBackOff()
		log.Debug().Str("provider", identifier).Int("attempt", attempt+1).
			Str("delay", humanize.Comma(delay.Milliseconds())+"ms").
			Msg("provider adapter: retrying after backoff")
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}
