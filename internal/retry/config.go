// Package retry retries provider calls that fail with transient errors,
// using exponential backoff with jitter.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxAttempts is the maximum number of attempts. The initial request
	// counts as attempt 1.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64

	// Jitter adds randomness to prevent thundering herd.
	// Delay is multiplied by (1 + random(-jitter, +jitter)).
	Jitter float64

	// Notify, when set, observes every attempt.
	Notify func(Event)
}

// DefaultConfig returns the default retry configuration:
// 3 attempts, 500ms initial delay, 10s max delay, 2x backoff, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that disables retries (single attempt).
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// WithRetries returns DefaultConfig allowing n retries after the first
// attempt. n <= 0 disables retries.
func WithRetries(n int) Config {
	if n <= 0 {
		return Disabled()
	}
	cfg := DefaultConfig()
	cfg.MaxAttempts = n + 1
	return cfg
}

// Delay calculates the delay for a given attempt number (0-indexed).
// Formula: min(maxDelay, initialDelay * multiplier^attempt) * (1 + jitter)
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		jitterFactor := 1.0 + (rand.Float64()*2-1)*c.Jitter
		delay *= jitterFactor
	}

	return time.Duration(delay)
}

// EventType identifies the kind of event occurring during retry execution.
type EventType string

const (
	// EventAttemptFailed fires after a failed attempt.
	EventAttemptFailed EventType = "attempt_failed"

	// EventRetrying fires before sleeping between attempts.
	EventRetrying EventType = "retrying"

	// EventExhausted fires when all retry attempts are exhausted.
	EventExhausted EventType = "exhausted"
)

// Event describes one step of a retried call.
type Event struct {
	Type EventType

	// Attempt is the current attempt number (1-indexed).
	Attempt int

	MaxAttempts int

	// Error is the error from the failed attempt.
	Error error

	// Delay is the wait before the next attempt (EventRetrying only).
	Delay time.Duration

	// Retryable reports whether the error was classified as transient.
	Retryable bool
}

func (c Config) notify(e Event) {
	if c.Notify != nil {
		c.Notify(e)
	}
}
