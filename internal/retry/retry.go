// Package retry provides exponential backoff with jitter for calls against
// unreliable external services (search engines, web pages).
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds backoff parameters.
type Config struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterFactor  float64
}

// DefaultConfig matches the policy used for search and fetch: bounded
// attempts, 1s base, doubling, capped at 30s.
func DefaultConfig(maxAttempts int) Config {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return Config{
		MaxAttempts:   maxAttempts,
		BaseDelay:     time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}
}

// Classifier reports whether an error is worth retrying.
type Classifier func(error) bool

// Retrier runs operations under the configured backoff policy.
type Retrier struct {
	config      Config
	isRetryable Classifier
}

func New(config Config, classifier Classifier) *Retrier {
	if classifier == nil {
		classifier = func(error) bool { return true }
	}
	return &Retrier{config: config, isRetryable: classifier}
}

// Do runs the operation until it succeeds, exhausts the attempt budget, hits
// a non-retryable error, or the context is cancelled.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				log.Debug().Int("attempt", attempt).Msg("Operation succeeded after retry")
			}
			return nil
		}

		if !r.isRetryable(lastErr) {
			return lastErr
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.delayFor(attempt)
		log.Debug().
			Err(lastErr).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Retrying after backoff")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", r.config.MaxAttempts, lastErr)
}

func (r *Retrier) delayFor(attempt int) time.Duration {
	backoff := float64(r.config.BaseDelay) * math.Pow(r.config.BackoffFactor, float64(attempt-1))
	if backoff > float64(r.config.MaxDelay) {
		backoff = float64(r.config.MaxDelay)
	}
	// Full jitter would defeat the pacing guarantees; a small fraction is
	// enough to decorrelate concurrent checks.
	jitter := backoff * r.config.JitterFactor * (rand.Float64()*2 - 1)
	delay := time.Duration(backoff + jitter)
	if delay < 0 {
		delay = 0
	}
	return delay
}
