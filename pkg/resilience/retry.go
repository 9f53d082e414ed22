// Package resilience provides retry, validation, and safe-IO helpers used
// across the toolkit. Helpers here degrade gracefully: they log failures
// and fall back to defaults instead of aborting a pipeline run.
package resilience

import (
	"context"
	"fmt"
	"math"
	"time"

	"browseroskb/pkg/logx"
)

// RetryConfig controls retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts     int           // Total attempts including the first
	BaseDelay       time.Duration // Delay before the first retry
	MaxDelay        time.Duration // Upper bound on any single delay
	ExponentialBase float64       // Delay multiplier per attempt
}

// DefaultRetryConfig matches the toolkit-wide defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		BaseDelay:       1 * time.Second,
		MaxDelay:        30 * time.Second,
		ExponentialBase: 2.0,
	}
}

// Delay returns the sleep duration after the given failed attempt
// (1-based): min(base * exp^(attempt-1), max). No jitter is applied.
func (c RetryConfig) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	exp := c.ExponentialBase
	if exp <= 0 {
		exp = 2.0
	}

	delay := time.Duration(float64(base) * math.Pow(exp, float64(attempt-1)))
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// Do runs fn up to cfg.MaxAttempts times, sleeping between attempts per
// cfg.Delay. It stops early when the context is canceled and returns the
// last error after exhaustion.
func Do(ctx context.Context, log *logx.Logger, cfg RetryConfig, fn func() error) error {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry canceled: %w", err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		delay := cfg.Delay(attempt)
		if log != nil {
			log.Warn("Attempt %d/%d failed: %v, retrying in %v", attempt, maxAttempts, lastErr, delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry canceled: %w", ctx.Err())
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", maxAttempts, lastErr)
}
