// Package retry provides retry middleware with exponential backoff for
// connector queries.
package retry

import (
	"math"
	"time"

	"browseroskb/pkg/connector"
)

// Config defines configuration for retry behavior.
type Config struct {
	MaxAttempts   int           `yaml:"max_attempts"`   // Maximum number of attempts (including initial)
	InitialDelay  time.Duration `yaml:"initial_delay"`  // Initial delay before first retry
	MaxDelay      time.Duration `yaml:"max_delay"`      // Maximum delay between retries
	BackoffFactor float64       `yaml:"backoff_factor"` // Multiplier for exponential backoff
	Jitter        bool          `yaml:"jitter"`         // Add random jitter to prevent thundering herd
}

// DefaultConfig provides reasonable defaults for retry behavior.
//
//nolint:gochecknoglobals // Sensible default config pattern
var DefaultConfig = Config{
	MaxAttempts:   3,
	InitialDelay:  500 * time.Millisecond,
	MaxDelay:      10 * time.Second,
	BackoffFactor: 2.0,
	Jitter:        true,
}

// Classifier determines if an error should be retried.
type Classifier func(error) bool

// Policy encapsulates retry configuration and logic.
type Policy struct {
	Config     Config
	Classifier Classifier
}

// NewPolicy creates a retry policy. A nil classifier defaults to
// connector.IsRetryable.
func NewPolicy(config Config, classifier Classifier) *Policy {
	if classifier == nil {
		classifier = connector.IsRetryable
	}
	return &Policy{
		Config:     config,
		Classifier: classifier,
	}
}

// CalculateDelay computes the delay before the given attempt number.
func (p *Policy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delay := time.Duration(float64(p.Config.InitialDelay) * math.Pow(p.Config.BackoffFactor, float64(attempt-2)))

	// Cap at maximum delay
	if delay > p.Config.MaxDelay {
		delay = p.Config.MaxDelay
	}

	// Add jitter if enabled
	if p.Config.Jitter && delay > 0 {
		jitter := time.Duration(float64(delay) * 0.1)
		if time.Now().UnixNano()%2 == 0 {
			delay += jitter
		} else {
			delay -= jitter
		}
	}

	return delay
}

// ShouldRetry determines if an error should be retried based on the configured classifier.
func (p *Policy) ShouldRetry(err error) bool {
	return p.Classifier(err)
}
