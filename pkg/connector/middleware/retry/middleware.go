package retry

import (
	"context"
	"fmt"
	"time"

	"browseroskb/pkg/connector"
	"browseroskb/pkg/logx"
)

// Middleware returns connector middleware that retries failed queries
// according to the policy. onRetry, if non-nil, is invoked before each
// retry attempt.
func Middleware(policy *Policy, onRetry func(transport connector.Transport)) connector.Middleware {
	log := logx.NewLogger("retry")

	return func(next connector.Connector) connector.Connector {
		query := func(ctx context.Context, prompt string, opts connector.QueryOptions) (string, error) {
			var lastErr error

			for attempt := 1; attempt <= policy.Config.MaxAttempts; attempt++ {
				if attempt > 1 {
					delay := policy.CalculateDelay(attempt)
					log.Debug("retrying %s query in %v (attempt %d/%d)",
						next.Transport(), delay, attempt, policy.Config.MaxAttempts)

					if onRetry != nil {
						onRetry(next.Transport())
					}

					select {
					case <-time.After(delay):
					case <-ctx.Done():
						return "", ctx.Err()
					}
				}

				text, err := next.Query(ctx, prompt, opts)
				if err == nil {
					return text, nil
				}
				lastErr = err

				if !policy.ShouldRetry(err) {
					log.Debug("%s query error is not retryable: %v", next.Transport(), err)
					return "", err
				}
			}

			return "", fmt.Errorf("query failed after %d attempts: %w", policy.Config.MaxAttempts, lastErr)
		}

		return connector.WrapConnector(query, next.Available, next.Transport)
	}
}
