// Package timeout provides per-query timeout middleware for connectors.
package timeout

import (
	"context"
	"time"

	"browseroskb/pkg/connector"
)

// Middleware returns connector middleware that bounds each query with a
// context deadline. A non-positive timeout passes queries through unchanged.
func Middleware(timeout time.Duration) connector.Middleware {
	return func(next connector.Connector) connector.Connector {
		query := func(ctx context.Context, prompt string, opts connector.QueryOptions) (string, error) {
			if timeout <= 0 {
				return next.Query(ctx, prompt, opts)
			}

			tctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next.Query(tctx, prompt, opts)
		}

		return connector.WrapConnector(query, next.Available, next.Transport)
	}
}
