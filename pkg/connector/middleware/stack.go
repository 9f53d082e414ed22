// Package middleware assembles the standard connector middleware pipeline.
package middleware

import (
	"time"

	"browseroskb/pkg/connector"
	"browseroskb/pkg/connector/middleware/metrics"
	"browseroskb/pkg/connector/middleware/retry"
	"browseroskb/pkg/connector/middleware/timeout"
	"browseroskb/pkg/utils"
)

// Per-query timeouts. SDK clients carry their own connection setup and
// streaming overhead, so they get a longer budget.
const (
	HTTPQueryTimeout = 60 * time.Second
	SDKQueryTimeout  = 120 * time.Second
)

// Stack returns a connector wrapper applying the standard pipeline,
// outermost first: metrics -> retry -> timeout -> raw connector.
func Stack(rec metrics.Recorder, counter *utils.TokenCounter) connector.WrapFunc {
	if rec == nil {
		rec = metrics.Nop()
	}

	return func(agent string, next connector.Connector) connector.Connector {
		queryTimeout := HTTPQueryTimeout
		if next.Transport() == connector.TransportSDK {
			queryTimeout = SDKQueryTimeout
		}

		policy := retry.NewPolicy(retry.DefaultConfig, nil)
		onRetry := func(t connector.Transport) {
			rec.IncRetry(agent, string(t))
		}

		return connector.Compose(next,
			metrics.Middleware(rec, agent, counter),
			retry.Middleware(policy, onRetry),
			timeout.Middleware(queryTimeout),
		)
	}
}
