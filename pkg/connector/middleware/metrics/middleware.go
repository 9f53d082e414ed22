package metrics

import (
	"context"
	"time"

	"browseroskb/pkg/connector"
	"browseroskb/pkg/utils"
)

// Middleware returns connector middleware that records query and probe
// metrics for the given agent. Token counts are estimated with counter;
// a nil counter falls back to character-based estimation.
func Middleware(rec Recorder, agent string, counter *utils.TokenCounter) connector.Middleware {
	if rec == nil {
		rec = Nop()
	}

	return func(next connector.Connector) connector.Connector {
		transport := string(next.Transport())

		query := func(ctx context.Context, prompt string, opts connector.QueryOptions) (string, error) {
			start := time.Now()
			text, err := next.Query(ctx, prompt, opts)
			duration := time.Since(start)

			success := err == nil
			errorType := ""
			if err != nil {
				errorType = connector.TypeOf(err).String()
			}

			promptTokens := counter.CountTokens(prompt + opts.System)
			completionTokens := 0
			if success {
				completionTokens = counter.CountTokens(text)
			}

			rec.ObserveQuery(agent, transport, opts.Model,
				promptTokens, completionTokens, success, errorType, duration)

			return text, err
		}

		available := func(ctx context.Context) bool {
			ok := next.Available(ctx)
			rec.ObserveProbe(agent, transport, ok)
			return ok
		}

		return connector.WrapConnector(query, available, next.Transport)
	}
}
