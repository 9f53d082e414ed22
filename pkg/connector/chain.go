package connector

import (
	"context"

	"browseroskb/pkg/logx"
)

// Chain is an ordered set of connectors for one agent. Query walks the
// chain and returns the first successful response; a single connector's
// failure is never fatal, only total exhaustion is.
type Chain struct {
	agent      string
	connectors []Connector
	log        *logx.Logger
}

// NewChain creates a chain over the given connectors in priority order.
func NewChain(agent string, connectors ...Connector) *Chain {
	return &Chain{
		agent:      agent,
		connectors: connectors,
		log:        logx.NewLogger(agent),
	}
}

// Agent returns the agent name this chain serves.
func (c *Chain) Agent() string {
	return c.agent
}

// Connectors returns the chain members in priority order.
func (c *Chain) Connectors() []Connector {
	return c.connectors
}

// Len returns the number of connectors in the chain.
func (c *Chain) Len() int {
	return len(c.connectors)
}

// Query tries each connector in order: probe availability, then query.
// Unavailable or failing connectors are skipped with a warning. When every
// connector has been tried without success, a classified exhausted error
// is returned.
func (c *Chain) Query(ctx context.Context, prompt string, opts QueryOptions) (string, error) {
	if len(c.connectors) == 0 {
		return "", NewExhaustedError(c.agent, 0, nil)
	}

	var lastErr error
	for _, conn := range c.connectors {
		if err := ctx.Err(); err != nil {
			return "", NewErrorWithCause(ErrorTypeUnknown, err, "query canceled")
		}

		if !conn.Available(ctx) {
			c.log.Debug("Transport %s unavailable, trying next", conn.Transport())
			continue
		}

		text, err := conn.Query(ctx, prompt, opts)
		if err != nil {
			c.log.Warn("Transport %s failed: %v", conn.Transport(), err)
			lastErr = err
			continue
		}
		if text == "" {
			c.log.Warn("Transport %s returned empty response, trying next", conn.Transport())
			lastErr = NewError(ErrorTypeEmptyResponse, "empty response")
			continue
		}

		c.log.Debug("Transport %s answered (%d chars)", conn.Transport(), len(text))
		return text, nil
	}

	return "", NewExhaustedError(c.agent, len(c.connectors), lastErr)
}

// Available reports whether any connector in the chain is available.
func (c *Chain) Available(ctx context.Context) bool {
	for _, conn := range c.connectors {
		if conn.Available(ctx) {
			return true
		}
	}
	return false
}
