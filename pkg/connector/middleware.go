package connector

import (
	"context"
)

// Middleware wraps a Connector with additional behavior. Middlewares are
// composed with Compose() to build a processing pipeline.
type Middleware func(next Connector) Connector

// connectorFunc adapts plain functions to the Connector interface.
type connectorFunc struct {
	query     func(context.Context, string, QueryOptions) (string, error)
	available func(context.Context) bool
	transport func() Transport
}

func (f connectorFunc) Query(ctx context.Context, prompt string, opts QueryOptions) (string, error) {
	return f.query(ctx, prompt, opts)
}

func (f connectorFunc) Available(ctx context.Context) bool {
	return f.available(ctx)
}

func (f connectorFunc) Transport() Transport {
	return f.transport()
}

// WrapConnector creates a Connector from the provided function
// implementations. This is a helper for middleware implementations.
func WrapConnector(
	query func(context.Context, string, QueryOptions) (string, error),
	available func(context.Context) bool,
	transport func() Transport,
) Connector {
	return connectorFunc{
		query:     query,
		available: available,
		transport: transport,
	}
}

// Compose applies middlewares around a base Connector. Middlewares are
// applied in order, with earlier middlewares being outermost:
//
//	Compose(conn, mw1, mw2, mw3) creates the call stack
//	mw1 -> mw2 -> mw3 -> conn
func Compose(base Connector, middlewares ...Middleware) Connector {
	conn := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		conn = middlewares[i](conn)
	}
	return conn
}
