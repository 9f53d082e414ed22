// Package connector provides transport connectors for querying LLM agents
// over HTTP, provider SDKs, MCP, Docker containers, and local binaries,
// plus the chain and resolver that pick a working transport at runtime.
package connector

import (
	"context"
)

// Transport identifies a connector's transport mechanism. The constant
// order below is also the hybrid-mode priority order.
type Transport string

const (
	TransportHTTP   Transport = "http"
	TransportSDK    Transport = "sdk"
	TransportMCP    Transport = "mcp"
	TransportDocker Transport = "docker"
	TransportLocal  Transport = "local"
)

// HybridOrder is the fixed transport priority used when an agent runs in
// hybrid mode.
//
//nolint:gochecknoglobals // Fixed ordering shared by resolver and chain
var HybridOrder = []Transport{
	TransportHTTP,
	TransportSDK,
	TransportMCP,
	TransportDocker,
	TransportLocal,
}

// Default query parameters.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// QueryOptions carries per-query parameters. Zero values are replaced with
// the toolkit defaults.
type QueryOptions struct {
	Model       string  // Model override; empty means the connector's configured model
	System      string  // Optional system prompt
	Temperature float64 // Sampling temperature, default 0.7
	MaxTokens   int     // Completion token cap, default 2000
}

// withDefaults fills zero-valued fields.
func (o QueryOptions) withDefaults() QueryOptions {
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// Connector is a single transport capable of answering prompts for one
// agent. Implementations classify failures as *connector.Error values.
type Connector interface {
	// Query sends the prompt and returns the response text. An empty
	// response is an error, never an empty string with nil error.
	Query(ctx context.Context, prompt string, opts QueryOptions) (string, error)

	// Available probes whether the transport can serve queries right now.
	// Probes are bounded and never panic or return an error.
	Available(ctx context.Context) bool

	// Transport identifies the connector's transport mechanism.
	Transport() Transport
}
