package connector

import (
	"context"
)

// MCPConnector is a permanent stub for the Model Context Protocol
// transport. It always reports unavailable and always fails queries with a
// classified unavailable error. Chains treat it as a transport that never
// wins, which keeps mcp entries in agent configs harmless.
type MCPConnector struct {
	agent string
}

// NewMCPConnector creates the MCP stub connector.
func NewMCPConnector(agent string) *MCPConnector {
	return &MCPConnector{agent: agent}
}

func (m *MCPConnector) Transport() Transport {
	return TransportMCP
}

// Query always fails; the MCP transport is not implemented.
func (m *MCPConnector) Query(_ context.Context, _ string, _ QueryOptions) (string, error) {
	return "", &Error{
		Type:    ErrorTypeUnavailable,
		Agent:   m.agent,
		Message: "mcp transport is not implemented",
	}
}

// Available always returns false.
func (m *MCPConnector) Available(_ context.Context) bool {
	return false
}
