// Package sdkimpl defines the minimal client contract the provider SDK
// implementations satisfy. The connector package selects an implementation
// per client family and adapts it to the Connector interface.
package sdkimpl

import (
	"context"
)

// Request carries one chat completion call.
type Request struct {
	Prompt      string
	System      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client is implemented by each provider SDK wrapper.
type Client interface {
	// Complete sends the request and returns the response text.
	Complete(ctx context.Context, req Request) (string, error)

	// Available reports whether the client can serve requests. It must
	// return quickly and never panic.
	Available(ctx context.Context) bool
}
