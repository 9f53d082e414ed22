// Package ollama wraps the Ollama API client for locally served models.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"browseroskb/pkg/connector/internal/sdkimpl"
)

// Client wraps the Ollama API client.
type Client struct {
	client *api.Client
}

// NewClient creates an Ollama client for the given host URL
// (e.g. "http://localhost:11434").
func NewClient(hostURL string) *Client {
	parsedURL, err := url.Parse(hostURL)
	if err != nil || parsedURL.Host == "" {
		parsedURL, _ = url.Parse("http://localhost:11434")
	}
	return &Client{client: api.NewClient(parsedURL, http.DefaultClient)}
}

// Complete implements sdkimpl.Client using the Ollama chat API.
func (c *Client) Complete(ctx context.Context, req sdkimpl.Request) (string, error) {
	messages := make([]api.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.System})
	}
	messages = append(messages, api.Message{Role: "user", Content: req.Prompt})

	stream := false
	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}

	var response api.ChatResponse
	err := c.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	return response.Message.Content, nil
}

// Available sends a heartbeat to the Ollama server.
func (c *Client) Available(ctx context.Context) bool {
	return c.client.Heartbeat(ctx) == nil
}
