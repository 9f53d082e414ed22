// Package anthropic wraps the Anthropic SDK for Claude models.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"browseroskb/pkg/connector/internal/sdkimpl"
)

// Client wraps the Anthropic SDK client.
type Client struct {
	client anthropic.Client
	hasKey bool
}

// NewClient creates an Anthropic client.
func NewClient(apiKey string) *Client {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		hasKey: apiKey != "",
	}
}

// Complete implements sdkimpl.Client using the Messages API.
func (c *Client) Complete(ctx context.Context, req sdkimpl.Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model: anthropic.Model(req.Model),
		Messages: []anthropic.MessageParam{
			{
				Role:    anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(req.Prompt)},
			},
		},
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("messages call failed: %w", err)
	}
	if resp == nil || len(resp.Content) == 0 {
		return "", fmt.Errorf("response contained no content")
	}

	var text string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	return text, nil
}

// Available reports true when an API key was provided.
func (c *Client) Available(_ context.Context) bool {
	return c.hasKey
}
