// Package openai wraps the official OpenAI Go client for OpenAI-compatible
// providers, including OpenRouter via a base URL override.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"browseroskb/pkg/connector/internal/sdkimpl"
)

// Client wraps the official OpenAI Go client.
type Client struct {
	client openai.Client
	hasKey bool
}

// NewClient creates an OpenAI-compatible SDK client. baseURL may be empty
// for the default OpenAI endpoint, or point at another compatible provider
// such as OpenRouter.
func NewClient(apiKey, baseURL string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		hasKey: apiKey != "",
	}
}

// Complete implements sdkimpl.Client using the Chat Completions API.
func (c *Client) Complete(ctx context.Context, req sdkimpl.Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Available reports true when an API key was provided. The SDK performs no
// network probe; reachability surfaces on the first query.
func (c *Client) Available(_ context.Context) bool {
	return c.hasKey
}
