// Package google wraps the Google GenAI SDK for Gemini models.
package google

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"browseroskb/pkg/connector/internal/sdkimpl"
)

// Client wraps the Google GenAI client.
type Client struct {
	client *genai.Client
}

// NewClient creates a Gemini client. Construction can fail inside the SDK;
// a nil inner client simply reports unavailable.
func NewClient(ctx context.Context, apiKey string) *Client {
	if apiKey == "" {
		return &Client{}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return &Client{}
	}
	return &Client{client: client}
}

// Complete implements sdkimpl.Client using GenerateContent.
func (c *Client) Complete(ctx context.Context, req sdkimpl.Request) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: req.Prompt}},
		},
	}

	temp := float32(req.Temperature)
	maxTokens := int32(req.MaxTokens)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: maxTokens,
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("response contained no text")
	}
	return text, nil
}

// Available reports true when the inner client initialized.
func (c *Client) Available(_ context.Context) bool {
	return c.client != nil
}
