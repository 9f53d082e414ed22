package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"browseroskb/pkg/logx"
)

// ProbeTimeout bounds availability probes across all transports.
const ProbeTimeout = 5 * time.Second

// DefaultHTTPTimeout bounds a single HTTP query.
const DefaultHTTPTimeout = 60 * time.Second

// HTTPConfig configures an HTTP connector.
type HTTPConfig struct {
	Agent   string            // Agent name, used in logs and errors
	BaseURL string            // OpenAI-compatible API root, e.g. https://openrouter.ai/api/v1
	APIKey  string            // Bearer token; may be empty for unauthenticated local servers
	Model   string            // Default model when the query does not override it
	Headers map[string]string // Extra headers sent on every request
	Timeout time.Duration     // Per-query timeout, DefaultHTTPTimeout when zero
	Client  *http.Client      // Optional client override, used in tests
}

// HTTPConnector talks to any OpenAI-compatible chat completions endpoint.
type HTTPConnector struct {
	cfg    HTTPConfig
	client *http.Client
	log    *logx.Logger
}

// NewHTTPConnector creates an HTTP connector for an OpenAI-compatible API.
func NewHTTPConnector(cfg HTTPConfig) *HTTPConnector {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPConnector{
		cfg:    cfg,
		client: client,
		log:    logx.NewLogger(cfg.Agent),
	}
}

func (h *HTTPConnector) Transport() Transport {
	return TransportHTTP
}

// chat completions wire types, the OpenAI-compatible subset the toolkit uses.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Query POSTs the prompt to {base}/chat/completions and returns
// choices[0].message.content.
func (h *HTTPConnector) Query(ctx context.Context, prompt string, opts QueryOptions) (string, error) {
	opts = opts.withDefaults()

	model := opts.Model
	if model == "" {
		model = h.cfg.Model
	}

	messages := make([]chatMessage, 0, 2)
	if opts.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: opts.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", NewErrorWithCause(ErrorTypeBadPrompt, err, "failed to encode request")
	}

	url := strings.TrimRight(h.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", NewErrorWithCause(ErrorTypeBadPrompt, err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	h.setAuth(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", NewErrorWithCause(ErrorTypeTransient, err, fmt.Sprintf("request to %s failed", h.cfg.BaseURL))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", NewErrorWithCause(ErrorTypeTransient, err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", h.statusError(resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", NewErrorWithCause(ErrorTypeUnknown, err, "failed to parse response")
	}
	if parsed.Error != nil {
		return "", NewError(ErrorTypeUnknown, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", NewError(ErrorTypeEmptyResponse, "response contained no content")
	}

	return parsed.Choices[0].Message.Content, nil
}

// Available GETs {base}/models and requires a 2xx response. Probe
// failures are logged at debug, never returned.
func (h *HTTPConnector) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	url := strings.TrimRight(h.cfg.BaseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		h.log.Debug("HTTP probe failed to build request: %v", err)
		return false
	}
	h.setAuth(req)

	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Debug("HTTP probe failed: %v", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (h *HTTPConnector) setAuth(req *http.Request) {
	if h.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	}
	for key, value := range h.cfg.Headers {
		req.Header.Set(key, value)
	}
}

func (h *HTTPConnector) statusError(status int, body []byte) *Error {
	stub := string(body)
	if len(stub) > 200 {
		stub = stub[:200]
	}
	return &Error{
		Type:       ClassifyStatus(status),
		Agent:      h.cfg.Agent,
		StatusCode: status,
		Message:    fmt.Sprintf("status %d: %s", status, stub),
	}
}
