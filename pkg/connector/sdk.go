package connector

import (
	"context"
	"strings"

	"browseroskb/pkg/connector/internal/sdkimpl"
	"browseroskb/pkg/connector/internal/sdkimpl/anthropic"
	"browseroskb/pkg/connector/internal/sdkimpl/google"
	"browseroskb/pkg/connector/internal/sdkimpl/ollama"
	"browseroskb/pkg/connector/internal/sdkimpl/openai"
	"browseroskb/pkg/logx"
)

// Client families the SDK transport can delegate to.
const (
	FamilyOpenAI    = "openai"
	FamilyOllama    = "ollama"
	FamilyAnthropic = "anthropic"
	FamilyGoogle    = "google"
)

// FamilyFor maps a logical agent name to its client family. Unknown names
// map to the empty string, which builds an SDK connector with no client.
func FamilyFor(agent string) string {
	switch strings.ToLower(agent) {
	case "openrouter", "openai", "gpt":
		return FamilyOpenAI
	case "ollama":
		return FamilyOllama
	case "anthropic", "claude":
		return FamilyAnthropic
	case "google", "gemini":
		return FamilyGoogle
	default:
		return ""
	}
}

// SDKConfig configures an SDK connector.
type SDKConfig struct {
	Agent   string // Agent name
	Family  string // Client family; FamilyFor(Agent) when empty
	APIKey  string // Provider API key; hosted families need one
	BaseURL string // Endpoint override (OpenRouter base URL, Ollama host)
	Model   string // Default model
}

// SDKConnector queries a provider through its native client library. An
// unrecognized family leaves the inner client unset, so the connector
// reports unavailable rather than erroring at construction time.
type SDKConnector struct {
	cfg  SDKConfig
	impl sdkimpl.Client
	log  *logx.Logger
}

// NewSDKConnector creates an SDK connector for the agent's client family.
func NewSDKConnector(ctx context.Context, cfg SDKConfig) *SDKConnector {
	family := cfg.Family
	if family == "" {
		family = FamilyFor(cfg.Agent)
	}

	var impl sdkimpl.Client
	switch family {
	case FamilyOpenAI:
		impl = openai.NewClient(cfg.APIKey, cfg.BaseURL)
	case FamilyOllama:
		host := cfg.BaseURL
		if host == "" {
			host = "http://localhost:11434"
		}
		impl = ollama.NewClient(host)
	case FamilyAnthropic:
		impl = anthropic.NewClient(cfg.APIKey)
	case FamilyGoogle:
		impl = google.NewClient(ctx, cfg.APIKey)
	}

	conn := &SDKConnector{
		cfg:  cfg,
		impl: impl,
		log:  logx.NewLogger(cfg.Agent),
	}
	if impl == nil {
		conn.log.Warn("No SDK client family for agent %s, connector will report unavailable", cfg.Agent)
	}
	return conn
}

func (s *SDKConnector) Transport() Transport {
	return TransportSDK
}

// Query delegates to the provider client and classifies failures.
func (s *SDKConnector) Query(ctx context.Context, prompt string, opts QueryOptions) (string, error) {
	if s.impl == nil {
		return "", &Error{
			Type:    ErrorTypeUnavailable,
			Agent:   s.cfg.Agent,
			Message: "no sdk client for this agent",
		}
	}

	opts = opts.withDefaults()
	model := opts.Model
	if model == "" {
		model = s.cfg.Model
	}

	text, err := s.impl.Complete(ctx, sdkimpl.Request{
		Prompt:      prompt,
		System:      opts.System,
		Model:       model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		cerr := Classify(err)
		cerr.Agent = s.cfg.Agent
		return "", cerr
	}
	if text == "" {
		return "", &Error{
			Type:    ErrorTypeEmptyResponse,
			Agent:   s.cfg.Agent,
			Message: "sdk returned empty response",
		}
	}
	return text, nil
}

// Available delegates to the provider client's own check; a missing client
// is never available.
func (s *SDKConnector) Available(ctx context.Context) bool {
	if s.impl == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	return s.impl.Available(probeCtx)
}
