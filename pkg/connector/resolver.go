package connector

import (
	"context"
	"os"
	"strings"
	"sync"

	"browseroskb/pkg/config"
	"browseroskb/pkg/logx"
)

// WrapFunc decorates a raw connector before it joins an agent's chain.
// The resolver applies it to every connector it constructs, so callers
// can install a middleware pipeline without the resolver depending on it.
type WrapFunc func(agent string, next Connector) Connector

// Resolver builds connector chains from agent configuration. Chains are
// built lazily and cached per lower-cased agent name for the lifetime of
// the resolver.
type Resolver struct {
	cfg     *config.Config
	secrets *config.SecretStore
	wrap    WrapFunc
	log     *logx.Logger

	mu     sync.Mutex
	chains map[string]*Chain
}

// NewResolver creates a resolver over the given configuration. A nil
// secrets store falls back to environment-only lookup, a nil wrap leaves
// connectors undecorated.
func NewResolver(cfg *config.Config, secrets *config.SecretStore, wrap WrapFunc) *Resolver {
	if secrets == nil {
		secrets = config.NewSecretStore()
	}
	if wrap == nil {
		wrap = func(_ string, next Connector) Connector { return next }
	}
	return &Resolver{
		cfg:     cfg,
		secrets: secrets,
		wrap:    wrap,
		log:     logx.NewLogger("resolver"),
		chains:  make(map[string]*Chain),
	}
}

// Resolve returns the connector chain for the named agent, building it on
// first use. An unknown or unconfigurable agent yields an empty chain,
// never an error; the chain itself reports exhaustion at query time.
func (r *Resolver) Resolve(ctx context.Context, agent string) *Chain {
	name := strings.ToLower(agent)

	r.mu.Lock()
	defer r.mu.Unlock()

	if chain, ok := r.chains[name]; ok {
		return chain
	}

	chain := r.build(ctx, name)
	r.chains[name] = chain
	return chain
}

func (r *Resolver) build(ctx context.Context, agent string) *Chain {
	ac, ok := r.cfg.Agent(agent)
	if !ok || !ac.IsEnabled() {
		return r.envFallback(agent)
	}

	mode := r.cfg.AgentModeFor(agent)
	modes := []string{mode}
	if mode == config.ModeHybrid {
		modes = modes[:0]
		for _, transport := range HybridOrder {
			modes = append(modes, string(transport))
		}
	}

	defaultModel := stringValue(ac.Models, "primary")

	var connectors []Connector
	for _, m := range modes {
		conn := r.construct(ctx, agent, &ac, m, defaultModel)
		if conn == nil {
			continue
		}
		connectors = append(connectors, r.wrap(agent, conn))
	}

	r.log.Debug("built chain for %s: %d connector(s), mode %s", agent, len(connectors), mode)
	return NewChain(agent, connectors...)
}

// construct builds the raw connector for one transport mode, or nil when
// the transport cannot be configured for this agent.
func (r *Resolver) construct(ctx context.Context, agent string, ac *config.AgentConfig, mode, defaultModel string) Connector {
	settings := ac.Transport(mode)
	model := stringValue(settings, "model")
	if model == "" {
		model = defaultModel
	}

	switch mode {
	case config.ModeHTTP:
		baseURL := stringValue(settings, "base_url")
		apiKey, ok := r.resolveKey(settings)
		if baseURL == "" || !ok {
			r.log.Debug("skipping http transport for %s: missing base_url or api key", agent)
			return nil
		}
		return NewHTTPConnector(HTTPConfig{
			Agent:   agent,
			BaseURL: baseURL,
			APIKey:  apiKey,
			Model:   model,
			Headers: stringMap(settings, "headers"),
		})

	case config.ModeSDK:
		apiKey, _ := r.resolveKey(settings)
		return NewSDKConnector(ctx, SDKConfig{
			Agent:   agent,
			Family:  stringValue(settings, "type"),
			APIKey:  apiKey,
			BaseURL: stringValue(settings, "base_url"),
			Model:   model,
		})

	case config.ModeMCP:
		return NewMCPConnector(agent)

	case config.ModeDocker:
		container := stringValue(settings, "container_name")
		if container == "" {
			r.log.Debug("skipping docker transport for %s: no container_name", agent)
			return nil
		}
		return NewDockerConnector(DockerConfig{
			Agent:     agent,
			Container: container,
			Port:      hostPort(settings),
			Model:     model,
		})

	case config.ModeLocal:
		binary := stringValue(settings, "binary_path")
		if binary == "" {
			r.log.Debug("skipping local transport for %s: no binary_path", agent)
			return nil
		}
		return NewLocalConnector(LocalConfig{
			Agent:        agent,
			BinaryPath:   binary,
			ServeAddress: stringValue(settings, "serve_address"),
			Model:        model,
		})
	}

	return nil
}

// envFallback builds a single hosted HTTP connector for agents with no
// config entry, driven entirely by {AGENT}_API_KEY. Agents without a
// hard-coded endpoint get an empty chain.
func (r *Resolver) envFallback(agent string) *Chain {
	endpoint := defaultEndpointFor(agent)
	if endpoint == "" {
		r.log.Debug("no configuration or default endpoint for agent %s", agent)
		return NewChain(agent)
	}

	upper := strings.ToUpper(agent)
	apiKey, err := r.secrets.Get(upper + "_API_KEY")
	if err != nil {
		r.log.Debug("no API key for unconfigured agent %s: %v", agent, err)
		return NewChain(agent)
	}

	conn := NewHTTPConnector(HTTPConfig{
		Agent:   agent,
		BaseURL: endpoint,
		APIKey:  apiKey,
		Model:   os.Getenv(upper + "_MODEL"),
	})
	r.log.Debug("built env-fallback chain for %s against %s", agent, endpoint)
	return NewChain(agent, r.wrap(agent, conn))
}

func defaultEndpointFor(agent string) string {
	switch agent {
	case config.AgentOllama:
		return config.DefaultOllamaEndpoint
	case config.AgentOpenRouter:
		return config.DefaultOpenRouterEndpoint
	default:
		return ""
	}
}

// resolveKey resolves an API key from transport settings: an inline
// api_key wins, otherwise api_key_env names a secret or environment
// variable to look up.
func (r *Resolver) resolveKey(settings map[string]any) (string, bool) {
	if key := stringValue(settings, "api_key"); key != "" {
		return key, true
	}
	envName := stringValue(settings, "api_key_env")
	if envName == "" {
		return "", false
	}
	key, err := r.secrets.Get(envName)
	if err != nil {
		return "", false
	}
	return key, true
}

// hostPort extracts the host side of the first published port mapping,
// e.g. ports: ["11434:11434"] yields "11434".
func hostPort(settings map[string]any) string {
	ports, ok := settings["ports"].([]any)
	if !ok || len(ports) == 0 {
		return "11434"
	}
	mapping, ok := ports[0].(string)
	if !ok || mapping == "" {
		return "11434"
	}
	host, _, found := strings.Cut(mapping, ":")
	if !found {
		return mapping
	}
	return host
}

func stringValue(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func stringMap(m map[string]any, key string) map[string]string {
	raw, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
