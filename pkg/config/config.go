// Package config provides configuration loading, validation, and management
// for the knowledge-base toolkit. It handles the YAML config file,
// environment variable overrides, .env files, and encrypted secrets.
package config

import (
	"strings"
)

// Agent transport modes.
const (
	ModeHTTP   = "http"
	ModeSDK    = "sdk"
	ModeMCP    = "mcp"
	ModeDocker = "docker"
	ModeLocal  = "local"
	ModeHybrid = "hybrid"
)

// Known agent names.
const (
	AgentOllama     = "ollama"
	AgentOpenRouter = "openrouter"
)

// Environment variable names for API keys and overrides.
const (
	EnvAgentMode        = "AGENT_MODE"
	EnvOllamaAPIKey     = "OLLAMA_API_KEY" //nolint:gosec // env var name, not a credential
	EnvOllamaMode       = "OLLAMA_MODE"
	EnvOllamaBaseURL    = "OLLAMA_BASE_URL"
	EnvOpenRouterAPIKey = "OPENROUTER_API_KEY" //nolint:gosec // env var name, not a credential
	EnvOpenRouterMode   = "OPENROUTER_MODE"
	EnvOpenRouterModel  = "OPENROUTER_MODEL"
	EnvGitHubToken      = "GITHUB_TOKEN" //nolint:gosec // env var name, not a credential
	EnvForceUpdate      = "FORCE_UPDATE"
)

// Hosted API endpoints used when an agent has no config entry but its
// API key is present in the environment.
const (
	DefaultOllamaEndpoint     = "https://api.ollama.ai/v1"
	DefaultOpenRouterEndpoint = "https://openrouter.ai/api/v1"
)

// Config file constants.
const (
	ConfigFilename = "config.yml"
	AppConfigDir   = ".browseroskb"
)

// AgentConfig holds one agent's mode and per-transport settings. The
// transport maps are open key bags so transports can carry settings the
// loader does not interpret.
type AgentConfig struct {
	Mode    string         `yaml:"mode"`
	Enabled *bool          `yaml:"enabled"`
	Models  map[string]any `yaml:"models"`
	HTTP    map[string]any `yaml:"http"`
	SDK     map[string]any `yaml:"sdk"`
	MCP     map[string]any `yaml:"mcp"`
	Docker  map[string]any `yaml:"docker"`
	Local   map[string]any `yaml:"local"`
}

// IsEnabled reports whether the agent is enabled. Absent means enabled.
func (a *AgentConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// Transport returns the settings map for the named transport mode, or nil.
func (a *AgentConfig) Transport(mode string) map[string]any {
	switch mode {
	case ModeHTTP:
		return a.HTTP
	case ModeSDK:
		return a.SDK
	case ModeMCP:
		return a.MCP
	case ModeDocker:
		return a.Docker
	case ModeLocal:
		return a.Local
	default:
		return nil
	}
}

// Config is the resolved configuration document. Sections the toolkit does
// not interpret directly stay as open maps reachable through Get.
type Config struct {
	AgentMode string                 `yaml:"agent_mode"`
	Agents    map[string]AgentConfig `yaml:"agents"`

	Research      map[string]any `yaml:"research"`
	Validation    map[string]any `yaml:"validation"`
	Logging       map[string]any `yaml:"logging"`
	Monitoring    map[string]any `yaml:"monitoring"`
	Performance   map[string]any `yaml:"performance"`
	Security      map[string]any `yaml:"security"`
	Features      map[string]any `yaml:"features"`
	Experimental  map[string]any `yaml:"experimental"`
	Cost          map[string]any `yaml:"cost"`
	GitHubActions map[string]any `yaml:"github_actions"`

	// raw mirrors the full document after env overrides, for Get.
	raw map[string]any
}

// Agent returns the configuration for the named agent, case-insensitively.
// The second return is false when the agent has no config entry.
func (c *Config) Agent(name string) (AgentConfig, bool) {
	agent, ok := c.Agents[strings.ToLower(name)]
	return agent, ok
}

// AgentModeFor returns the effective mode for an agent: the agent's own
// mode when set, otherwise http.
func (c *Config) AgentModeFor(name string) string {
	if agent, ok := c.Agent(name); ok && agent.Mode != "" {
		return agent.Mode
	}
	return ModeHTTP
}

// IsFeatureEnabled reports whether features.<name> is truthy.
func (c *Config) IsFeatureEnabled(name string) bool {
	return isTruthy(c.Get("features."+name, false))
}

// Get walks a dot-separated path through the configuration and returns the
// value found, or def when any segment is missing. It never panics and
// performs no type coercion on the stored value.
func (c *Config) Get(path string, def any) any {
	if path == "" {
		return def
	}
	var cur any = c.raw
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		cur, ok = m[seg]
		if !ok {
			return def
		}
	}
	if cur == nil {
		return def
	}
	return cur
}

// GetString is Get narrowed to string values; non-strings fall back to def.
func (c *Config) GetString(path, def string) string {
	if s, ok := c.Get(path, def).(string); ok {
		return s
	}
	return def
}

// GetInt is Get narrowed to int values; YAML integers decode as int.
func (c *Config) GetInt(path string, def int) int {
	switch v := c.Get(path, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// GetBool is Get narrowed to booleans. String values are not coerced:
// a literal "true" in the document stays a string and falls back to def.
func (c *Config) GetBool(path string, def bool) bool {
	if b, ok := c.Get(path, def).(bool); ok {
		return b
	}
	return def
}

func isTruthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(val) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	case int:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}
