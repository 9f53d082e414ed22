package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"browseroskb/pkg/logx"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// envOverrides maps environment variables to the config paths they set.
// FORCE_UPDATE is handled separately because it coerces to bool.
var envOverrides = []struct {
	Env  string
	Path string
}{
	{EnvAgentMode, "agent_mode"},
	{EnvOllamaAPIKey, "agents.ollama.http.api_key"},
	{EnvOllamaMode, "agents.ollama.mode"},
	{EnvOllamaBaseURL, "agents.ollama.http.base_url"},
	{EnvOpenRouterAPIKey, "agents.openrouter.http.api_key"},
	{EnvOpenRouterMode, "agents.openrouter.mode"},
	{EnvOpenRouterModel, "agents.openrouter.models.primary"},
	{EnvGitHubToken, "research.github.token"},
}

// Loader reads the YAML config file once and caches the result. A missing
// file yields an empty document rather than an error, so callers always
// get a usable Config.
type Loader struct {
	path string
	log  *logx.Logger

	once sync.Once
	cfg  *Config
	err  error
}

// NewLoader returns a Loader for the given config file path. An empty path
// defaults to config.yml in the working directory.
func NewLoader(path string) *Loader {
	if path == "" {
		path = ConfigFilename
	}
	return &Loader{
		path: path,
		log:  logx.NewLogger("config"),
	}
}

// Load parses the config file, applies environment overrides, and returns
// the resolved Config. Subsequent calls return the cached result.
func (l *Loader) Load() (*Config, error) {
	l.once.Do(func() {
		l.cfg, l.err = l.load()
	})
	return l.cfg, l.err
}

func (l *Loader) load() (*Config, error) {
	raw := map[string]any{}

	data, err := os.ReadFile(l.path)
	switch {
	case os.IsNotExist(err):
		l.log.Warn("Config file %s not found, using defaults and environment", l.path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Replace ${VAR} placeholders before parsing.
		text := envVarRegex.ReplaceAllStringFunc(string(data), func(match string) string {
			envVar := match[2 : len(match)-1]
			if value := os.Getenv(envVar); value != "" {
				return value
			}
			return match // Leave placeholder intact if env var not set
		})

		if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	applyEnvOverrides(raw)

	cfg, err := decode(raw)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	l.log.Debug("Loaded config from %s (%d agents, mode %s)", l.path, len(cfg.Agents), cfg.AgentMode)
	return cfg, nil
}

func applyEnvOverrides(raw map[string]any) {
	for _, ov := range envOverrides {
		if value := os.Getenv(ov.Env); value != "" {
			setPath(raw, ov.Path, value)
		}
	}
	if value := os.Getenv(EnvForceUpdate); value != "" {
		setPath(raw, "research.force_update", isTruthy(value))
	}
}

// setPath writes a value at a dot-separated path, creating intermediate
// maps as needed. Non-map intermediates are replaced.
func setPath(raw map[string]any, path string, value any) {
	segs := strings.Split(path, ".")
	cur := raw
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
}

// decode round-trips the raw document through YAML into the typed Config.
// The raw map is retained for Get.
func decode(raw map[string]any) (*Config, error) {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.raw = raw
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.AgentMode == "" {
		cfg.AgentMode = ModeHybrid
	}
	if cfg.Agents == nil {
		cfg.Agents = map[string]AgentConfig{}
	}

	// Lower-case agent keys so lookups are case-insensitive.
	for name, agent := range cfg.Agents {
		lower := strings.ToLower(name)
		if lower != name {
			delete(cfg.Agents, name)
		}
		if agent.Mode == "" {
			agent.Mode = ModeHTTP
		}
		cfg.Agents[lower] = agent
	}

	for _, section := range []*map[string]any{
		&cfg.Research, &cfg.Validation, &cfg.Logging, &cfg.Monitoring,
		&cfg.Performance, &cfg.Security, &cfg.Features, &cfg.Experimental,
		&cfg.Cost, &cfg.GitHubActions,
	} {
		if *section == nil {
			*section = map[string]any{}
		}
	}
}
