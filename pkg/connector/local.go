package connector

import (
	"context"
	"os/exec"

	"browseroskb/pkg/logx"
)

// DefaultServeAddress is the address a locally running model daemon
// listens on when the config does not override it.
const DefaultServeAddress = "127.0.0.1:11434"

// LocalConfig configures a Local connector.
type LocalConfig struct {
	Agent        string // Agent name
	BinaryPath   string // Binary probed with --version
	ServeAddress string // host:port of the daemon, DefaultServeAddress when empty
	Model        string // Default model
}

// LocalConnector queries a model daemon started from a local binary.
// Queries delegate to an HTTP connector against the serve address;
// availability invokes the binary with --version and checks for exit 0.
type LocalConnector struct {
	cfg  LocalConfig
	http *HTTPConnector
	log  *logx.Logger

	// runCommand is swapped out in tests.
	runCommand func(ctx context.Context, name string, args ...string) error
}

// NewLocalConnector creates a Local connector.
func NewLocalConnector(cfg LocalConfig) *LocalConnector {
	addr := cfg.ServeAddress
	if addr == "" {
		addr = DefaultServeAddress
	}
	return &LocalConnector{
		cfg: cfg,
		http: NewHTTPConnector(HTTPConfig{
			Agent:   cfg.Agent,
			BaseURL: "http://" + addr + "/v1",
			Model:   cfg.Model,
		}),
		log: logx.NewLogger(cfg.Agent),
		runCommand: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func (l *LocalConnector) Transport() Transport {
	return TransportLocal
}

// Query delegates to the daemon's HTTP endpoint.
func (l *LocalConnector) Query(ctx context.Context, prompt string, opts QueryOptions) (string, error) {
	return l.http.Query(ctx, prompt, opts)
}

// Available runs the binary with --version and checks for a zero exit.
func (l *LocalConnector) Available(ctx context.Context) bool {
	if l.cfg.BinaryPath == "" {
		return false
	}

	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	if err := l.runCommand(probeCtx, l.cfg.BinaryPath, "--version"); err != nil {
		l.log.Debug("Local probe failed: %v", err)
		return false
	}
	return true
}
