package connector

import (
	"context"
	"os/exec"
	"strings"

	"browseroskb/pkg/logx"
)

// DockerConfig configures a Docker connector.
type DockerConfig struct {
	Agent     string // Agent name
	Container string // Container name to probe with docker ps
	Port      string // Published host port serving the OpenAI-compatible API
	Model     string // Default model
}

// DockerConnector queries a model server published by a local container.
// Queries delegate to an HTTP connector against localhost; availability
// shells out to docker ps and checks the container name appears.
type DockerConnector struct {
	cfg  DockerConfig
	http *HTTPConnector
	log  *logx.Logger

	// runCommand is swapped out in tests.
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewDockerConnector creates a Docker connector.
func NewDockerConnector(cfg DockerConfig) *DockerConnector {
	return &DockerConnector{
		cfg: cfg,
		http: NewHTTPConnector(HTTPConfig{
			Agent:   cfg.Agent,
			BaseURL: "http://localhost:" + cfg.Port + "/v1",
			Model:   cfg.Model,
		}),
		log: logx.NewLogger(cfg.Agent),
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

func (d *DockerConnector) Transport() Transport {
	return TransportDocker
}

// Query delegates to the container's HTTP endpoint.
func (d *DockerConnector) Query(ctx context.Context, prompt string, opts QueryOptions) (string, error) {
	return d.http.Query(ctx, prompt, opts)
}

// Available runs docker ps filtered by the container name and checks the
// name appears in the output.
func (d *DockerConnector) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	out, err := d.runCommand(probeCtx, "docker", "ps",
		"--filter", "name="+d.cfg.Container,
		"--format", "{{.Names}}")
	if err != nil {
		d.log.Debug("Docker probe failed: %v", err)
		return false
	}

	return strings.Contains(string(out), d.cfg.Container)
}
