package connector

import (
	"context"
	"errors"
	"testing"
)

func TestDockerConnectorAvailable(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		err       error
		available bool
	}{
		{"running", "ollama-server\n", nil, true},
		{"other containers only", "postgres\nredis\n", nil, false},
		{"no containers", "", nil, false},
		{"docker missing", "", errors.New("exec: \"docker\": executable file not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := NewDockerConnector(DockerConfig{Agent: "ollama", Container: "ollama-server", Port: "11434"})
			var gotArgs []string
			conn.runCommand = func(_ context.Context, name string, args ...string) ([]byte, error) {
				gotArgs = append([]string{name}, args...)
				return []byte(tt.output), tt.err
			}

			if got := conn.Available(context.Background()); got != tt.available {
				t.Errorf("Available() = %v, want %v", got, tt.available)
			}
			if gotArgs[0] != "docker" || gotArgs[1] != "ps" {
				t.Errorf("probe ran %v, want docker ps", gotArgs)
			}
		})
	}
}

func TestDockerConnectorTransport(t *testing.T) {
	conn := NewDockerConnector(DockerConfig{Agent: "ollama", Container: "c", Port: "8080"})
	if conn.Transport() != TransportDocker {
		t.Errorf("unexpected transport %s", conn.Transport())
	}
}

func TestLocalConnectorAvailable(t *testing.T) {
	conn := NewLocalConnector(LocalConfig{Agent: "ollama", BinaryPath: "/usr/local/bin/ollama"})

	conn.runCommand = func(_ context.Context, name string, args ...string) error {
		if name != "/usr/local/bin/ollama" || len(args) != 1 || args[0] != "--version" {
			t.Errorf("probe ran %s %v, want binary --version", name, args)
		}
		return nil
	}
	if !conn.Available(context.Background()) {
		t.Error("exit 0 probe should report available")
	}

	conn.runCommand = func(_ context.Context, _ string, _ ...string) error {
		return errors.New("exit status 127")
	}
	if conn.Available(context.Background()) {
		t.Error("failing probe should report unavailable")
	}
}

func TestLocalConnectorEmptyBinary(t *testing.T) {
	conn := NewLocalConnector(LocalConfig{Agent: "ollama"})
	if conn.Available(context.Background()) {
		t.Error("connector without a binary path should report unavailable")
	}
}
