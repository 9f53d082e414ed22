package logx

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// setupTestLogger sets up a bytes.Buffer as the log sink for testing.
func setupTestLogger() *bytes.Buffer {
	var buf bytes.Buffer
	logWriterLock.Lock()
	logWriter = &buf
	logWriterLock.Unlock()
	return &buf
}

// resetTestLogger resets the logger to default stderr.
func resetTestLogger() {
	logWriterLock.Lock()
	logWriter = nil
	logWriterLock.Unlock()
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("research")

	if logger.GetName() != "research" {
		t.Errorf("Expected name 'research', got '%s'", logger.GetName())
	}
}

func TestLogFormat(t *testing.T) {
	buf := setupTestLogger()
	defer resetTestLogger()

	logger := NewLogger("connector")
	logger.Info("Test message with %s", "formatting")

	output := buf.String()

	if !strings.Contains(output, "[connector]") {
		t.Errorf("Expected logger name in output, got: %s", output)
	}

	if !strings.Contains(output, "INFO") {
		t.Errorf("Expected log level in output, got: %s", output)
	}

	if !strings.Contains(output, "Test message with formatting") {
		t.Errorf("Expected formatted message in output, got: %s", output)
	}

	// Check timestamp format (basic check)
	if !strings.Contains(output, "T") || !strings.Contains(output, "Z") {
		t.Errorf("Expected ISO timestamp in output, got: %s", output)
	}
}

func TestLogLevels(t *testing.T) {
	logger := NewLogger("test")

	tests := []struct {
		level    Level
		logFunc  func(string, ...any)
		expected string
	}{
		{LevelDebug, logger.Debug, "DEBUG"},
		{LevelInfo, logger.Info, "INFO"},
		{LevelWarn, logger.Warn, "WARN"},
		{LevelError, logger.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			buf := setupTestLogger()
			defer resetTestLogger()

			// Debug is gated; enable it for the DEBUG case only.
			if tt.level == LevelDebug {
				SetDebug(true)
				defer SetDebug(false)
			}

			tt.logFunc("test message")

			output := buf.String()
			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected level '%s' in output, got: %s", tt.expected, output)
			}
		})
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	buf := setupTestLogger()
	defer resetTestLogger()

	SetDebug(false)
	logger := NewLogger("test")
	logger.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("Expected no output with debug disabled, got: %s", buf.String())
	}
}

func TestWithName(t *testing.T) {
	original := NewLogger("resolver")
	derived := original.WithName("ollama")

	if derived.GetName() != "ollama" {
		t.Errorf("Expected derived name 'ollama', got '%s'", derived.GetName())
	}

	if original.GetName() != "resolver" {
		t.Errorf("Expected original name unchanged, got '%s'", original.GetName())
	}

	buf := setupTestLogger()
	defer resetTestLogger()

	original.Info("probing")
	derived.Info("probing")

	output := buf.String()
	if !strings.Contains(output, "[resolver]") {
		t.Error("Expected original logger to work")
	}
	if !strings.Contains(output, "[ollama]") {
		t.Error("Expected derived logger to work")
	}
}

func TestTimestampFormat(t *testing.T) {
	buf := setupTestLogger()
	defer resetTestLogger()

	logger := NewLogger("test")
	logger.Info("timestamp test")

	output := buf.String()

	// Extract timestamp (should be between first [ and ])
	start := strings.Index(output, "[")
	end := strings.Index(output, "]")

	if start == -1 || end == -1 || end <= start {
		t.Fatalf("Could not find timestamp in output: %s", output)
	}

	timestamp := output[start+1 : end]

	_, err := time.Parse("2006-01-02T15:04:05.000Z", timestamp)
	if err != nil {
		t.Errorf("Invalid timestamp format '%s': %v", timestamp, err)
	}
}

func TestWrap(t *testing.T) {
	buf := setupTestLogger()
	defer resetTestLogger()

	if Wrap(nil, "load config") != nil {
		t.Error("Expected nil for nil error")
	}

	err := Wrap(errFixture, "load config")
	if err == nil {
		t.Fatal("Expected wrapped error")
	}
	if !strings.Contains(err.Error(), "load config: boom") {
		t.Errorf("Unexpected wrapped message: %s", err.Error())
	}
	if !strings.Contains(buf.String(), "load config: boom") {
		t.Errorf("Expected wrap to log, got: %s", buf.String())
	}
}

var errFixture = errTest{}

type errTest struct{}

func (errTest) Error() string { return "boom" }
