package resilience

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"browseroskb/pkg/logx"
)

var fileLog = logx.NewLogger("resilience")

// SafeFileRead returns the file's contents, or def when the file cannot be
// read. Failures are logged at warn level and never propagate.
func SafeFileRead(path, def string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fileLog.Warn("Failed to read %s: %v, using default", path, err)
		return def
	}
	return string(data)
}

// SafeFileWrite writes content to path, creating parent directories when
// createDirs is set. Errors are logged and returned.
func SafeFileWrite(path, content string, createDirs bool) error {
	if createDirs {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				fileLog.Error("Failed to create directory %s: %v", dir, err)
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		fileLog.Error("Failed to write %s: %v", path, err)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SafeJSONLoad unmarshals data into T, returning def when the payload is
// not valid JSON for T. Parse failures are logged, never raised.
func SafeJSONLoad[T any](data []byte, def T) T {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		fileLog.Warn("Failed to parse JSON: %v, using default", err)
		return def
	}
	return out
}

// SafeJSONFileLoad reads and unmarshals a JSON file, returning def when the
// file is missing or malformed.
func SafeJSONFileLoad[T any](path string, def T) T {
	data, err := os.ReadFile(path)
	if err != nil {
		fileLog.Warn("Failed to read %s: %v, using default", path, err)
		return def
	}
	return SafeJSONLoad(data, def)
}
