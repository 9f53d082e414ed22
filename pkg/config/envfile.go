package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ParseEnvFile reads KEY=VALUE pairs from a .env-style file. Blank lines
// and lines starting with # are skipped. Values keep their literal text:
// surrounding single or double quotes are stripped, but no type coercion
// happens, so "true" stays the string "true".
func ParseEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open env file: %w", err)
	}
	defer func() { _ = file.Close() }()

	pairs := map[string]string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		if key != "" {
			pairs[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return pairs, nil
}

// LoadEnvFile reads a .env-style file and sets each pair into the process
// environment. Variables already set in the environment win.
func LoadEnvFile(path string) error {
	pairs, err := ParseEnvFile(path)
	if err != nil {
		return err
	}
	for key, value := range pairs {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// WriteEnvFile writes pairs as KEY=VALUE lines, sorted by key so output is
// stable. Values containing whitespace or # are double-quoted. The file is
// written with 0600 permissions since it commonly holds API keys.
func WriteEnvFile(path string, pairs map[string]string) error {
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		value := pairs[key]
		if strings.ContainsAny(value, " \t#") {
			value = `"` + value + `"`
		}
		fmt.Fprintf(&sb, "%s=%s\n", key, value)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	return nil
}
