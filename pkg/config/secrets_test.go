package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSecretStoreRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	password := "test-password-12345"

	store := NewSecretStore()
	store.Set("GITHUB_TOKEN", "ghp_test123456789")
	store.Set("OPENROUTER_API_KEY", "sk-or-test-0123456789")

	if err := store.Save(tmpDir, password); err != nil {
		t.Fatalf("Failed to save secrets: %v", err)
	}

	path := filepath.Join(tmpDir, AppConfigDir, secretsFileName)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Secrets file was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected file permissions 0600, got %04o", info.Mode().Perm())
	}

	opened, err := OpenSecretStore(tmpDir, password)
	if err != nil {
		t.Fatalf("Failed to open secrets: %v", err)
	}

	got, err := opened.Get("GITHUB_TOKEN")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "ghp_test123456789" {
		t.Errorf("Expected decrypted token, got %q", got)
	}

	names := opened.Names()
	if len(names) != 2 {
		t.Errorf("Expected 2 secret names, got %v", names)
	}
}

func TestOpenWithWrongPassword(t *testing.T) {
	tmpDir := t.TempDir()

	store := NewSecretStore()
	store.Set("GITHUB_TOKEN", "ghp_test123456789")
	if err := store.Save(tmpDir, "correct-password"); err != nil {
		t.Fatalf("Failed to save secrets: %v", err)
	}

	if _, err := OpenSecretStore(tmpDir, "wrong-password"); err == nil {
		t.Fatal("Expected error for wrong password")
	}
}

func TestGetFallsBackToEnv(t *testing.T) {
	t.Setenv("KB_SECRET_FROM_ENV", "env-value-0123456789")

	store := NewSecretStore()
	got, err := store.Get("KB_SECRET_FROM_ENV")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "env-value-0123456789" {
		t.Errorf("Expected env fallback, got %q", got)
	}

	if _, err := store.Get("KB_SECRET_DOES_NOT_EXIST"); err == nil {
		t.Error("Expected error for unknown secret")
	}
}

func TestStorePrecedenceOverEnv(t *testing.T) {
	t.Setenv("KB_SECRET_SHADOWED", "env-value")

	store := NewSecretStore()
	store.Set("KB_SECRET_SHADOWED", "file-value")

	got, err := store.Get("KB_SECRET_SHADOWED")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "file-value" {
		t.Errorf("Expected store value to shadow env, got %q", got)
	}
}

func TestDeleteSecret(t *testing.T) {
	store := NewSecretStore()
	store.Set("TO_DELETE", "value")
	store.Delete("TO_DELETE")

	if _, err := store.Get("TO_DELETE"); err == nil {
		t.Error("Expected error after delete")
	}
}

func TestCorruptedSecretsFile(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	path := filepath.Join(configDir, secretsFileName)
	if err := os.WriteFile(path, []byte("too short"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := OpenSecretStore(tmpDir, "any-password"); err == nil {
		t.Fatal("Expected error for corrupted file")
	}
}
