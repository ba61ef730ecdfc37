// ABOUTME: Tests for configuration management.
// ABOUTME: Validates config loading, saving, and default handling.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("Load() returned error for nonexistent file: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.RemoteURL != DefaultRemoteURL {
		t.Errorf("RemoteURL = %q, want default %q", cfg.RemoteURL, DefaultRemoteURL)
	}
	if cfg.Branch != DefaultBranch {
		t.Errorf("Branch = %q, want default %q", cfg.Branch, DefaultBranch)
	}
	if cfg.CommitMessage != DefaultCommitMessage {
		t.Errorf("CommitMessage = %q, want default %q", cfg.CommitMessage, DefaultCommitMessage)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.toml")

	original := &Config{
		RemoteURL:     "https://github.com/example/project.git",
		RemoteName:    "origin",
		Branch:        "main",
		CommitMessage: "Initial commit: example project",
	}

	if err := Save(cfgPath, original); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Verify file permissions
	info, err := os.Stat(cfgPath)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("File permissions = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.RemoteURL != original.RemoteURL {
		t.Errorf("RemoteURL = %q, want %q", loaded.RemoteURL, original.RemoteURL)
	}
	if loaded.Branch != original.Branch {
		t.Errorf("Branch = %q, want %q", loaded.Branch, original.Branch)
	}
	if loaded.CommitMessage != original.CommitMessage {
		t.Errorf("CommitMessage = %q, want %q", loaded.CommitMessage, original.CommitMessage)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(cfgPath, []byte("remote_url = \"https://github.com/example/other.git\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RemoteURL != "https://github.com/example/other.git" {
		t.Errorf("RemoteURL = %q, want file value", cfg.RemoteURL)
	}
	if cfg.Branch != DefaultBranch {
		t.Errorf("Branch = %q, want default %q", cfg.Branch, DefaultBranch)
	}
	if cfg.RemoteName != DefaultRemoteName {
		t.Errorf("RemoteName = %q, want default %q", cfg.RemoteName, DefaultRemoteName)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(cfgPath, []byte("remote_url = [broken"), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if _, err := Load(cfgPath); err == nil {
		t.Fatal("Load() expected error for invalid TOML")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() expected error for empty config")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after Normalize() error: %v", err)
	}
}

func TestClone(t *testing.T) {
	cfg := &Config{RemoteURL: "https://github.com/example/project.git"}
	copied := cfg.Clone()
	copied.RemoteURL = "changed"
	if cfg.RemoteURL == copied.RemoteURL {
		t.Error("Clone() did not copy")
	}

	var nilCfg *Config
	if nilCfg.Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}
