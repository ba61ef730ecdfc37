// ABOUTME: Tests for the config command.
// ABOUTME: Validates printing and seeding of the config file.
package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/shipit/internal/config"
)

func withConfigPath(t *testing.T, path string) {
	t.Helper()
	prev := opts.configPath
	opts.configPath = path
	t.Cleanup(func() { opts.configPath = prev })
}

func TestConfigInitWritesFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	withConfigPath(t, cfgPath)

	cmd := newConfigCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--init"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.RemoteURL != config.DefaultRemoteURL {
		t.Errorf("RemoteURL = %q, want default %q", loaded.RemoteURL, config.DefaultRemoteURL)
	}
	if loaded.CommitMessage != config.DefaultCommitMessage {
		t.Errorf("CommitMessage = %q, want default %q", loaded.CommitMessage, config.DefaultCommitMessage)
	}
	if !strings.Contains(out.String(), cfgPath) {
		t.Errorf("output does not mention %s:\n%s", cfgPath, out.String())
	}
}

func TestConfigPrintsEffectiveSettings(t *testing.T) {
	withConfigPath(t, filepath.Join(t.TempDir(), "config.toml"))

	cmd := newConfigCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if !strings.Contains(out.String(), config.DefaultRemoteURL) {
		t.Errorf("output missing default remote URL:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "branch = ") {
		t.Errorf("output missing TOML settings:\n%s", out.String())
	}
}

func TestConfigPathFlag(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	withConfigPath(t, cfgPath)

	cmd := newConfigCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--path"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if strings.TrimSpace(out.String()) != cfgPath {
		t.Errorf("output = %q, want %q", strings.TrimSpace(out.String()), cfgPath)
	}
}
