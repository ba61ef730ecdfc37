// ABOUTME: Configuration management for the shipit application.
// ABOUTME: Handles TOML config file loading, saving, and publish defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Built-in publish target. shipit was written to push one specific project;
// the config file can point it elsewhere, but nothing is ever required.
const (
	DefaultRemoteURL     = "https://github.com/harper/telegram-ai-bot.git"
	DefaultBranch        = "main"
	DefaultRemoteName    = "origin"
	DefaultCommitMessage = "Initial commit: Telegram AI bot"
)

// Config describes the persisted shipit settings.
type Config struct {
	RemoteURL     string `toml:"remote_url"`
	RemoteName    string `toml:"remote_name"`
	Branch        string `toml:"branch"`
	CommitMessage string `toml:"commit_message"`
}

// Load reads the config from disk. If the file does not exist it returns the
// built-in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := &Config{}
		cfg.Normalize()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the config atomically to disk.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	tmpName := tmpFile.Name()
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp config file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp config file: %w", err)
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting config permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing config: %w", err)
	}

	return nil
}

// Normalize fills empty fields with the built-in publish target.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	if strings.TrimSpace(c.RemoteURL) == "" {
		c.RemoteURL = DefaultRemoteURL
	}
	if strings.TrimSpace(c.RemoteName) == "" {
		c.RemoteName = DefaultRemoteName
	}
	if strings.TrimSpace(c.Branch) == "" {
		c.Branch = DefaultBranch
	}
	if strings.TrimSpace(c.CommitMessage) == "" {
		c.CommitMessage = DefaultCommitMessage
	}
}

// Validate ensures the config can drive a publish run.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.RemoteURL) == "" {
		return errors.New("remote URL is missing")
	}
	if strings.TrimSpace(c.Branch) == "" {
		return errors.New("branch is missing")
	}
	if strings.TrimSpace(c.CommitMessage) == "" {
		return errors.New("commit message is missing")
	}
	return nil
}

// Clone returns a shallow copy of the config to avoid accidental mutation.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}
