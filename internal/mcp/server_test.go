// ABOUTME: Tests for MCP server construction.
// ABOUTME: Validates required dependencies are enforced.
package mcp

import (
	"path/filepath"
	"testing"

	"github.com/harper/shipit/internal/config"
	"github.com/harper/shipit/internal/history"
)

func TestNewServer(t *testing.T) {
	cfg := &config.Config{}
	cfg.Normalize()

	store, err := history.Open(filepath.Join(t.TempDir(), "shipit.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := NewServer(nil, "", store, "", t.TempDir()); err == nil {
		t.Error("NewServer() expected error for nil config")
	}
	if _, err := NewServer(cfg, "", nil, "", t.TempDir()); err == nil {
		t.Error("NewServer() expected error for nil store")
	}
	if _, err := NewServer(cfg, "", store, "", ""); err == nil {
		t.Error("NewServer() expected error for empty working directory")
	}

	srv, err := NewServer(cfg, "/tmp/config.toml", store, "/tmp/shipit.db", t.TempDir())
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	if srv == nil {
		t.Fatal("NewServer() returned nil server")
	}

	cfg.RemoteURL = "https://github.com/example/other.git"
	if srv.cfg.RemoteURL == cfg.RemoteURL {
		t.Error("server config shares storage with the caller's config")
	}
}
