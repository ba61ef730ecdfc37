// ABOUTME: MCP server setup and initialization.
// ABOUTME: Wires together publish tools, resources, and the history store.
package mcp

import (
	"context"
	"fmt"

	"github.com/harper/shipit/internal/config"
	"github.com/harper/shipit/internal/history"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP runtime and shipit integrations.
type Server struct {
	mcp     *mcp.Server
	cfg     *config.Config
	cfgPath string
	store   *history.Store
	dbPath  string
	workDir string
}

// NewServer sets up the MCP server with all tools and resources. workDir is
// the default directory for publish and status operations.
func NewServer(cfg *config.Config, cfgPath string, store *history.Store, dbPath, workDir string) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if store == nil {
		return nil, fmt.Errorf("history store is required")
	}
	if workDir == "" {
		return nil, fmt.Errorf("working directory is required")
	}

	impl := &mcp.Implementation{Name: "shipit", Version: "1.0.0"}
	srv := mcp.NewServer(impl, nil)

	// The server holds its own copy so later mutation by the caller
	// cannot change the publish target mid-session.
	server := &Server{
		mcp:     srv,
		cfg:     cfg.Clone(),
		cfgPath: cfgPath,
		store:   store,
		dbPath:  dbPath,
		workDir: workDir,
	}

	server.registerTools()
	server.registerResources()

	return server, nil
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve(ctx context.Context) error {
	transport := &mcp.StdioTransport{}
	return s.mcp.Run(ctx, transport)
}

func (s *Server) resolveDir(dir string) string {
	if dir == "" {
		return s.workDir
	}
	return dir
}
