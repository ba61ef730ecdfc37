// ABOUTME: MCP command for starting the Model Context Protocol server.
// ABOUTME: Exposes publish, status, and history capabilities over stdio.
package cli

import (
	"fmt"
	"os"

	shipitmcp "github.com/harper/shipit/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server",
		RunE:  runMCP,
	}
	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("locating working directory: %w", err)
	}

	store, dbPath, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	server, err := shipitmcp.NewServer(cfg, cfgPath, store, dbPath, workDir)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server (stdio)...")
	return server.Serve(cmd.Context())
}
