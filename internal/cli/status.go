// ABOUTME: Status command for read-only repository inspection.
// ABOUTME: Reports branch, remote, tracking, and working tree summary.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/harper/shipit/internal/gitx"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Inspect the repository in the current directory",
		RunE:  runStatus,
	}

	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("locating working directory: %w", err)
	}

	status, err := gitx.Inspect(dir, cfg.RemoteName)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	if !status.Exists {
		cmd.Printf("No repository in %s (a publish run will create one).\n", dir)
		return nil
	}

	cmd.Printf("Repository: %s\n", status.Path)
	if status.Branch != "" {
		cmd.Printf("Branch: %s\n", status.Branch)
	}
	if status.RemoteURL != "" {
		cmd.Printf("Remote %q: %s\n", cfg.RemoteName, status.RemoteURL)
	} else {
		cmd.Printf("Remote %q: not configured\n", cfg.RemoteName)
	}
	if status.Tracking() {
		cmd.Printf("Tracking: %s/%s\n", status.UpstreamRemote, status.UpstreamBranch)
	} else {
		cmd.Println("Tracking: none")
	}
	if status.HeadHash != "" {
		cmd.Printf("HEAD: %s %s\n", shortHash(status.HeadHash), status.HeadSubject)
	} else {
		cmd.Println("HEAD: no commits yet")
	}
	cmd.Printf("Uncommitted paths: %d\n", status.DirtyPaths)
	return nil
}
