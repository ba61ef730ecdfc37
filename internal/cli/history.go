// ABOUTME: History command for viewing persisted publish runs.
// ABOUTME: Queries the local SQLite database with date and text filters.
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/harper/shipit/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show persisted publish runs",
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "limit number of rows")
	cmd.Flags().String("since", "", "filter by natural language date (e.g. yesterday)")
	cmd.Flags().String("search", "", "search remote URL and commit message")
	cmd.Flags().Bool("json", false, "output JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = 20
	}

	sinceStr, _ := cmd.Flags().GetString("since")
	search, _ := cmd.Flags().GetString("search")
	asJSON, _ := cmd.Flags().GetBool("json")

	var since *time.Time
	if sinceStr != "" {
		parsed, err := dateparse.ParseLocal(sinceStr)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		since = &parsed
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.QueryRuns(cmd.Context(), limit, since, search)
	if err != nil {
		return err
	}

	if asJSON {
		return writeRunsJSON(cmd, records)
	}
	writeRunsTable(cmd, records)
	return nil
}

func writeRunsJSON(cmd *cobra.Command, records []history.RunRecord) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeRunsTable(cmd *cobra.Command, records []history.RunRecord) {
	if len(records) == 0 {
		cmd.Println("No publish runs recorded.")
		return
	}
	for _, rec := range records {
		timestamp := rec.StartedAt.Local().Format(time.RFC3339)
		outcome := "ok"
		if !rec.Clean {
			outcome = "with errors"
		}
		cmd.Printf("%s [%d] %s -> %s (%s)\n", timestamp, rec.ID, rec.Branch, rec.RemoteURL, outcome)
		if rec.CommitHash != "" {
			cmd.Printf("  Commit: %s %s\n", shortHash(rec.CommitHash), rec.CommitMessage)
		}
		if rec.Initialized {
			cmd.Printf("  Repository initialized on this run\n")
		}
		for _, step := range rec.Steps {
			if step.Error != "" {
				cmd.Printf("  Failed step %d (%s): %s\n", step.Seq, step.Name, step.Error)
			}
		}
	}
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
