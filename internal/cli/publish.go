// ABOUTME: Root run handler executing the four-step publish sequence.
// ABOUTME: Wires config, the publisher, run history, and the exit pause.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/harper/shipit/internal/config"
	"github.com/harper/shipit/internal/history"
	"github.com/harper/shipit/internal/publish"
	"github.com/spf13/cobra"
)

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("locating working directory: %w", err)
	}

	pub := publish.New(dir, cmd.OutOrStdout())
	if !pub.Git.Available() {
		return fmt.Errorf("git not found on PATH; install a git client and try again")
	}

	result, err := pub.Run(cmd.Context(), publishParams(dir, cfg))
	if err != nil {
		return err
	}

	if logErr := logRun(cmd.Context(), result); logErr != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: unable to record run history: %v\n", logErr)
	}

	// Step failures already showed up in git's own output; the exit code
	// stays zero either way.
	newPrompter(cmd.OutOrStdout()).Pause("Press Enter to close...")
	return nil
}

func publishParams(dir string, cfg *config.Config) publish.Params {
	return publish.Params{
		Dir:           dir,
		RemoteURL:     cfg.RemoteURL,
		RemoteName:    cfg.RemoteName,
		Branch:        cfg.Branch,
		CommitMessage: cfg.CommitMessage,
	}
}

func logRun(ctx context.Context, result *publish.Result) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	_, err = store.LogRun(ctx, runRecord(result))
	return err
}

// runRecord converts a publish result into its history row.
func runRecord(result *publish.Result) history.RunRecord {
	rec := history.RunRecord{
		RemoteURL:     result.Params.RemoteURL,
		Branch:        result.Params.Branch,
		CommitMessage: result.Params.CommitMessage,
		CommitHash:    result.HeadHash,
		Initialized:   result.Initialized,
		Clean:         result.Clean(),
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
	}
	for _, step := range result.Steps {
		rec.Steps = append(rec.Steps, history.StepRecord{
			Seq:     step.Seq,
			Name:    step.Name,
			Command: step.Command,
			Error:   step.Error,
			RanAt:   step.RanAt,
		})
	}
	return rec
}
