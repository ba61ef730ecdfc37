// ABOUTME: Tests for the publish run history store.
// ABOUTME: Validates logging, querying, and filter behavior.
package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "shipit.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRun(started time.Time) RunRecord {
	return RunRecord{
		RemoteURL:     "https://github.com/harper/telegram-ai-bot.git",
		Branch:        "main",
		CommitMessage: "Initial commit: Telegram AI bot",
		CommitHash:    "abc123",
		Initialized:   true,
		Clean:         true,
		StartedAt:     started,
		FinishedAt:    started.Add(2 * time.Second),
		Steps: []StepRecord{
			{Seq: 1, Name: "ensure repository", Command: "git init", RanAt: started},
			{Seq: 2, Name: "configure remote", Command: "git remote add origin ...", RanAt: started},
			{Seq: 3, Name: "stage and commit", Command: "git commit -m ...", RanAt: started},
			{Seq: 4, Name: "publish branch", Command: "git push -u origin main --force", RanAt: started},
		},
	}
}

func TestLogAndQueryRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	runID, err := store.LogRun(ctx, sampleRun(time.Now()))
	if err != nil {
		t.Fatalf("LogRun() error: %v", err)
	}
	if runID <= 0 {
		t.Fatalf("LogRun() id = %d", runID)
	}

	runs, err := store.QueryRuns(ctx, 10, nil, "")
	if err != nil {
		t.Fatalf("QueryRuns() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}

	run := runs[0]
	if run.RemoteURL != "https://github.com/harper/telegram-ai-bot.git" {
		t.Errorf("RemoteURL = %q", run.RemoteURL)
	}
	if !run.Clean || !run.Initialized {
		t.Errorf("Clean = %v, Initialized = %v, want both true", run.Clean, run.Initialized)
	}
	if len(run.Steps) != 4 {
		t.Fatalf("len(Steps) = %d, want 4", len(run.Steps))
	}
	if run.Steps[0].Name != "ensure repository" || run.Steps[3].Seq != 4 {
		t.Errorf("steps out of order: %+v", run.Steps)
	}
}

func TestQueryRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		if _, err := store.LogRun(ctx, sampleRun(base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("LogRun() error: %v", err)
		}
	}

	runs, err := store.QueryRuns(ctx, 2, nil, "")
	if err != nil {
		t.Fatalf("QueryRuns() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("runs not newest-first: %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestQueryRunsSinceFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := sampleRun(time.Now().Add(-48 * time.Hour))
	recent := sampleRun(time.Now())
	if _, err := store.LogRun(ctx, old); err != nil {
		t.Fatalf("LogRun() error: %v", err)
	}
	if _, err := store.LogRun(ctx, recent); err != nil {
		t.Fatalf("LogRun() error: %v", err)
	}

	since := time.Now().Add(-24 * time.Hour)
	runs, err := store.QueryRuns(ctx, 10, &since, "")
	if err != nil {
		t.Fatalf("QueryRuns() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
}

func TestQueryRunsSearchFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	other := sampleRun(time.Now())
	other.RemoteURL = "https://github.com/example/weather-bot.git"
	if _, err := store.LogRun(ctx, sampleRun(time.Now())); err != nil {
		t.Fatalf("LogRun() error: %v", err)
	}
	if _, err := store.LogRun(ctx, other); err != nil {
		t.Fatalf("LogRun() error: %v", err)
	}

	runs, err := store.QueryRuns(ctx, 10, nil, "weather")
	if err != nil {
		t.Fatalf("QueryRuns() error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].RemoteURL != other.RemoteURL {
		t.Errorf("RemoteURL = %q", runs[0].RemoteURL)
	}
}

func TestLogRunWithStepErrors(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRun(time.Now())
	rec.Clean = false
	rec.Steps[3].Error = "git push -u origin main --force: exit status 128"
	if _, err := store.LogRun(ctx, rec); err != nil {
		t.Fatalf("LogRun() error: %v", err)
	}

	runs, err := store.QueryRuns(ctx, 1, nil, "")
	if err != nil {
		t.Fatalf("QueryRuns() error: %v", err)
	}
	if runs[0].Clean {
		t.Error("Clean = true for failed run")
	}
	if runs[0].Steps[3].Error == "" {
		t.Error("step error not persisted")
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("Open() expected error for empty path")
	}
}
