// ABOUTME: Tests for publish result to history record conversion.
// ABOUTME: Ensures step outcomes survive the translation.
package cli

import (
	"testing"
	"time"

	"github.com/harper/shipit/internal/publish"
)

func TestRunRecord(t *testing.T) {
	now := time.Now()
	result := &publish.Result{
		Params: publish.Params{
			RemoteURL:     "https://github.com/harper/telegram-ai-bot.git",
			Branch:        "main",
			CommitMessage: "Initial commit: Telegram AI bot",
		},
		Initialized: true,
		HeadHash:    "abc123",
		StartedAt:   now,
		FinishedAt:  now.Add(time.Second),
		Steps: []publish.StepResult{
			{Seq: 1, Name: "ensure repository", Command: "git init", RanAt: now},
			{Seq: 2, Name: "configure remote", RanAt: now},
			{Seq: 3, Name: "stage and commit", RanAt: now},
			{Seq: 4, Name: "publish branch", Error: "exit status 128", RanAt: now},
		},
	}

	rec := runRecord(result)
	if rec.RemoteURL != result.Params.RemoteURL {
		t.Errorf("RemoteURL = %q", rec.RemoteURL)
	}
	if rec.Clean {
		t.Error("Clean = true despite failed step")
	}
	if !rec.Initialized {
		t.Error("Initialized not carried over")
	}
	if rec.CommitHash != "abc123" {
		t.Errorf("CommitHash = %q", rec.CommitHash)
	}
	if len(rec.Steps) != 4 {
		t.Fatalf("len(Steps) = %d, want 4", len(rec.Steps))
	}
	if rec.Steps[3].Error != "exit status 128" {
		t.Errorf("step error = %q", rec.Steps[3].Error)
	}
}
