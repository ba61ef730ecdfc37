// ABOUTME: Orchestrator for the four-step publish sequence.
// ABOUTME: Initializes, points origin, commits, and force-pushes with banners.
package publish

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/harper/shipit/internal/gitx"
)

// Params describes one publish run.
type Params struct {
	Dir           string
	RemoteURL     string
	RemoteName    string
	Branch        string
	CommitMessage string
}

// StepResult captures a single step's outcome. Err is recorded for the
// run history; it never stops the sequence.
type StepResult struct {
	Seq     int       `json:"seq"`
	Name    string    `json:"name"`
	Command string    `json:"command"`
	Error   string    `json:"error,omitempty"`
	RanAt   time.Time `json:"ran_at"`
}

// Result summarizes a completed run.
type Result struct {
	Params      Params       `json:"-"`
	Initialized bool         `json:"initialized"`
	HeadHash    string       `json:"head_hash,omitempty"`
	Steps       []StepResult `json:"steps"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
}

// Clean reports whether every step completed without error.
func (r *Result) Clean() bool {
	if r == nil {
		return false
	}
	for _, step := range r.Steps {
		if step.Error != "" {
			return false
		}
	}
	return true
}

// Failed returns the names of steps that recorded an error.
func (r *Result) Failed() []string {
	if r == nil {
		return nil
	}
	var names []string
	for _, step := range r.Steps {
		if step.Error != "" {
			names = append(names, step.Name)
		}
	}
	return names
}

const totalSteps = 4

// Publisher runs the publish sequence against a git runner, writing
// banners to Out in between the runner's own command output.
type Publisher struct {
	Git *gitx.Runner
	Out io.Writer
}

// New returns a publisher for dir with all output going to out.
func New(dir string, out io.Writer) *Publisher {
	return &Publisher{Git: gitx.NewRunner(dir, out, out), Out: out}
}

// Run executes the four steps in order. Every step is attempted no matter
// what the previous one did; failures end up in the step results and in
// git's own console text, nowhere else. The returned error is only ever
// the context's.
func (p *Publisher) Run(ctx context.Context, params Params) (*Result, error) {
	result := &Result{Params: params, StartedAt: time.Now()}

	p.runEnsureRepo(ctx, result)
	p.runConfigureRemote(ctx, params, result)
	p.runStageAndCommit(ctx, params, result)
	p.runPublishBranch(ctx, params, result)

	result.HeadHash = p.Git.HeadHash(ctx)
	result.FinishedAt = time.Now()

	p.printf("\nDone. Repository published to %s\n", params.RemoteURL)
	if failed := result.Failed(); len(failed) > 0 {
		p.printf("Some steps reported problems: %v (see output above)\n", failed)
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, nil
}

func (p *Publisher) runEnsureRepo(ctx context.Context, result *Result) {
	p.banner(1, "Checking for an existing repository...")
	if p.Git.IsRepo() {
		p.printf("Repository already present, reusing it.\n")
		p.record(result, 1, "ensure repository", "", nil)
		return
	}

	p.printf("No repository found, initializing a new one.\n")
	err := p.Git.Init(ctx)
	result.Initialized = err == nil
	p.record(result, 1, "ensure repository", gitx.Command("init"), err)
}

func (p *Publisher) runConfigureRemote(ctx context.Context, params Params, result *Result) {
	p.banner(2, fmt.Sprintf("Pointing %q at %s", params.RemoteName, params.RemoteURL))
	// A missing remote is the expected first-run case; the failure is
	// discarded entirely.
	_ = p.Git.RemoveRemote(ctx, params.RemoteName)
	err := p.Git.AddRemote(ctx, params.RemoteName, params.RemoteURL)
	p.record(result, 2, "configure remote", gitx.Command("remote", "add", params.RemoteName, params.RemoteURL), err)
}

func (p *Publisher) runStageAndCommit(ctx context.Context, params Params, result *Result) {
	p.banner(3, "Staging and committing files...")
	err := p.Git.StageAll(ctx)
	if statusErr := p.Git.Status(ctx); err == nil {
		err = statusErr
	}
	if commitErr := p.Git.Commit(ctx, params.CommitMessage); err == nil {
		// "nothing to commit" lands here on a re-run; git already said so
		// on the console and the sequence keeps going.
		err = commitErr
	}
	p.record(result, 3, "stage and commit", gitx.Command("commit", "-m", params.CommitMessage), err)
}

func (p *Publisher) runPublishBranch(ctx context.Context, params Params, result *Result) {
	p.banner(4, fmt.Sprintf("Publishing branch %q...", params.Branch))
	err := p.Git.RenameBranch(ctx, params.Branch)
	if pushErr := p.Git.ForcePushUpstream(ctx, params.RemoteName, params.Branch); err == nil {
		err = pushErr
	}
	p.record(result, 4, "publish branch", gitx.Command("push", "-u", params.RemoteName, params.Branch, "--force"), err)
}

func (p *Publisher) record(result *Result, seq int, name, command string, err error) {
	step := StepResult{Seq: seq, Name: name, Command: command, RanAt: time.Now()}
	if err != nil {
		step.Error = err.Error()
	}
	result.Steps = append(result.Steps, step)
}

func (p *Publisher) banner(seq int, text string) {
	p.printf("[%d/%d] %s\n", seq, totalSteps, text)
}

func (p *Publisher) printf(format string, args ...interface{}) {
	if p.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(p.Out, format, args...)
}
