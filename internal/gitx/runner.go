// ABOUTME: Subprocess wrapper for the external git client.
// ABOUTME: Runs the mutating commands with output streamed to the console.
package gitx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner invokes the git binary found on PATH for a single working
// directory. Command output is streamed to Stdout/Stderr so git's own
// text appears inline with whatever the caller prints around it.
type Runner struct {
	Dir     string
	GitPath string
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewRunner returns a runner for dir writing command output to out.
func NewRunner(dir string, out, errOut io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = out
	}
	return &Runner{Dir: dir, GitPath: "git", Stdout: out, Stderr: errOut}
}

// Available reports whether a git client can be found on PATH.
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.gitPath())
	return err == nil
}

func (r *Runner) gitPath() string {
	if r.GitPath != "" {
		return r.GitPath
	}
	return "git"
}

// Command renders the invocation for display and history purposes.
func Command(args ...string) string {
	return "git " + strings.Join(args, " ")
}

func (r *Runner) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, r.gitPath(), args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", Command(args...), err)
	}
	return nil
}

func (r *Runner) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.gitPath(), args...)
	cmd.Dir = r.Dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w", Command(args...), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// IsRepo reports whether the working directory already holds repository
// metadata. A plain stat keeps this usable before git has ever run.
func (r *Runner) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Init creates a new repository in the working directory.
func (r *Runner) Init(ctx context.Context) error {
	return r.run(ctx, "init")
}

// RemoveRemote deletes the named remote if it exists.
func (r *Runner) RemoveRemote(ctx context.Context, name string) error {
	cmd := exec.CommandContext(ctx, r.gitPath(), "remote", "remove", name)
	cmd.Dir = r.Dir
	// Output deliberately discarded: "no such remote" is expected noise
	// on a first run and must not reach the console.
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", Command("remote", "remove", name), err)
	}
	return nil
}

// AddRemote registers a remote pointing at url.
func (r *Runner) AddRemote(ctx context.Context, name, url string) error {
	return r.run(ctx, "remote", "add", name, url)
}

// StageAll stages every change in the working tree.
func (r *Runner) StageAll(ctx context.Context) error {
	return r.run(ctx, "add", ".")
}

// Status prints the working tree status to the runner's output.
func (r *Runner) Status(ctx context.Context) error {
	return r.run(ctx, "status")
}

// Commit records the staged changes with the given message.
func (r *Runner) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("commit message is empty")
	}
	return r.run(ctx, "commit", "-m", message)
}

// RenameBranch force-renames the current branch.
func (r *Runner) RenameBranch(ctx context.Context, name string) error {
	return r.run(ctx, "branch", "-M", name)
}

// ForcePushUpstream pushes branch to remote, overwriting remote history
// and establishing upstream tracking.
func (r *Runner) ForcePushUpstream(ctx context.Context, remote, branch string) error {
	return r.run(ctx, "push", "-u", remote, branch, "--force")
}

// HeadHash returns the current HEAD commit hash, or "" when the
// repository has no commits yet.
func (r *Runner) HeadHash(ctx context.Context) string {
	hash, err := r.output(ctx, "rev-parse", "HEAD")
	if err != nil {
		return ""
	}
	return hash
}
