// ABOUTME: Read-only repository inspection built on go-git.
// ABOUTME: Reports branch, remote, tracking, HEAD, and working tree state.
package gitx

import (
	"errors"
	"fmt"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RepoStatus summarizes a repository without touching it.
type RepoStatus struct {
	Path           string `json:"path"`
	Exists         bool   `json:"exists"`
	Branch         string `json:"branch,omitempty"`
	RemoteURL      string `json:"remote_url,omitempty"`
	UpstreamRemote string `json:"upstream_remote,omitempty"`
	UpstreamBranch string `json:"upstream_branch,omitempty"`
	HeadHash       string `json:"head_hash,omitempty"`
	HeadSubject    string `json:"head_subject,omitempty"`
	DirtyPaths     int    `json:"dirty_paths"`
}

// Tracking reports whether the active branch has an upstream configured.
func (s *RepoStatus) Tracking() bool {
	return s != nil && s.UpstreamRemote != "" && s.UpstreamBranch != ""
}

// Inspect opens the repository at path and collects its status. A missing
// repository is not an error; it is reported via Exists.
func Inspect(path string, remoteName string) (*RepoStatus, error) {
	status := &RepoStatus{Path: path}
	if remoteName == "" {
		remoteName = "origin"
	}

	repo, err := gitlib.PlainOpenWithOptions(path, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gitlib.ErrRepositoryNotExists) {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	status.Exists = true

	if remote, err := repo.Remote(remoteName); err == nil {
		urls := remote.Config().URLs
		if len(urls) > 0 {
			status.RemoteURL = urls[0]
		}
	}

	headRef, err := repo.Head()
	if err == nil && headRef != nil {
		if headRef.Name().IsBranch() {
			status.Branch = headRef.Name().Short()
		}
		status.HeadHash = headRef.Hash().String()
		if commit, err := repo.CommitObject(headRef.Hash()); err == nil {
			status.HeadSubject = commitSubject(commit.Message)
		}
	} else {
		// Unborn HEAD: resolve the symbolic ref so the branch name still shows.
		if ref, err := repo.Reference(plumbing.HEAD, false); err == nil && ref.Type() == plumbing.SymbolicReference {
			status.Branch = ref.Target().Short()
		}
	}

	if status.Branch != "" {
		if cfg, err := repo.Config(); err == nil {
			if branch, ok := cfg.Branches[status.Branch]; ok {
				status.UpstreamRemote = branch.Remote
				status.UpstreamBranch = branch.Merge.Short()
			}
		}
	}

	wt, err := repo.Worktree()
	if err == nil {
		wtStatus, err := wt.Status()
		if err == nil {
			for _, st := range wtStatus {
				if st.Worktree != gitlib.Unmodified || st.Staging != gitlib.Unmodified {
					status.DirtyPaths++
				}
			}
		}
	}

	return status, nil
}

func commitSubject(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject)
}
