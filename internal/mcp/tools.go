// ABOUTME: MCP tool definitions and handlers.
// ABOUTME: Implements publish, repo_status, and list_runs operations.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/harper/shipit/internal/gitx"
	"github.com/harper/shipit/internal/history"
	"github.com/harper/shipit/internal/publish"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerPublishTool()
	s.registerRepoStatusTool()
	s.registerListRunsTool()
}

func (s *Server) registerPublishTool() {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dir": map[string]any{
				"type":        "string",
				"description": "Directory to publish. Defaults to the server's working directory.",
			},
		},
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "publish",
		Description: "Run the four-step publish sequence (init if needed, reset origin, " +
			"commit everything, force-push main with tracking), mirroring a no-argument CLI run.",
		InputSchema: schema,
	}, s.handlePublish)
}

func (s *Server) registerRepoStatusTool() {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dir": map[string]any{
				"type":        "string",
				"description": "Directory to inspect. Defaults to the server's working directory.",
			},
		},
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "repo_status",
		Description: "Read-only repository inspection: branch, origin URL, tracking, HEAD, dirty paths.",
		InputSchema: schema,
	}, s.handleRepoStatus)
}

func (s *Server) registerListRunsTool() {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "Number of rows to return (default 20).",
			},
			"since": map[string]any{
				"type":        "string",
				"description": "Natural language or ISO date filter (e.g. 'yesterday', '2025-01-01').",
			},
			"search": map[string]any{
				"type":        "string",
				"description": "Substring search over remote URL and commit message.",
			},
		},
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_runs",
		Description: "Query persisted publish runs from the local SQLite database.",
		InputSchema: schema,
	}, s.handleListRuns)
}

type PublishInput struct {
	Dir string `json:"dir,omitempty"`
}

type PublishOutput struct {
	Dir         string               `json:"dir"`
	RemoteURL   string               `json:"remote_url"`
	Branch      string               `json:"branch"`
	Initialized bool                 `json:"initialized"`
	Clean       bool                 `json:"clean"`
	HeadHash    string               `json:"head_hash,omitempty"`
	Steps       []publish.StepResult `json:"steps"`
	Output      string               `json:"output"`
	Logged      bool                 `json:"logged"`
	Warning     string               `json:"warning,omitempty"`
}

func (s *Server) handlePublish(ctx context.Context, _ *mcp.CallToolRequest, input PublishInput) (*mcp.CallToolResult, PublishOutput, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, PublishOutput{}, err
	}

	dir := s.resolveDir(input.Dir)
	var console bytes.Buffer
	pub := publish.New(dir, &console)
	if !pub.Git.Available() {
		return nil, PublishOutput{}, fmt.Errorf("git not found on PATH")
	}

	params := publish.Params{
		Dir:           dir,
		RemoteURL:     s.cfg.RemoteURL,
		RemoteName:    s.cfg.RemoteName,
		Branch:        s.cfg.Branch,
		CommitMessage: s.cfg.CommitMessage,
	}
	result, err := pub.Run(ctx, params)
	if err != nil {
		return nil, PublishOutput{}, err
	}

	output := PublishOutput{
		Dir:         dir,
		RemoteURL:   params.RemoteURL,
		Branch:      params.Branch,
		Initialized: result.Initialized,
		Clean:       result.Clean(),
		HeadHash:    result.HeadHash,
		Steps:       result.Steps,
		Output:      console.String(),
	}

	rec := history.RunRecord{
		RemoteURL:     params.RemoteURL,
		Branch:        params.Branch,
		CommitMessage: params.CommitMessage,
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
	if _, err := s.store.LogRun(ctx, rec); err != nil {
		output.Warning = fmt.Sprintf("failed to record run history: %v", err)
	} else {
		output.Logged = true
	}

	toolResult, err := buildToolResult(output)
	if err != nil {
		return nil, output, err
	}
	return toolResult, output, nil
}

type RepoStatusInput struct {
	Dir string `json:"dir,omitempty"`
}

func (s *Server) handleRepoStatus(ctx context.Context, _ *mcp.CallToolRequest, input RepoStatusInput) (*mcp.CallToolResult, *gitx.RepoStatus, error) {
	status, err := gitx.Inspect(s.resolveDir(input.Dir), s.cfg.RemoteName)
	if err != nil {
		return nil, nil, err
	}

	result, err := buildToolResult(status)
	if err != nil {
		return nil, status, err
	}
	return result, status, nil
}

type ListRunsInput struct {
	Limit  *int    `json:"limit,omitempty"`
	Since  *string `json:"since,omitempty"`
	Search *string `json:"search,omitempty"`
}

type ListRunsOutput struct {
	Count  int                 `json:"count"`
	Limit  int                 `json:"limit"`
	Since  *time.Time          `json:"since,omitempty"`
	Search string              `json:"search,omitempty"`
	Runs   []history.RunRecord `json:"runs"`
}

func (s *Server) handleListRuns(ctx context.Context, _ *mcp.CallToolRequest, input ListRunsInput) (*mcp.CallToolResult, ListRunsOutput, error) {
	limit := 20
	if input.Limit != nil && *input.Limit > 0 {
		limit = *input.Limit
	}

	var sinceTime *time.Time
	if input.Since != nil && *input.Since != "" {
		parsed, err := dateparse.ParseLocal(*input.Since)
		if err != nil {
			return nil, ListRunsOutput{}, fmt.Errorf("invalid since value: %w", err)
		}
		sinceTime = &parsed
	}

	searchVal := ""
	if input.Search != nil {
		searchVal = *input.Search
	}

	records, err := s.store.QueryRuns(ctx, limit, sinceTime, searchVal)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}

	output := ListRunsOutput{
		Count:  len(records),
		Limit:  limit,
		Since:  sinceTime,
		Search: searchVal,
		Runs:   records,
	}

	result, err := buildToolResult(output)
	if err != nil {
		return nil, output, err
	}
	return result, output, nil
}

func buildToolResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
