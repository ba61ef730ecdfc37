// ABOUTME: MCP resource definitions and providers.
// ABOUTME: Exposes publish status and run history as resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/shipit/internal/gitx"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourcePayload struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links,omitempty"`
}

type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	ResourceURI string    `json:"resource_uri"`
	Count       int       `json:"count"`
}

func (s *Server) registerResources() {
	s.registerStatusResource()
	s.registerHistoryResource()
}

func (s *Server) registerStatusResource() {
	res := &mcp.Resource{
		URI:         "shipit://status",
		Name:        "Shipit Status",
		Description: "Publish target, config/database paths, and current repository state.",
		MIMEType:    "application/json",
	}

	s.mcp.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		repo, err := gitx.Inspect(s.workDir, s.cfg.RemoteName)
		if err != nil {
			return nil, err
		}

		status := map[string]interface{}{
			"config": map[string]interface{}{
				"path":           s.cfgPath,
				"remote_url":     s.cfg.RemoteURL,
				"remote_name":    s.cfg.RemoteName,
				"branch":         s.cfg.Branch,
				"commit_message": s.cfg.CommitMessage,
			},
			"database": map[string]interface{}{
				"path": s.dbPath,
			},
			"repository": repo,
			"timestamp":  time.Now(),
		}

		payload := ResourcePayload{
			Metadata: ResourceMetadata{
				Timestamp:   time.Now(),
				ResourceURI: res.URI,
				Count:       1,
			},
			Data: status,
			Links: map[string]string{
				"history": "shipit://history",
			},
		}
		return buildResourceResult(req.Params.URI, payload)
	})
}

func (s *Server) registerHistoryResource() {
	res := &mcp.Resource{
		URI:         "shipit://history",
		Name:        "Recent Publish Runs",
		Description: "Last 20 publish runs from the local SQLite database.",
		MIMEType:    "application/json",
	}

	s.mcp.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		records, err := s.store.QueryRuns(ctx, 20, nil, "")
		if err != nil {
			return nil, err
		}
		payload := ResourcePayload{
			Metadata: ResourceMetadata{
				Timestamp:   time.Now(),
				ResourceURI: res.URI,
				Count:       len(records),
			},
			Data: records,
		}
		return buildResourceResult(req.Params.URI, payload)
	})
}

func buildResourceResult(uri string, payload ResourcePayload) (*mcp.ReadResourceResult, error) {
	bytes, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(bytes),
			},
		},
	}, nil
}
