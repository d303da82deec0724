package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veldt-labs/prefsync/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for prefsync resources.
	uriScheme = "prefsync://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the locally cached preferences.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "preferences",
		Name:        "preferences",
		Description: "The locally cached preferences record",
		MIMEType:    "application/json",
	}, s.handlePreferencesResource)

	// Static resource for the sync counters.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sync/metrics",
		Name:        "sync-metrics",
		Description: "Sync attempt, success, and failure counters",
		MIMEType:    "application/json",
	}, s.handleMetricsResource)

	// Static resource for the offline queue.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sync/queue",
		Name:        "sync-queue",
		Description: "Preference writes queued while offline, oldest first",
		MIMEType:    "application/json",
	}, s.handleQueueResource)

	// Template for per-user remote preferences.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "users/{userId}/preferences",
		Name:        "remote-preferences",
		Description: "The remote preferences record for a specific user",
		MIMEType:    "application/json",
	}, s.handleRemotePreferencesResource)
}

// handlePreferencesResource returns the locally cached record. An empty or
// unusable cache reads as JSON null rather than an error.
func (s *Server) handlePreferencesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text := "null"
	if prefs := s.ports.Cache.Load(ctx); prefs != nil {
		data, err := json.MarshalIndent(prefs, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling preferences: %w", err)
		}
		text = string(data)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     text,
		}},
	}, nil
}

// handleMetricsResource returns the sync counters.
func (s *Server) handleMetricsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Syncer.Metrics(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling metrics: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleQueueResource returns the queued offline writes.
func (s *Server) handleQueueResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	queue := s.ports.Syncer.Queue()

	// Build a simplified entry list.
	type entryInfo struct {
		ID          string             `json:"id"`
		UserID      string             `json:"userId"`
		Preferences domain.Preferences `json:"preferences"`
		EnqueuedAt  string             `json:"enqueuedAt"`
	}

	infos := make([]entryInfo, len(queue))
	for i, entry := range queue {
		infos[i] = entryInfo{
			ID:          entry.ID,
			UserID:      entry.UserID,
			Preferences: entry.Preferences,
			EnqueuedAt:  entry.EnqueuedAt.UTC().Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling queue: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRemotePreferencesResource returns the remote record for a user.
// Absent and schema-invalid records both read as not found.
func (s *Server) handleRemotePreferencesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract userId from URI: prefsync://users/{userId}/preferences
	userID := extractUserID(req.Params.URI)
	if userID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	prefs, err := s.ports.Syncer.Fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching preferences: %w", err)
	}
	if prefs == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling preferences: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractUserID extracts the user ID from a URI like prefsync://users/{userId}/preferences.
func extractUserID(uri string) string {
	const prefix = uriScheme + "users/"
	const suffix = "/preferences"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
