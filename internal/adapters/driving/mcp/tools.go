package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/veldt-labs/prefsync/internal/core/domain"
)

// PreferencesPayload is the wire shape of a preferences record in tool
// inputs and outputs.
type PreferencesPayload struct {
	Language    string `json:"language" jsonschema:"the user's display language tag, e.g. en or hi"`
	Theme       string `json:"theme" jsonschema:"the colour scheme, light or dark"`
	LastUpdated int64  `json:"lastUpdated" jsonschema:"last-write marker in milliseconds since epoch"`
}

// GetInput is the input schema for the preferences_get tool.
type GetInput struct{}

// GetOutput is the output schema for the preferences_get tool.
type GetOutput struct {
	Found       bool                `json:"found"`
	Preferences *PreferencesPayload `json:"preferences,omitempty"`
}

// SetInput is the input schema for the preferences_set tool.
type SetInput struct {
	Language    string `json:"language" jsonschema:"the display language tag to store, e.g. en or hi"`
	Theme       string `json:"theme" jsonschema:"the colour scheme to store, light or dark"`
	LastUpdated int64  `json:"lastUpdated,omitempty" jsonschema:"last-write marker in milliseconds since epoch (default: now)"`
	UserID      string `json:"user_id,omitempty" jsonschema:"user whose remote record to sync (default: the configured user)"`
}

// SetOutput is the output schema for the preferences_set tool.
type SetOutput struct {
	Saved         bool   `json:"saved"`
	SyncScheduled bool   `json:"sync_scheduled"`
	UserID        string `json:"user_id,omitempty"`
}

// PullInput is the input schema for the preferences_pull tool.
type PullInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user whose remote record to fetch (default: the configured user)"`
	Store  bool   `json:"store,omitempty" jsonschema:"also save the fetched record to the local cache"`
}

// PullOutput is the output schema for the preferences_pull tool.
type PullOutput struct {
	Found       bool                `json:"found"`
	Preferences *PreferencesPayload `json:"preferences,omitempty"`
	Stored      bool                `json:"stored"`
}

// DeleteInput is the input schema for the preferences_delete tool.
type DeleteInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user whose remote record to delete (default: the configured user)"`
}

// DeleteOutput is the output schema for the preferences_delete tool.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	UserID  string `json:"user_id"`
}

// StatusInput is the input schema for the sync_status tool.
type StatusInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"user whose sync state to report (default: the configured user)"`
}

// StatusOutput is the output schema for the sync_status tool.
type StatusOutput struct {
	State       string `json:"state,omitempty"`
	Attempts    int64  `json:"attempts"`
	Successes   int64  `json:"successes"`
	Failures    int64  `json:"failures"`
	QueueLength int    `json:"queue_length"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preferences_get",
		Description: "Read the locally cached user preferences",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preferences_set",
		Description: "Save user preferences locally and schedule a background sync to the remote store",
	}, s.handleSet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preferences_pull",
		Description: "Fetch the user's preferences from the remote store",
	}, s.handlePull)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preferences_delete",
		Description: "Delete the user's preferences from the remote store",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Report sync metrics, offline queue length, and the user's sync state",
	}, s.handleStatus)
}

// handleGet handles the preferences_get tool invocation.
func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GetInput,
) (*mcp.CallToolResult, GetOutput, error) {
	prefs := s.ports.Cache.Load(ctx)
	if prefs == nil {
		return nil, GetOutput{Found: false}, nil
	}
	return nil, GetOutput{Found: true, Preferences: payloadFrom(*prefs)}, nil
}

// handleSet handles the preferences_set tool invocation. The local save
// is synchronous; the remote write is debounced and best-effort, so the
// tool reports scheduling, not delivery.
func (s *Server) handleSet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetInput,
) (*mcp.CallToolResult, SetOutput, error) {
	prefs := domain.Preferences{
		Language:    domain.Language(input.Language),
		Theme:       domain.Theme(input.Theme),
		LastUpdated: input.LastUpdated,
	}
	if prefs.LastUpdated == 0 {
		prefs.LastUpdated = time.Now().UnixMilli()
	}
	if err := prefs.Validate(); err != nil {
		return nil, SetOutput{}, fmt.Errorf("invalid preferences: %w", err)
	}

	if !s.ports.Cache.Save(ctx, prefs) {
		return nil, SetOutput{}, errors.New("preferences were not saved")
	}

	out := SetOutput{Saved: true}

	// Without a resolvable user the save stays local only.
	userID, err := s.resolveUserID(input.UserID)
	if err != nil {
		return nil, out, nil
	}
	s.ports.Syncer.Sync(userID, prefs)
	out.SyncScheduled = true
	out.UserID = userID
	return nil, out, nil
}

// handlePull handles the preferences_pull tool invocation.
func (s *Server) handlePull(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PullInput,
) (*mcp.CallToolResult, PullOutput, error) {
	userID, err := s.resolveUserID(input.UserID)
	if err != nil {
		return nil, PullOutput{}, err
	}

	prefs, err := s.ports.Syncer.Fetch(ctx, userID)
	if err != nil {
		return nil, PullOutput{}, fmt.Errorf("fetching preferences: %w", err)
	}
	if prefs == nil {
		return nil, PullOutput{Found: false}, nil
	}

	out := PullOutput{Found: true, Preferences: payloadFrom(*prefs)}
	if input.Store {
		out.Stored = s.ports.Cache.Save(ctx, *prefs)
	}
	return nil, out, nil
}

// handleDelete handles the preferences_delete tool invocation. Unlike
// background sync, failures here propagate to the caller.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	userID, err := s.resolveUserID(input.UserID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}

	if err := s.ports.Syncer.Delete(ctx, userID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("deleting preferences: %w", err)
	}
	return nil, DeleteOutput{Deleted: true, UserID: userID}, nil
}

// handleStatus handles the sync_status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	metrics := s.ports.Syncer.Metrics()
	out := StatusOutput{
		Attempts:    metrics.TotalSyncs,
		Successes:   metrics.SuccessfulSyncs,
		Failures:    metrics.FailedSyncs,
		QueueLength: len(s.ports.Syncer.Queue()),
	}

	// Per-user state is optional; omit it when no user resolves.
	if userID, err := s.resolveUserID(input.UserID); err == nil {
		out.State = s.ports.Syncer.State(userID).String()
	}
	return nil, out, nil
}

// payloadFrom converts a domain record to its tool wire shape.
func payloadFrom(prefs domain.Preferences) *PreferencesPayload {
	return &PreferencesPayload{
		Language:    prefs.Language.String(),
		Theme:       prefs.Theme.String(),
		LastUpdated: prefs.LastUpdated,
	}
}
