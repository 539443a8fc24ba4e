package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/render"
)

// ClearTool handles the form_clear MCP tool.
type ClearTool struct {
	sessions Sessions
}

// NewClearTool creates a ClearTool.
func NewClearTool(sessions Sessions) *ClearTool {
	return &ClearTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *ClearTool) Definition() mcp.Tool {
	return mcp.NewTool("form_clear",
		mcp.WithDescription(
			"Remove the answer of one item. Works on hidden items too, "+
				"so stale answers can be dropped before saving.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by `form_open`."),
		),
		mcp.WithString("link_id",
			mcp.Required(),
			mcp.Description("linkId of the item to clear."),
		),
	)
}

// Handle processes the form_clear tool call.
func (t *ClearTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := lookupSession(t.sessions, req)
	if res != nil {
		return res, nil
	}
	linkID := strings.TrimSpace(req.GetString("link_id", ""))
	if linkID == "" {
		return mcp.NewToolResultError("'link_id' is required"), nil
	}

	delta, err := s.Clear(linkID)
	if err != nil {
		return editError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Cleared `%s`.\n\n%s", linkID, render.DeltaMarkdown(delta))), nil
}
