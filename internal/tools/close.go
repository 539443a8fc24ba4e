package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CloseTool handles the form_close MCP tool.
type CloseTool struct {
	sessions Sessions
}

// NewCloseTool creates a CloseTool.
func NewCloseTool(sessions Sessions) *CloseTool {
	return &CloseTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *CloseTool) Definition() mcp.Tool {
	return mcp.NewTool("form_close",
		mcp.WithDescription(
			"Close a session without saving. Unsaved answers are discarded. "+
				"Use `form_save` with close=true to keep them.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by `form_open`."),
		),
	)
}

// Handle processes the form_close tool call.
func (t *CloseTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := lookupSession(t.sessions, req)
	if res != nil {
		return res, nil
	}
	if err := t.sessions.Close(s.ID()); err != nil {
		return editError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session `%s` closed.", s.ID())), nil
}
