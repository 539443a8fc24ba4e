package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResponseTool handles the form_response MCP tool.
type ResponseTool struct {
	sessions Sessions
}

// NewResponseTool creates a ResponseTool.
func NewResponseTool(sessions Sessions) *ResponseTool {
	return &ResponseTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *ResponseTool) Definition() mcp.Tool {
	return mcp.NewTool("form_response",
		mcp.WithDescription(
			"Return the full response document of a session as JSON. "+
				"Answers on items that are currently hidden are included.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by `form_open`."),
		),
	)
}

// Handle processes the form_response tool call.
func (t *ResponseTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := lookupSession(t.sessions, req)
	if res != nil {
		return res, nil
	}
	data, err := json.MarshalIndent(s.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
