package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/store"
)

// DeleteTool handles the form_delete MCP tool.
type DeleteTool struct {
	archive Archive
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(archive Archive) *DeleteTool {
	return &DeleteTool{archive: archive}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("form_delete",
		mcp.WithDescription("Permanently delete a saved response and its answers from the archive."),
		mcp.WithString("response_id",
			mcp.Required(),
			mcp.Description("Id of the saved response, as shown by `form_saved`."),
		),
	)
}

// Handle processes the form_delete tool call.
func (t *DeleteTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("response_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'response_id' is required"), nil
	}
	if err := t.archive.Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No saved response %q.", id)), nil
		}
		return nil, fmt.Errorf("deleting response: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted response `%s`.", id)), nil
}
