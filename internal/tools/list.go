package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListTool handles the form_list MCP tool.
type ListTool struct {
	defs Definitions
}

// NewListTool creates a ListTool.
func NewListTool(defs Definitions) *ListTool {
	return &ListTool{defs: defs}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("form_list",
		mcp.WithDescription(
			"List the questionnaire definitions available in the catalog directory. "+
				"Use a listed name with `form_open` to start filling one in. "+
				"Files that fail to parse are listed with their error.",
		),
	)
}

// Handle processes the form_list tool call.
func (t *ListTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := t.defs.List()
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No questionnaires found in the catalog."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Questionnaires (%d)\n\n", len(entries))
	for _, e := range entries {
		if e.Error != "" {
			fmt.Fprintf(&sb, "- ⚠️ **%s**: %s\n", e.Name, e.Error)
			continue
		}
		title := e.Title
		if title == "" {
			title = e.ID
		}
		fmt.Fprintf(&sb, "- **%s**: %s (%d items)\n", e.Name, title, e.Items)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
