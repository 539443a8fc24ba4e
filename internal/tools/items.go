package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/render"
)

// ItemsTool handles the form_items MCP tool.
type ItemsTool struct {
	sessions Sessions
}

// NewItemsTool creates an ItemsTool.
func NewItemsTool(sessions Sessions) *ItemsTool {
	return &ItemsTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *ItemsTool) Definition() mcp.Tool {
	return mcp.NewTool("form_items",
		mcp.WithDescription(
			"Show the items of a session that are currently enabled, in document order, "+
				"with their answers. Items whose enableWhen rules fail are omitted "+
				"together with their children.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by `form_open`."),
		),
		mcp.WithString("detail_level",
			mcp.Description("'summary' (linkIds and answers only) or 'standard' (default: text, widget and options)."),
			mcp.Enum(string(render.DetailSummary), string(render.DetailStandard)),
		),
	)
}

// Handle processes the form_items tool call.
func (t *ItemsTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := lookupSession(t.sessions, req)
	if res != nil {
		return res, nil
	}
	level := render.ParseDetailLevel(req.GetString("detail_level", ""))

	items, err := s.Visible()
	if err != nil {
		return editError(err), nil
	}
	missing, err := s.Missing()
	if err != nil {
		return editError(err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Enabled items (%d) · status: %s\n\n", len(items), s.Status())
	sb.WriteString(render.Markdown(items, level))
	if len(missing) > 0 {
		fmt.Fprintf(&sb, "\nRequired and unanswered: %s\n", strings.Join(missing, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
