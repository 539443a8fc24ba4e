package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/catalog"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/render"
)

// OpenTool handles the form_open MCP tool.
type OpenTool struct {
	defs     Definitions
	sessions Sessions
}

// NewOpenTool creates an OpenTool.
func NewOpenTool(defs Definitions, sessions Sessions) *OpenTool {
	return &OpenTool{defs: defs, sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *OpenTool) Definition() mcp.Tool {
	return mcp.NewTool("form_open",
		mcp.WithDescription(
			"Open a new response session for a questionnaire from the catalog. "+
				"Returns the session id and the items that are currently enabled. "+
				"Pass the session id to every other form_* tool.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Catalog file name as shown by `form_list` (e.g. 'intake.yaml')."),
		),
	)
}

// Handle processes the form_open tool call.
func (t *OpenTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	q, path, err := t.defs.Load(name)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrOutsideCatalog),
		errors.Is(err, questionnaire.ErrInvalidDefinition),
		errors.Is(err, os.ErrNotExist):
		return mcp.NewToolResultError(err.Error()), nil
	default:
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	s := t.sessions.Open(q, path)
	items, err := s.Visible()
	if err != nil {
		_ = t.sessions.Close(s.ID())
		return mcp.NewToolResultError(fmt.Sprintf("Cannot project %s: %v", name, err)), nil
	}

	title := q.Title
	if title == "" {
		title = q.Reference()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "**Session**: `%s`\n\n", s.ID())
	sb.WriteString("## Enabled items\n\n")
	sb.WriteString(render.Markdown(items, render.DetailStandard))
	return mcp.NewToolResultText(sb.String()), nil
}
