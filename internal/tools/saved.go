package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/response"
	"github.com/HendryAvila/surveyor/internal/store"
)

// SavedTool handles the form_saved MCP tool.
type SavedTool struct {
	archive Archive
}

// NewSavedTool creates a SavedTool.
func NewSavedTool(archive Archive) *SavedTool {
	return &SavedTool{archive: archive}
}

// Definition returns the MCP tool definition for registration.
func (t *SavedTool) Definition() mcp.Tool {
	return mcp.NewTool("form_saved",
		mcp.WithDescription(
			"Browse the response archive. Without response_id, lists saved responses "+
				"(most recent first). With response_id, shows that response's answers "+
				"and, if full=true, its whole document as JSON.",
		),
		mcp.WithString("response_id",
			mcp.Description("Show one saved response instead of listing."),
		),
		mcp.WithString("questionnaire",
			mcp.Description("Only list responses to this questionnaire (url or id)."),
		),
		mcp.WithString("status",
			mcp.Description("Only list responses with this status."),
			mcp.Enum(string(response.StatusInProgress), string(response.StatusCompleted), string(response.StatusStopped)),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum responses to list (default: 20)."),
		),
		mcp.WithBoolean("full",
			mcp.Description("Include the full document JSON when response_id is given."),
		),
	)
}

// Handle processes the form_saved tool call.
func (t *SavedTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := strings.TrimSpace(req.GetString("response_id", "")); id != "" {
		return t.show(id, boolArg(req, "full", false))
	}

	status := response.Status(req.GetString("status", ""))
	if status != "" {
		if err := response.ValidateStatus(status); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	results, err := t.archive.List(store.ListOptions{
		Questionnaire: req.GetString("questionnaire", ""),
		Status:        status,
		Limit:         intArg(req, "limit", 20),
	})
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No saved responses found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Saved responses (%d)\n\n", len(results))
	for _, r := range results {
		fmt.Fprintf(&sb, "- `%s` %s · %s · %d answered · updated %s\n",
			r.ID, r.Questionnaire, r.Status, r.Answered, r.UpdatedAt)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (t *SavedTool) show(id string, full bool) (*mcp.CallToolResult, error) {
	rec, err := t.archive.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No saved response %q.", id)), nil
		}
		return nil, fmt.Errorf("loading response: %w", err)
	}
	answers, err := t.archive.Answers(id)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Response `%s`\n\n", rec.ID)
	fmt.Fprintf(&sb, "- **Questionnaire**: %s\n", rec.Questionnaire)
	fmt.Fprintf(&sb, "- **Status**: %s\n", rec.Status)
	fmt.Fprintf(&sb, "- **Created**: %s\n", rec.CreatedAt)
	fmt.Fprintf(&sb, "- **Updated**: %s\n\n", rec.UpdatedAt)
	if len(answers) == 0 {
		sb.WriteString("_No answers._\n")
	} else {
		sb.WriteString("### Answers\n\n")
		for _, a := range answers {
			fmt.Fprintf(&sb, "- `%s` = %s\n", a.LinkID, a.Value)
		}
	}
	if full {
		data, err := json.MarshalIndent(rec.Document, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding response: %w", err)
		}
		sb.WriteString("\n```json\n")
		sb.Write(data)
		sb.WriteString("\n```\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}
