package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/render"
)

// AnswerTool handles the form_answer MCP tool.
type AnswerTool struct {
	sessions Sessions
}

// NewAnswerTool creates an AnswerTool.
func NewAnswerTool(sessions Sessions) *AnswerTool {
	return &AnswerTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("form_answer",
		mcp.WithDescription(
			"Answer one enabled item. The value is given as text and converted "+
				"for the item type: true/false for boolean, YYYY-MM-DD for date, "+
				"RFC 3339 for dateTime, a number for integer and decimal, an option "+
				"code for choice. Reports which items became shown or hidden.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by `form_open`."),
		),
		mcp.WithString("link_id",
			mcp.Required(),
			mcp.Description("linkId of the item to answer."),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Answer value as text."),
		),
	)
}

// Handle processes the form_answer tool call.
func (t *AnswerTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := lookupSession(t.sessions, req)
	if res != nil {
		return res, nil
	}
	linkID := strings.TrimSpace(req.GetString("link_id", ""))
	value := req.GetString("value", "")
	if linkID == "" {
		return mcp.NewToolResultError("'link_id' is required"), nil
	}
	if strings.TrimSpace(value) == "" {
		return mcp.NewToolResultError("'value' is required. Use `form_clear` to remove an answer."), nil
	}

	delta, err := s.Answer(linkID, value)
	if err != nil {
		return editError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Answered `%s`.\n\n%s", linkID, render.DeltaMarkdown(delta))), nil
}
