package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/response"
	"github.com/HendryAvila/surveyor/internal/session"
)

// SaveTool handles the form_save MCP tool.
type SaveTool struct {
	sessions Sessions
	archive  Archive
}

// NewSaveTool creates a SaveTool.
func NewSaveTool(sessions Sessions, archive Archive) *SaveTool {
	return &SaveTool{sessions: sessions, archive: archive}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveTool) Definition() mcp.Tool {
	return mcp.NewTool("form_save",
		mcp.WithDescription(
			"Checkpoint a session's response document to the local archive. "+
				"With complete=true the response is archived as completed, which "+
				"fails while enabled required items are unanswered; the session only "+
				"becomes completed once the archive write succeeds. With close=true "+
				"the session is closed after saving.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id returned by `form_open`."),
		),
		mcp.WithBoolean("complete",
			mcp.Description("Mark the response completed before saving (default: false)."),
		),
		mcp.WithBoolean("close",
			mcp.Description("Close the session after saving (default: false)."),
		),
	)
}

// Handle processes the form_save tool call.
func (t *SaveTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, res := lookupSession(t.sessions, req)
	if res != nil {
		return res, nil
	}

	var doc response.Document
	if boolArg(req, "complete", false) {
		var saveErr error
		err := s.CompleteWith(func(d response.Document) error {
			doc = d
			saveErr = t.archive.Save(d)
			return saveErr
		})
		switch {
		case saveErr != nil:
			return nil, fmt.Errorf("saving response %s: %w", doc.ID, saveErr)
		case errors.Is(err, session.ErrIncomplete):
			missing, _ := s.Missing()
			return mcp.NewToolResultError(fmt.Sprintf(
				"Cannot complete: required items are unanswered: %s", strings.Join(missing, ", "),
			)), nil
		case err != nil:
			return editError(err), nil
		}
	} else {
		doc = s.Document()
		if err := t.archive.Save(doc); err != nil {
			return nil, fmt.Errorf("saving response %s: %w", doc.ID, err)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Saved response `%s` (%s, %d answered).\n", doc.ID, doc.Status, doc.Answered())
	if boolArg(req, "close", false) {
		if err := t.sessions.Close(s.ID()); err != nil {
			return editError(err), nil
		}
		sb.WriteString("Session closed.\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}
