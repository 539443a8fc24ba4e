// Package tools implements the MCP tool handlers that form Surveyor's
// editing surface.
//
// Each tool is a struct holding its dependencies, with Definition()
// returning the mcp.Tool schema and Handle() processing a call. User
// mistakes (unknown session, hidden item, malformed answer) come back as
// tool errors; only infrastructure failures are returned as Go errors.
package tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/catalog"
	"github.com/HendryAvila/surveyor/internal/questionnaire"
	"github.com/HendryAvila/surveyor/internal/response"
	"github.com/HendryAvila/surveyor/internal/session"
	"github.com/HendryAvila/surveyor/internal/store"
)

// Definitions is what tools need from the questionnaire catalog.
type Definitions interface {
	Load(name string) (*questionnaire.Questionnaire, string, error)
	List() ([]catalog.Entry, error)
}

// Sessions is what tools need from the session registry.
type Sessions interface {
	Open(q *questionnaire.Questionnaire, source string) *session.Session
	Get(id string) (*session.Session, error)
	Close(id string) error
}

// Archive is what tools need from the response store.
type Archive interface {
	Save(doc response.Document) error
	Get(id string) (*store.Record, error)
	List(opts store.ListOptions) ([]store.Summary, error)
	Answers(responseID string) ([]store.Answer, error)
	Delete(id string) error
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// lookupSession resolves the session_id argument. The returned result is
// non-nil when the caller should return it as is.
func lookupSession(sessions Sessions, req mcp.CallToolRequest) (*session.Session, *mcp.CallToolResult) {
	id := req.GetString("session_id", "")
	if id == "" {
		return nil, mcp.NewToolResultError("'session_id' is required")
	}
	s, err := sessions.Get(id)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Session %q not found. Open one with `form_open` first.", id))
	}
	return s, nil
}

// editError turns a session edit failure into a tool error message.
// Aborted sessions keep their full error chain so the cause is visible.
func editError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, session.ErrAborted):
		return mcp.NewToolResultError(fmt.Sprintf("Session aborted: %v. Close it and open a new one.", err))
	case errors.Is(err, session.ErrHidden):
		return mcp.NewToolResultError(fmt.Sprintf("%v. Only items listed by `form_items` can be answered.", err))
	case errors.Is(err, session.ErrClosed):
		return mcp.NewToolResultError("Session is completed; answers can no longer change.")
	}
	return mcp.NewToolResultError(err.Error())
}
