// Package resources implements MCP resource handlers for Surveyor.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (surveyor://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/surveyor/internal/catalog"
	"github.com/HendryAvila/surveyor/internal/session"
)

// Catalog is the part of the definition catalog resources read.
type Catalog interface {
	List() ([]catalog.Entry, error)
}

// Sessions is the part of the session registry resources read.
type Sessions interface {
	List() []session.Summary
}

// Handler manages Surveyor resource endpoints.
type Handler struct {
	catalog  Catalog
	sessions Sessions
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(c Catalog, s Sessions) *Handler {
	return &Handler{catalog: c, sessions: s}
}

// CatalogResource returns the MCP resource definition for the catalog listing.
func (h *Handler) CatalogResource() mcp.Resource {
	return mcp.NewResource(
		"surveyor://catalog",
		"Questionnaire Catalog",
		mcp.WithResourceDescription("Questionnaire definitions available to form_open, with parse errors"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalog returns the catalog listing as JSON.
func (h *Handler) HandleCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.catalog.List()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return jsonResource(req.Params.URI, entries)
}

// SessionsResource returns the MCP resource definition for open sessions.
func (h *Handler) SessionsResource() mcp.Resource {
	return mcp.NewResource(
		"surveyor://sessions",
		"Open Sessions",
		mcp.WithResourceDescription("Response sessions currently open in this server"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSessions returns the open sessions as JSON.
func (h *Handler) HandleSessions(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.sessions.List())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
