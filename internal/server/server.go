// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HendryAvila/surveyor/internal/catalog"
	"github.com/HendryAvila/surveyor/internal/config"
	"github.com/HendryAvila/surveyor/internal/prompts"
	"github.com/HendryAvila/surveyor/internal/resources"
	"github.com/HendryAvila/surveyor/internal/session"
	"github.com/HendryAvila/surveyor/internal/store"
	"github.com/HendryAvila/surveyor/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. The catalog watcher, when enabled, runs until
// ctx is cancelled.
//
// The returned cleanup function closes open sessions and the response
// store, and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if the store failed to open.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*server.MCPServer, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}

	// --- Create shared dependencies ---

	defs, err := catalog.New(cfg.FormsDir, cfg.CacheSize, log.Named("catalog"))
	if err != nil {
		return nil, noop, fmt.Errorf("creating catalog: %w", err)
	}
	if cfg.Watch {
		go func() {
			if err := defs.Watch(ctx, nil); err != nil {
				log.Warn("catalog watch disabled", zap.Error(err))
			}
		}()
	}

	sessions := session.NewManager(log.Named("session"))

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"surveyor",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register editing tools ---

	listTool := tools.NewListTool(defs)
	s.AddTool(listTool.Definition(), listTool.Handle)

	openTool := tools.NewOpenTool(defs, sessions)
	s.AddTool(openTool.Definition(), openTool.Handle)

	itemsTool := tools.NewItemsTool(sessions)
	s.AddTool(itemsTool.Definition(), itemsTool.Handle)

	answerTool := tools.NewAnswerTool(sessions)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	clearTool := tools.NewClearTool(sessions)
	s.AddTool(clearTool.Definition(), clearTool.Handle)

	responseTool := tools.NewResponseTool(sessions)
	s.AddTool(responseTool.Definition(), responseTool.Handle)

	closeTool := tools.NewCloseTool(sessions)
	s.AddTool(closeTool.Definition(), closeTool.Handle)

	// --- Register archive tools ---
	//
	// The archive is an independent subsystem: if SQLite fails to open,
	// sessions keep working in memory and form_response still exports the
	// document. Only the save/browse tools are skipped.

	cleanup := sessions.CloseAll
	archive, storeErr := store.New(store.DefaultConfig(cfg.DataDir))
	if storeErr != nil {
		log.Warn("response archive disabled", zap.Error(storeErr))
	} else {
		cleanup = func() {
			sessions.CloseAll()
			if err := archive.Close(); err != nil {
				log.Warn("response archive close", zap.Error(err))
			}
		}

		saveTool := tools.NewSaveTool(sessions, archive)
		s.AddTool(saveTool.Definition(), saveTool.Handle)

		savedTool := tools.NewSavedTool(archive)
		s.AddTool(savedTool.Definition(), savedTool.Handle)

		deleteTool := tools.NewDeleteTool(archive)
		s.AddTool(deleteTool.Definition(), deleteTool.Handle)

		reviewPrompt := prompts.NewReviewPrompt()
		s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)
	}

	// --- Register prompts ---

	fillPrompt := prompts.NewFillPrompt()
	s.AddPrompt(fillPrompt.Definition(), fillPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(defs, sessions)
	s.AddResource(resourceHandler.CatalogResource(), resourceHandler.HandleCatalog)
	s.AddResource(resourceHandler.SessionsResource(), resourceHandler.HandleSessions)

	log.Info("server ready",
		zap.String("forms_dir", defs.Dir()),
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("archive", storeErr == nil),
		zap.Bool("watch", cfg.Watch),
	)
	return s, cleanup, nil
}

// noop is a no-op cleanup function used when construction fails early.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use Surveyor.
func serverInstructions() string {
	return `You have access to Surveyor, a questionnaire-filling MCP server.

## How it works

A questionnaire is a tree of items (groups, questions, display text). Items
may carry enableWhen conditions on other answers: an item is shown only when
all of its conditions hold, and a hidden group hides everything beneath it.
Every answer can therefore reveal or hide other items.

## Workflow

1. form_list: see which questionnaires exist.
2. form_open: start a session; keep the returned session id.
3. form_items: read the items enabled right now.
4. form_answer: record one answer at a time. The result tells you which
   items appeared or disappeared; re-read form_items when it does.
5. form_save: checkpoint. Use complete=true once nothing required is missing.

## Rules

- Only answer items listed by form_items. Hidden items are rejected.
- Ask the user; never invent answers.
- Choice answers take the option code, not its display text.
- form_clear also works on hidden items, to drop answers that no longer apply.
- form_response shows the whole document, including answers on hidden items.
- form_saved lists archived responses; form_delete removes one.
- form_close discards a session without saving it.
`
}
