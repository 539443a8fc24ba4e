// Package prompts implements MCP prompt handlers for Surveyor.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// FillPrompt handles the fill-questionnaire MCP prompt.
type FillPrompt struct{}

// NewFillPrompt creates a FillPrompt.
func NewFillPrompt() *FillPrompt {
	return &FillPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *FillPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("fill-questionnaire",
		mcp.WithPromptDescription(
			"Walk through a questionnaire with the user one enabled item at a time, "+
				"then save the completed response.",
		),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Catalog file name of the questionnaire. If omitted, the AI lists the catalog first."),
		),
	)
}

// Handle processes the fill-questionnaire prompt request.
func (p *FillPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := ""
	if args := req.Params.Arguments; args != nil {
		name = args["name"]
	}

	open := "1. Run `form_list` and ask me which questionnaire to fill in, then run `form_open` with it\n"
	desc := "Fill in a questionnaire"
	if name != "" {
		open = fmt.Sprintf("1. Run `form_open` with name='%s'\n", name)
		desc = fmt.Sprintf("Fill in questionnaire: %s", name)
	}

	return &mcp.GetPromptResult{
		Description: desc,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to fill in a questionnaire.\n\n" +
						"Please:\n" +
						open +
						"2. Ask me the first unanswered enabled item, using its text and options\n" +
						"3. Record my reply with `form_answer`; if it is rejected, tell me why and ask again\n" +
						"4. After each answer, re-read the enabled items with `form_items` (answers can reveal or hide questions)\n" +
						"5. When nothing required is missing, show me a summary and run `form_save` with complete=true\n\n" +
						"Never answer an item on my behalf.",
				),
			},
		},
	}, nil
}
