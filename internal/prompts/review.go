package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the review-response MCP prompt.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("review-response",
		mcp.WithPromptDescription("Review a saved response and point out gaps or answers left on hidden items."),
		mcp.WithArgument("response_id",
			mcp.ArgumentDescription("Id of the saved response to review"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the review-response prompt request.
func (p *ReviewPrompt) Handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := ""
	if args := req.Params.Arguments; args != nil {
		id = args["response_id"]
	}
	if id == "" {
		return nil, fmt.Errorf("response_id is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Review response: %s", id),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please review saved response `%s`.\n\n"+
						"1. Run `form_saved` with response_id='%s' and full=true\n"+
						"2. Summarise the answers grouped by section\n"+
						"3. List required items that have no answer\n"+
						"4. Flag answers that sit under a group whose conditions no longer hold\n",
					id, id,
				)),
			},
		},
	}, nil
}
