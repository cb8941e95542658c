package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// AddTool handles the add_numbers MCP tool.
type AddTool struct{}

// NewAddTool creates an AddTool.
func NewAddTool() *AddTool {
	return &AddTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *AddTool) Definition() mcp.Tool {
	return mcp.NewTool("add_numbers",
		mcp.WithDescription("Add two numbers together and return the sum."),
		mcp.WithNumber("a",
			mcp.Required(),
			mcp.Description("First number"),
		),
		mcp.WithNumber("b",
			mcp.Required(),
			mcp.Description("Second number"),
		),
	)
}

// Handle processes the add_numbers tool call.
func (t *AddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := req.RequireFloat("a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := req.RequireFloat("b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatNumber(a + b)), nil
}
