package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// MultiplyTool handles the multiply_numbers MCP tool.
type MultiplyTool struct{}

// NewMultiplyTool creates a MultiplyTool.
func NewMultiplyTool() *MultiplyTool {
	return &MultiplyTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *MultiplyTool) Definition() mcp.Tool {
	return mcp.NewTool("multiply_numbers",
		mcp.WithDescription("Multiply two numbers together and return the product."),
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

// Handle processes the multiply_numbers tool call.
func (t *MultiplyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := req.RequireFloat("a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := req.RequireFloat("b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatNumber(a * b)), nil
}
