package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// GreetTool handles the greet_user MCP tool.
type GreetTool struct{}

// NewGreetTool creates a GreetTool.
func NewGreetTool() *GreetTool {
	return &GreetTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *GreetTool) Definition() mcp.Tool {
	return mcp.NewTool("greet_user",
		mcp.WithDescription("Greet a user by name."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the person to greet"),
		),
	)
}

// Handle processes the greet_user tool call.
func (t *GreetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return mcp.NewToolResultError("'name' must not be blank"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Hello, %s! Nice to meet you.", name)), nil
}
