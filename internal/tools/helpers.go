// Package tools implements the demo MCP tools served by stirrup.
//
// Each tool is a struct with a Definition() for registration and a Handle()
// compatible with mcp-go's CallToolRequest signature. Argument problems are
// reported as MCP tool errors, not Go errors — protocol failures are
// reserved for infrastructure faults.
package tools

import "strconv"

// formatNumber renders a float without trailing zeros so integer inputs
// produce integer output (add_numbers(5, 3) prints 8, not 8.000000).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
