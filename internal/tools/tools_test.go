package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

func callReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func isError(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// --- add_numbers ---

func TestAddTool(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want string
	}{
		{"integers", 5, 3, "8"},
		{"negatives", -5, 3, "-2"},
		{"decimals", 1.5, 2.25, "3.75"},
		{"zero", 0, 0, "0"},
	}

	tool := NewAddTool()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
				"a": tt.a,
				"b": tt.b,
			}))
			if err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
			if isError(result) {
				t.Fatalf("Handle returned tool error: %s", resultText(t, result))
			}
			if got := resultText(t, result); got != tt.want {
				t.Errorf("add_numbers(%v, %v) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestAddTool_MissingArgument(t *testing.T) {
	tool := NewAddTool()
	result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{"a": 5.0}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isError(result) {
		t.Error("missing 'b' should produce a tool error")
	}
}

func TestAddTool_NonNumericArgument(t *testing.T) {
	tool := NewAddTool()
	result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
		"a": "five",
		"b": 3.0,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isError(result) {
		t.Error("non-numeric 'a' should produce a tool error")
	}
}

// --- multiply_numbers ---

func TestMultiplyTool(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want string
	}{
		{"integers", 4, 7, "28"},
		{"by zero", 12, 0, "0"},
		{"negative", -4, 7, "-28"},
		{"decimals", 0.5, 0.5, "0.25"},
	}

	tool := NewMultiplyTool()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
				"a": tt.a,
				"b": tt.b,
			}))
			if err != nil {
				t.Fatalf("Handle failed: %v", err)
			}
			if got := resultText(t, result); got != tt.want {
				t.Errorf("multiply_numbers(%v, %v) = %s, want %s", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMultiplyTool_MissingArguments(t *testing.T) {
	tool := NewMultiplyTool()
	result, err := tool.Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isError(result) {
		t.Error("missing arguments should produce a tool error")
	}
}

// --- greet_user ---

func TestGreetTool(t *testing.T) {
	tool := NewGreetTool()
	result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
		"name": "Alice",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got, want := resultText(t, result), "Hello, Alice! Nice to meet you."; got != want {
		t.Errorf("greet_user(Alice) = %q, want %q", got, want)
	}
}

func TestGreetTool_TrimsWhitespace(t *testing.T) {
	tool := NewGreetTool()
	result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
		"name": "  Bob  ",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got, want := resultText(t, result), "Hello, Bob! Nice to meet you."; got != want {
		t.Errorf("greet_user('  Bob  ') = %q, want %q", got, want)
	}
}

func TestGreetTool_BlankName(t *testing.T) {
	tool := NewGreetTool()
	result, err := tool.Handle(context.Background(), callReq(map[string]interface{}{
		"name": "   ",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isError(result) {
		t.Error("blank name should produce a tool error")
	}
}

func TestGreetTool_MissingName(t *testing.T) {
	tool := NewGreetTool()
	result, err := tool.Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isError(result) {
		t.Error("missing name should produce a tool error")
	}
}

// --- get_aws_region ---

func TestRegionTool(t *testing.T) {
	tool := NewRegionTool(func(ctx context.Context) (string, error) {
		return "us-west-2", nil
	})
	result, err := tool.Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got := resultText(t, result); got != "us-west-2" {
		t.Errorf("get_aws_region() = %q, want us-west-2", got)
	}
}

func TestRegionTool_ResolverError(t *testing.T) {
	tool := NewRegionTool(func(ctx context.Context) (string, error) {
		return "", errors.New("no AWS region configured")
	})
	result, err := tool.Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isError(result) {
		t.Error("resolver failure should produce a tool error")
	}
}
