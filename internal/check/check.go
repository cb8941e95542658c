// Package check implements the deployment validation run: connect to an
// MCP endpoint, initialize a session, list the tools, and exercise each
// demo tool, printing the same narrative the manual smoke test used.
package check

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/agentcore-tools/stirrup/internal/history"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolResult is the outcome of one validation tool call.
type ToolResult struct {
	Tool      string
	Arguments map[string]any
	Output    string
	Err       error
	Duration  time.Duration
}

// Report summarizes a validation run.
type Report struct {
	Endpoint      string
	ServerName    string
	ServerVersion string
	Tools         []mcp.Tool
	Results       []ToolResult
}

// Failed returns how many tool calls in the run failed.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Runner performs a validation run against one endpoint.
type Runner struct {
	// Endpoint is the full MCP URL (AgentCore invocation URL or a local
	// server's /mcp).
	Endpoint string

	// HTTPClient carries the SigV4 signing transport. Nil means a plain
	// unsigned client, which only works against a local server.
	HTTPClient *http.Client

	// Out receives the run narrative. Nil discards it.
	Out io.Writer

	// History records the run when non-nil. Recording is best-effort: a
	// broken local database never fails a validation run.
	History *history.Store

	ClientName    string
	ClientVersion string
}

// validationCalls is the fixed tool sequence every run exercises,
// matching the deployment runbook's expected output.
var validationCalls = []struct {
	tool string
	args map[string]any
}{
	{"add_numbers", map[string]any{"a": 5, "b": 3}},
	{"multiply_numbers", map[string]any{"a": 4, "b": 7}},
	{"greet_user", map[string]any{"name": "Alice"}},
	{"get_aws_region", map[string]any{}},
}

// Run connects, initializes, lists tools, and exercises each demo tool.
// Tool failures don't abort the remaining calls; the returned error is
// non-nil if the session could not be established or any call failed.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	report := &Report{Endpoint: r.Endpoint}
	fmt.Fprintf(out, "Connecting to: %s\n", r.Endpoint)

	var opts []transport.StreamableHTTPCOption
	if r.HTTPClient != nil {
		opts = append(opts, transport.WithHTTPBasicClient(r.HTTPClient))
	}
	c, err := client.NewStreamableHttpClient(r.Endpoint, opts...)
	if err != nil {
		return report, fmt.Errorf("creating MCP client: %w", err)
	}
	defer c.Close()

	if err := c.Start(ctx); err != nil {
		return report, fmt.Errorf("starting transport: %w", err)
	}

	fmt.Fprintln(out, "Initializing MCP session...")
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    r.ClientName,
		Version: r.ClientVersion,
	}
	initResult, err := c.Initialize(ctx, initReq)
	if err != nil {
		return report, fmt.Errorf("initializing MCP session: %w", err)
	}
	report.ServerName = initResult.ServerInfo.Name
	report.ServerVersion = initResult.ServerInfo.Version
	fmt.Fprintln(out, "MCP session initialized successfully")

	toolList, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return report, fmt.Errorf("listing tools: %w", err)
	}
	report.Tools = toolList.Tools

	fmt.Fprintln(out, "\n=== Available Tools ===")
	for _, tool := range toolList.Tools {
		fmt.Fprintf(out, "  - %s: %s\n", tool.Name, tool.Description)
	}

	runID := r.beginHistory()

	for _, call := range validationCalls {
		fmt.Fprintf(out, "\n=== Testing %s tool ===\n", call.tool)

		result := r.callTool(ctx, c, call.tool, call.args)
		report.Results = append(report.Results, result)

		label := callLabel(call.tool, call.args)
		if result.Err != nil {
			fmt.Fprintf(out, "%s FAILED: %v\n", label, result.Err)
		} else {
			fmt.Fprintf(out, "%s = %s\n", label, result.Output)
		}
		r.recordResult(runID, result)
	}

	var runErr error
	if failed := report.Failed(); failed > 0 {
		runErr = fmt.Errorf("%d of %d tool calls failed", failed, len(report.Results))
	}
	r.finishHistory(runID, runErr)

	return report, runErr
}

// callTool invokes a single tool and normalizes the outcome.
func (r *Runner) callTool(ctx context.Context, c *client.Client, tool string, args map[string]any) ToolResult {
	result := ToolResult{Tool: tool, Arguments: args}

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	start := time.Now()
	callResult, err := c.CallTool(ctx, req)
	result.Duration = time.Since(start)

	if err != nil {
		result.Err = err
		return result
	}
	text := textContent(callResult)
	if callResult.IsError {
		result.Err = errors.New(text)
		return result
	}
	result.Output = text
	return result
}

// textContent extracts the first text block from a tool result.
func textContent(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// callLabel renders "tool(arg, arg)" for the narrative, in the fixed
// argument order of the validation sequence.
func callLabel(tool string, args map[string]any) string {
	switch tool {
	case "add_numbers", "multiply_numbers":
		return fmt.Sprintf("%s(%v, %v)", tool, args["a"], args["b"])
	case "greet_user":
		return fmt.Sprintf("%s(%q)", tool, args["name"])
	default:
		return tool + "()"
	}
}

// --- History recording (nil-safe, best-effort) ---

func (r *Runner) beginHistory() string {
	if r.History == nil {
		return ""
	}
	runID, err := r.History.BeginRun(r.Endpoint)
	if err != nil {
		log.Printf("WARNING: history: begin run: %v", err)
		return ""
	}
	return runID
}

func (r *Runner) recordResult(runID string, result ToolResult) {
	if r.History == nil || runID == "" {
		return
	}
	args, err := json.Marshal(result.Arguments)
	if err != nil {
		args = []byte("{}")
	}
	output := result.Output
	ok := result.Err == nil
	if !ok {
		output = result.Err.Error()
	}
	if err := r.History.AddResult(runID, result.Tool, string(args), output, ok, result.Duration); err != nil {
		log.Printf("WARNING: history: add result: %v", err)
	}
}

func (r *Runner) finishHistory(runID string, runErr error) {
	if r.History == nil || runID == "" {
		return
	}
	if err := r.History.FinishRun(runID, runErr == nil, runErr); err != nil {
		log.Printf("WARNING: history: finish run: %v", err)
	}
}
