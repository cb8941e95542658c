// Package server wires the MCP components and creates the server instance.
//
// This is the composition root: it creates concrete tool and resource
// implementations and registers them. No business logic lives here — only
// wiring and transport lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/agentcore-tools/stirrup/internal/config"
	"github.com/agentcore-tools/stirrup/internal/resources"
	"github.com/agentcore-tools/stirrup/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with the demo tools and
// deployment resources registered.
func New(cfg *config.Config, regionFn tools.RegionFunc) *server.MCPServer {
	if regionFn == nil {
		regionFn = tools.AWSRegion
	}

	s := server.NewMCPServer(
		"stirrup",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	addTool := tools.NewAddTool()
	s.AddTool(addTool.Definition(), addTool.Handle)

	multiplyTool := tools.NewMultiplyTool()
	s.AddTool(multiplyTool.Definition(), multiplyTool.Handle)

	greetTool := tools.NewGreetTool()
	s.AddTool(greetTool.Definition(), greetTool.Handle)

	regionTool := tools.NewRegionTool(regionFn)
	s.AddTool(regionTool.Definition(), regionTool.Handle)

	resourceHandler := resources.NewHandler(cfg)
	s.AddResource(resourceHandler.RunbookResource(), resourceHandler.HandleRunbook)
	s.AddResource(resourceHandler.PolicyResource(), resourceHandler.HandlePolicy)

	return s
}

// ServeStdio runs the server on the stdio transport until EOF. Local
// development only — AgentCore always talks HTTP.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// NewHTTPServer wraps the MCP server in the streamable HTTP transport.
// Stateless unless the config opts into per-session state: AgentCore may
// route each invocation to a fresh container.
func NewHTTPServer(s *server.MCPServer, cfg *config.Config) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s,
		server.WithEndpointPath(cfg.Server.EndpointPath),
		server.WithStateLess(!cfg.Server.Stateful),
	)
}

// ServeHTTP runs the streamable HTTP transport until ctx is canceled,
// then shuts it down gracefully.
func ServeHTTP(ctx context.Context, s *server.MCPServer, cfg *config.Config) error {
	httpServer := NewHTTPServer(s, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(cfg.Server.ListenAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// serverInstructions tells the MCP host what this server is for.
func serverInstructions() string {
	return `stirrup is a demo MCP server used to validate IAM-authenticated
deployments on Bedrock AgentCore.

Tools:
- add_numbers(a, b): add two numbers
- multiply_numbers(a, b): multiply two numbers
- greet_user(name): greet someone by name
- get_aws_region(): report the AWS region the server resolved at runtime

Resources:
- stirrup://deploy/runbook: deployment runbook (markdown)
- stirrup://deploy/policy: IAM invoke policy for the configured runtime ARN

The tools are intentionally trivial; call them to confirm the deployment
and its SigV4 authentication path work end to end.`
}
