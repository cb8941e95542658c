// Package resources implements stirrup's read-only MCP resources.
//
// Resources expose the deployment runbook and the rendered IAM invoke
// policy so an MCP host can surface them without shelling out to the CLI.
// They use URI-based addressing (stirrup://...) following MCP conventions.
package resources

import (
	"context"
	"fmt"

	"github.com/agentcore-tools/stirrup/internal/config"
	"github.com/agentcore-tools/stirrup/internal/policy"
	"github.com/agentcore-tools/stirrup/internal/runtime"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages stirrup resource endpoints.
type Handler struct {
	cfg *config.Config
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

// RunbookResource returns the MCP resource definition for the runbook.
func (h *Handler) RunbookResource() mcp.Resource {
	return mcp.NewResource(
		"stirrup://deploy/runbook",
		"AgentCore Deployment Runbook",
		mcp.WithResourceDescription("Step-by-step guide for deploying this server to Bedrock AgentCore with IAM authentication"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleRunbook returns the deployment runbook as markdown.
func (h *Handler) HandleRunbook(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     runbookMarkdown,
		},
	}, nil
}

// PolicyResource returns the MCP resource definition for the invoke policy.
func (h *Handler) PolicyResource() mcp.Resource {
	return mcp.NewResource(
		"stirrup://deploy/policy",
		"IAM Invoke Policy",
		mcp.WithResourceDescription("Rendered IAM policy granting InvokeAgentRuntime on the configured agent runtime"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandlePolicy renders the invoke policy for the configured runtime ARN.
func (h *Handler) HandlePolicy(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.cfg.Agent.RuntimeARN == "" {
		return errorResource(req.Params.URI,
			"no agent runtime ARN configured; set agent.runtime_arn or STIRRUP_AGENT_ARN"), nil
	}

	arn, err := runtime.ParseARN(h.cfg.Agent.RuntimeARN)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	rendered, err := policy.RenderJSON(policy.InvokeDocument(arn.String()))
	if err != nil {
		return nil, fmt.Errorf("rendering policy: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     rendered,
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}

const runbookMarkdown = `# Deploying stirrup to Bedrock AgentCore (IAM auth)

1. Build and push the container image:

       docker build -t stirrup .
       aws ecr create-repository --repository-name stirrup
       docker tag stirrup:latest <account-id>.dkr.ecr.<region>.amazonaws.com/stirrup:latest
       docker push <account-id>.dkr.ecr.<region>.amazonaws.com/stirrup:latest

2. Create the agent runtime with IAM (SigV4) authentication instead of OAuth.
   The server listens on 0.0.0.0:8000 at /mcp, which is the AgentCore
   MCP protocol contract.

3. Create a caller IAM user and attach the invoke policy
   (read stirrup://deploy/policy, or run: stirrup policy -arn <runtime-arn>):

       aws iam create-user --user-name stirrup-caller
       aws iam put-user-policy --user-name stirrup-caller \
           --policy-name invoke-stirrup --policy-document file://policy.json

4. Validate the deployment with SigV4-signed MCP calls:

       stirrup check -arn <runtime-arn> -region <region>

   The check initializes an MCP session, lists the tools, and exercises
   add_numbers, multiply_numbers, greet_user, and get_aws_region.
`
