package tools

import (
	"context"
	"errors"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/mark3labs/mcp-go/mcp"
)

// RegionFunc resolves the AWS region the server is running in.
type RegionFunc func(ctx context.Context) (string, error)

// AWSRegion resolves the region from the SDK's default chain: environment,
// shared config, then (inside AgentCore or EC2) instance metadata.
func AWSRegion(ctx context.Context) (string, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", err
	}
	if cfg.Region == "" {
		return "", errors.New("no AWS region configured")
	}
	return cfg.Region, nil
}

// RegionTool handles the get_aws_region MCP tool. It exists to prove the
// deployed container can reach AWS configuration, mirroring the checks the
// arithmetic tools can't cover.
type RegionTool struct {
	resolve RegionFunc
}

// NewRegionTool creates a RegionTool with the given resolver.
// Production wiring passes AWSRegion; tests inject a stub.
func NewRegionTool(resolve RegionFunc) *RegionTool {
	return &RegionTool{resolve: resolve}
}

// Definition returns the MCP tool definition for registration.
func (t *RegionTool) Definition() mcp.Tool {
	return mcp.NewTool("get_aws_region",
		mcp.WithDescription("Return the AWS region resolved from the runtime's default configuration chain."),
	)
}

// Handle processes the get_aws_region tool call.
func (t *RegionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	region, err := t.resolve(ctx)
	if err != nil {
		return mcp.NewToolResultError("resolving AWS region: " + err.Error()), nil
	}
	return mcp.NewToolResultText(region), nil
}
