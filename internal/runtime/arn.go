// Package runtime handles Bedrock AgentCore runtime addressing.
//
// An agent runtime is identified by an ARN of the form
//
//	arn:aws:bedrock-agentcore:<region>:<account-id>:runtime/<name>-<id>
//
// and invoked through a regional HTTPS endpoint that embeds the
// percent-encoded ARN in its path.
package runtime

import (
	"fmt"
	"strings"

	awsarn "github.com/aws/aws-sdk-go-v2/aws/arn"
)

// Service is the AWS service name used for both the invocation endpoint
// hostname and SigV4 credential scoping.
const Service = "bedrock-agentcore"

// DefaultQualifier is the endpoint qualifier used when none is configured.
const DefaultQualifier = "DEFAULT"

// ARN is a parsed agent runtime ARN.
type ARN struct {
	Partition string
	Region    string
	AccountID string
	Name      string

	raw string
}

// ParseARN validates and decomposes an agent runtime ARN. The generic ARN
// grammar is the SDK's; only the runtime-resource shape is checked here.
func ParseARN(s string) (ARN, error) {
	parsed, err := awsarn.Parse(s)
	if err != nil {
		return ARN{}, fmt.Errorf("runtime: %q is not an ARN: %w", s, err)
	}
	if parsed.Service != Service {
		return ARN{}, fmt.Errorf("runtime: ARN service is %q, want %q", parsed.Service, Service)
	}
	if parsed.Region == "" {
		return ARN{}, fmt.Errorf("runtime: ARN %q has no region", s)
	}
	if parsed.AccountID == "" {
		return ARN{}, fmt.Errorf("runtime: ARN %q has no account id", s)
	}
	name, ok := strings.CutPrefix(parsed.Resource, "runtime/")
	if !ok || name == "" {
		return ARN{}, fmt.Errorf("runtime: ARN resource %q is not a runtime", parsed.Resource)
	}
	return ARN{
		Partition: parsed.Partition,
		Region:    parsed.Region,
		AccountID: parsed.AccountID,
		Name:      name,
		raw:       s,
	}, nil
}

// String returns the original ARN text.
func (a ARN) String() string { return a.raw }

// The invocation path embeds the ARN with only ':' and '/' escaped.
// url.PathEscape would leave '/' alone, so the replacement is explicit.
var arnEscaper = strings.NewReplacer(":", "%3A", "/", "%2F")

// InvocationURL builds the AgentCore invocation endpoint for the runtime.
// An empty region falls back to the ARN's own region; an empty qualifier
// falls back to DefaultQualifier.
func InvocationURL(arn ARN, region, qualifier string) string {
	if region == "" {
		region = arn.Region
	}
	if qualifier == "" {
		qualifier = DefaultQualifier
	}
	return fmt.Sprintf("https://%s.%s.amazonaws.com/runtimes/%s/invocations?qualifier=%s",
		Service, region, arnEscaper.Replace(arn.String()), qualifier)
}
