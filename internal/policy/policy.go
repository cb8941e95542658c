// Package policy renders the IAM policy documents the deployment runbook
// asks the operator to create.
//
// Rendering only: nothing here calls IAM. The output is meant to be pasted
// into `aws iam put-user-policy` (or reviewed before attaching).
package policy

import (
	"encoding/json"
	"fmt"
)

// Document is an IAM policy document.
type Document struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is a single IAM policy statement.
type Statement struct {
	Sid      string   `json:"Sid,omitempty"`
	Effect   string   `json:"Effect"`
	Action   []string `json:"Action"`
	Resource []string `json:"Resource"`
}

// InvokeDocument returns the minimal policy that lets a principal invoke
// the given agent runtime. The second resource entry covers the runtime's
// endpoints (qualifiers), which the gateway authorizes separately.
func InvokeDocument(runtimeARN string) Document {
	return Document{
		Version: "2012-10-17",
		Statement: []Statement{
			{
				Sid:    "InvokeAgentRuntime",
				Effect: "Allow",
				Action: []string{"bedrock-agentcore:InvokeAgentRuntime"},
				Resource: []string{
					runtimeARN,
					runtimeARN + "/runtime-endpoint/*",
				},
			},
		},
	}
}

// RenderJSON serializes a policy document with the indentation the AWS CLI
// examples use.
func RenderJSON(doc Document) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("policy: marshal document: %w", err)
	}
	return string(data), nil
}
