package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STIRRUP_LISTEN_ADDR", "STIRRUP_AGENT_ARN", "STIRRUP_QUALIFIER",
		"STIRRUP_DATA_DIR", "AWS_REGION", "AWS_DEFAULT_REGION",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// --- Load ---

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %s, want :8000", cfg.Server.ListenAddr)
	}
	if cfg.Server.EndpointPath != "/mcp" {
		t.Errorf("EndpointPath = %s, want /mcp", cfg.Server.EndpointPath)
	}
	if cfg.Server.Stateful {
		t.Error("Stateful should default to false")
	}
	if cfg.Agent.Qualifier != "DEFAULT" {
		t.Errorf("Qualifier = %s, want DEFAULT", cfg.Agent.Qualifier)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir should default to a home-relative path")
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "stirrup.json")
	content := `{
		"server": {"listen_addr": ":9000", "endpoint_path": "/custom"},
		"agent": {
			"runtime_arn": "arn:aws:bedrock-agentcore:us-east-1:123456789012:runtime/demo-x",
			"region": "us-east-1",
			"qualifier": "PROD"
		},
		"data_dir": "/tmp/stirrup-test"
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %s, want :9000", cfg.Server.ListenAddr)
	}
	if cfg.Server.EndpointPath != "/custom" {
		t.Errorf("EndpointPath = %s, want /custom", cfg.Server.EndpointPath)
	}
	if cfg.Agent.Region != "us-east-1" {
		t.Errorf("Region = %s, want us-east-1", cfg.Agent.Region)
	}
	if cfg.Agent.Qualifier != "PROD" {
		t.Errorf("Qualifier = %s, want PROD", cfg.Agent.Qualifier)
	}
	if cfg.DataDir != "/tmp/stirrup-test" {
		t.Errorf("DataDir = %s, want /tmp/stirrup-test", cfg.DataDir)
	}
}

func TestLoad_InvalidJSONFails(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of invalid JSON succeeded, want error")
	}
}

// --- Environment overlay ---

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "stirrup.json")
	if err := os.WriteFile(path, []byte(`{"server": {"listen_addr": ":9000"}}`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("STIRRUP_LISTEN_ADDR", ":7777")
	t.Setenv("STIRRUP_AGENT_ARN", "arn:aws:bedrock-agentcore:us-west-2:123456789012:runtime/env-y")
	t.Setenv("STIRRUP_QUALIFIER", "STAGING")
	t.Setenv("STIRRUP_DATA_DIR", "/tmp/env-data")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.ListenAddr != ":7777" {
		t.Errorf("ListenAddr = %s, want :7777", cfg.Server.ListenAddr)
	}
	if cfg.Agent.RuntimeARN != "arn:aws:bedrock-agentcore:us-west-2:123456789012:runtime/env-y" {
		t.Errorf("RuntimeARN = %s, want env value", cfg.Agent.RuntimeARN)
	}
	if cfg.Agent.Qualifier != "STAGING" {
		t.Errorf("Qualifier = %s, want STAGING", cfg.Agent.Qualifier)
	}
	if cfg.DataDir != "/tmp/env-data" {
		t.Errorf("DataDir = %s, want /tmp/env-data", cfg.DataDir)
	}
}

func TestLoad_AWSRegionEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "ap-southeast-2")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Agent.Region != "ap-southeast-2" {
		t.Errorf("Region = %s, want ap-southeast-2", cfg.Agent.Region)
	}
}

func TestLoad_EnvRegionBeatsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "ap-southeast-2")

	path := filepath.Join(t.TempDir(), "stirrup.json")
	if err := os.WriteFile(path, []byte(`{"agent": {"region": "eu-west-1"}}`), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Agent.Region != "ap-southeast-2" {
		t.Errorf("Region = %s, want ap-southeast-2 (environment wins over file)", cfg.Agent.Region)
	}
}

func TestLoad_DefaultRegionEnvIsFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "us-east-2")
	t.Setenv("AWS_DEFAULT_REGION", "eu-north-1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Agent.Region != "us-east-2" {
		t.Errorf("Region = %s, want us-east-2 (AWS_REGION beats AWS_DEFAULT_REGION)", cfg.Agent.Region)
	}
}
