// Package config loads stirrup's configuration from an optional JSON file,
// applies defaults, and overlays environment variables.
//
// Precedence, lowest to highest: defaults, config file, environment.
// Command-line flags (handled in main) override all three.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for both serve and check modes.
type Config struct {
	Server  ServerConfig `json:"server"`
	Agent   AgentConfig  `json:"agent"`
	DataDir string       `json:"data_dir"`
}

// ServerConfig controls the local MCP server's HTTP transport.
type ServerConfig struct {
	ListenAddr   string `json:"listen_addr"`
	EndpointPath string `json:"endpoint_path"`

	// Stateful enables per-session state in the streamable HTTP transport.
	// AgentCore may route each invocation to a fresh container, so the
	// deployed server must stay stateless; this exists for local testing.
	Stateful bool `json:"stateful"`
}

// AgentConfig identifies the deployed agent runtime that check targets.
type AgentConfig struct {
	RuntimeARN string `json:"runtime_arn"`
	Region     string `json:"region"`
	Qualifier  string `json:"qualifier"`
}

// Load parses the JSON config file at path and applies defaults.
// An empty path yields a default configuration; a missing file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

// applyDefaults fills fields the file left empty.
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		// 0.0.0.0:8000 with path /mcp is the AgentCore container contract.
		c.Server.ListenAddr = ":8000"
	}
	if c.Server.EndpointPath == "" {
		c.Server.EndpointPath = "/mcp"
	}
	if c.Agent.Qualifier == "" {
		c.Agent.Qualifier = "DEFAULT"
	}
	if c.DataDir == "" {
		home, _ := os.UserHomeDir()
		c.DataDir = filepath.Join(home, ".stirrup")
	}
}

// applyEnv overlays environment variables onto the loaded config.
func (c *Config) applyEnv() {
	if v := os.Getenv("STIRRUP_LISTEN_ADDR"); v != "" {
		c.Server.ListenAddr = v
	}
	if v := os.Getenv("STIRRUP_AGENT_ARN"); v != "" {
		c.Agent.RuntimeARN = v
	}
	if v := os.Getenv("STIRRUP_QUALIFIER"); v != "" {
		c.Agent.Qualifier = v
	}
	if v := os.Getenv("STIRRUP_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Agent.Region = v
	} else if v := os.Getenv("AWS_DEFAULT_REGION"); v != "" {
		c.Agent.Region = v
	}
}
