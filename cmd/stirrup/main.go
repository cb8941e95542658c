// Stirrup: IAM-authenticated MCP demo server for Bedrock AgentCore.
//
// The server side is a deliberately trivial MCP service (add, multiply,
// greet, report region) that exists to validate a deployment path: package
// it into a container, run it on AgentCore with IAM (SigV4) authentication,
// and confirm the whole chain with signed MCP calls.
//
// Usage:
//
//	stirrup serve             # Start MCP server (streamable HTTP, :8000/mcp)
//	stirrup serve -stdio      # Start MCP server on stdio (local development)
//	stirrup check -arn <arn>  # Validate a deployment with SigV4-signed calls
//	stirrup policy -arn <arn> # Print the IAM invoke policy for the runtime
//	stirrup history           # Show recent validation runs
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/agentcore-tools/stirrup/internal/check"
	"github.com/agentcore-tools/stirrup/internal/config"
	"github.com/agentcore-tools/stirrup/internal/history"
	"github.com/agentcore-tools/stirrup/internal/policy"
	"github.com/agentcore-tools/stirrup/internal/runtime"
	stirrupserver "github.com/agentcore-tools/stirrup/internal/server"
	"github.com/agentcore-tools/stirrup/internal/sigv4"
	"github.com/agentcore-tools/stirrup/internal/tools"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "policy":
		err = runPolicy(os.Args[2:])
	case "history":
		err = runHistory(os.Args[2:])
	case "--version", "-v", "version":
		fmt.Printf("stirrup v%s\n", stirrupserver.Version)
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runServe starts the MCP server on stdio or streamable HTTP.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv("STIRRUP_CONFIG"), "path to JSON config file")
	stdio := fs.Bool("stdio", false, "serve on stdio instead of HTTP (local development)")
	addr := fs.String("addr", "", "listen address override (HTTP mode)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.ListenAddr = *addr
	}

	s := stirrupserver.New(cfg, tools.AWSRegion)

	if *stdio {
		return stirrupserver.ServeStdio(s)
	}

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logs go to stderr so they never mix with a transport on stdout.
	log.Printf("stirrup v%s serving MCP on %s%s", stirrupserver.Version, cfg.Server.ListenAddr, cfg.Server.EndpointPath)
	return stirrupserver.ServeHTTP(ctx, s, cfg)
}

// runCheck validates a deployed runtime with SigV4-signed MCP calls.
func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv("STIRRUP_CONFIG"), "path to JSON config file")
	arn := fs.String("arn", "", "agent runtime ARN (overrides config)")
	region := fs.String("region", "", "AWS region (defaults to the ARN's region)")
	qualifier := fs.String("qualifier", "", "runtime endpoint qualifier (default DEFAULT)")
	endpoint := fs.String("endpoint", "", "direct MCP URL; skips ARN resolution and SigV4 signing (local testing)")
	timeout := fs.Duration("timeout", 120*time.Second, "overall request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *arn != "" {
		cfg.Agent.RuntimeARN = *arn
	}
	if *region != "" {
		cfg.Agent.Region = *region
	}
	if *qualifier != "" {
		cfg.Agent.Qualifier = *qualifier
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &check.Runner{
		Out:           os.Stdout,
		ClientName:    "stirrup-check",
		ClientVersion: stirrupserver.Version,
	}

	if *endpoint != "" {
		runner.Endpoint = *endpoint
		runner.HTTPClient = &http.Client{Timeout: *timeout}
	} else {
		if cfg.Agent.RuntimeARN == "" {
			return fmt.Errorf("no agent runtime ARN: pass -arn, set agent.runtime_arn, or export STIRRUP_AGENT_ARN")
		}
		parsed, err := runtime.ParseARN(cfg.Agent.RuntimeARN)
		if err != nil {
			return err
		}
		signRegion := cfg.Agent.Region
		if signRegion == "" {
			signRegion = parsed.Region
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(signRegion))
		if err != nil {
			return fmt.Errorf("loading AWS credentials: %w", err)
		}

		runner.Endpoint = runtime.InvocationURL(parsed, cfg.Agent.Region, cfg.Agent.Qualifier)
		runner.HTTPClient = &http.Client{
			Transport: sigv4.New(awsCfg.Credentials, runtime.Service, signRegion),
			Timeout:   *timeout,
		}
	}

	// Best-effort run log. A broken local database never blocks validation.
	if store, err := history.New(history.Config{DataDir: cfg.DataDir}); err != nil {
		log.Printf("WARNING: history disabled: %v", err)
	} else {
		runner.History = store
		defer store.Close()
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nAll %d tool calls succeeded against %s v%s\n",
		len(report.Results), report.ServerName, report.ServerVersion)
	return nil
}

// runPolicy prints the IAM invoke policy for a runtime ARN.
func runPolicy(args []string) error {
	fs := flag.NewFlagSet("policy", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv("STIRRUP_CONFIG"), "path to JSON config file")
	arn := fs.String("arn", "", "agent runtime ARN (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *arn != "" {
		cfg.Agent.RuntimeARN = *arn
	}
	if cfg.Agent.RuntimeARN == "" {
		return fmt.Errorf("no agent runtime ARN: pass -arn, set agent.runtime_arn, or export STIRRUP_AGENT_ARN")
	}

	parsed, err := runtime.ParseARN(cfg.Agent.RuntimeARN)
	if err != nil {
		return err
	}
	rendered, err := policy.RenderJSON(policy.InvokeDocument(parsed.String()))
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}

// runHistory lists recent validation runs with their tool outcomes.
func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", os.Getenv("STIRRUP_CONFIG"), "path to JSON config file")
	limit := fs.Int("n", 10, "number of runs to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	store, err := history.New(history.Config{DataDir: cfg.DataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(*limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No validation runs recorded yet. Run: stirrup check")
		return nil
	}

	for _, run := range runs {
		status := "OK"
		if !run.OK {
			status = "FAILED"
		}
		fmt.Printf("%s  %s  %s\n", run.StartedAt, status, run.Endpoint)
		if run.Error != nil {
			fmt.Printf("    error: %s\n", *run.Error)
		}
		results, err := store.RunResults(run.ID)
		if err != nil {
			return err
		}
		for _, res := range results {
			mark := "ok"
			if !res.OK {
				mark = "FAIL"
			}
			fmt.Printf("    %-18s %-4s %4dms  %s\n", res.Tool, mark, res.DurationMS, res.Output)
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Stirrup v%s — IAM-authenticated MCP demo server for Bedrock AgentCore

Usage:
  stirrup serve [-stdio] [-addr :8000] [-config file]
        Start the MCP server. HTTP mode listens on :8000 at /mcp
        (the AgentCore container contract); -stdio serves local hosts.

  stirrup check [-arn <runtime-arn>] [-region <region>] [-qualifier DEFAULT]
        Validate a deployed runtime with SigV4-signed MCP calls:
        initialize, list tools, then exercise add_numbers,
        multiply_numbers, greet_user, and get_aws_region.
        Use -endpoint <url> to hit a local unsigned server instead.

  stirrup policy -arn <runtime-arn>
        Print the IAM policy that lets a user invoke the runtime.

  stirrup history [-n 10]
        Show recent validation runs.

  stirrup version
        Print the version.

Configuration is read from -config (JSON), then overridden by
STIRRUP_AGENT_ARN, STIRRUP_LISTEN_ADDR, STIRRUP_QUALIFIER,
STIRRUP_DATA_DIR, and AWS_REGION.
`, stirrupserver.Version)
}
