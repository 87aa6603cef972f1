//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIKey     string
	Region     string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	region := os.Getenv("KB4_TEST_REGION")
	if region == "" {
		region = "us"
	}

	return &TestConfig{
		APIKey:     os.Getenv("KB4_API_KEY"),
		Region:     region,
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("KB4_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the kb4 binary
func getBinaryPath() string {
	if path := os.Getenv("KB4_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../kb4",
		"./kb4",
		"../kb4",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "kb4" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.APIKey == "" {
		t.Skip("KB4_API_KEY not set, skipping integration test")
	}
}

// CommandRunner provides utilities for running kb4 commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a kb4 command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	full := append([]string{"--region", runner.config.Region, "--key", runner.config.APIKey}, args...)

	cmd := exec.Command(runner.config.BinaryPath, full...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// AssertJSONOutput fails the test if output is not valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	var decoded interface{}
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, output)
	}
}
