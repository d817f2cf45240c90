//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	BackendURL string
	Token      string
	LinguaPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		BackendURL: os.Getenv("LINGUA_INTEGRATION_URL"),
		Token:      os.Getenv("LINGUA_INTEGRATION_TOKEN"),
		LinguaPath: getLinguaPath(),
		Verbose:    os.Getenv("LINGUA_INTEGRATION_VERBOSE") == "true",
	}
}

// getLinguaPath determines the path to the lingua binary.
func getLinguaPath() string {
	if path := os.Getenv("LINGUA_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../lingua", "./lingua", "../lingua"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "lingua"
}

// SkipIfMissingConfig skips the test unless a backend and token are configured.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.BackendURL == "" || config.Token == "" {
		t.Skip("LINGUA_INTEGRATION_URL or LINGUA_INTEGRATION_TOKEN not set, skipping integration test")
	}
}

// SkipIfMissingBinary also requires a built lingua binary.
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()
	config.SkipIfMissingConfig(t)

	if _, err := exec.LookPath(config.LinguaPath); err != nil {
		t.Skipf("lingua binary not found at %s, skipping integration test", config.LinguaPath)
	}
}

// CommandRunner runs lingua commands against an isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configPath string
	t          *testing.T
}

// NewCommandRunner creates a runner whose config file lives in a temp dir.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configPath: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a lingua command and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configPath, "--base-url", runner.config.BackendURL}, args...)

	cmd := exec.Command(runner.config.LinguaPath, args...) //nolint:gosec // test binary path comes from the environment

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.LinguaPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login stores the integration token in the runner's config file.
func (runner *CommandRunner) Login() error {
	_, stderr, err := runner.Run("login", "--token", runner.config.Token)
	if err != nil {
		return fmt.Errorf("failed to log in: %s", stderr)
	}

	return nil
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CleanupPhrase attempts to delete a phrase created by a test.
func (runner *CommandRunner) CleanupPhrase(id string) {
	stdout, stderr, err := runner.Run("phrases", "delete", id)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for phrase %s: %s\nStderr: %s", id, stdout, stderr)
	}
}

// AssertJSONOutput verifies command output is valid JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output is not JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML.
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var value interface{}
	if err := yaml.Unmarshal([]byte(output), &value); err != nil {
		t.Errorf("Output is not YAML: %v\n%s", err, output)
	}
}
