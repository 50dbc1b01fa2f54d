// Package support holds the godog step definitions for the scholardoc
// CLI acceptance suite.
package support

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TestContext holds the state shared by the steps of one scenario.
type TestContext struct {
	// Command execution state
	LastCommand  string
	LastOutput   string
	LastError    error
	LastExitCode int
	LastDuration time.Duration

	// Test environment
	WorkingDir string
	TempDir    string
	EnvVars    []string
}

// NewTestContext creates a fresh context rooted at the project directory.
func NewTestContext() (*TestContext, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// Test execution may start in a subdirectory; anchor at go.mod.
	currentDir := workingDir
	for {
		if _, err := os.Stat(filepath.Join(currentDir, "go.mod")); err == nil {
			workingDir = currentDir
			break
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	tempDir, err := os.MkdirTemp("", "scholardoc-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &TestContext{
		WorkingDir: workingDir,
		TempDir:    tempDir,
	}, nil
}

// Cleanup removes the scenario's temp directory.
func (testCtx *TestContext) Cleanup() error {
	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temp directory %s: %w", testCtx.TempDir, err)
	}
	return nil
}

// AddEnvVar adds an environment variable for command execution.
func (testCtx *TestContext) AddEnvVar(name, value string) {
	testCtx.EnvVars = append(testCtx.EnvVars, fmt.Sprintf("%s=%s", name, value))
}

// TempPath returns a path inside the scenario's temp directory.
func (testCtx *TestContext) TempPath(name string) string {
	return filepath.Join(testCtx.TempDir, name)
}
