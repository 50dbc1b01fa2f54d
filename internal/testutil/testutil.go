// Package testutil provides helpers for generating synthetic scholarship
// document scans and locating project paths in tests.
package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// GetProjectRoot returns the project root directory by finding go.mod.
func GetProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("failed to get caller information")
	}
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find go.mod file starting from %s", filepath.Dir(filename))
}

// ValidateProjectRoot ensures the directory contains go.mod and the
// expected layout.
func ValidateProjectRoot(root string) error {
	if !FileExists(filepath.Join(root, "go.mod")) {
		return fmt.Errorf("go.mod not found at %s", filepath.Join(root, "go.mod"))
	}
	for _, dir := range []string{"internal", "cmd"} {
		if !DirExists(filepath.Join(root, dir)) {
			return fmt.Errorf("required project directory %s not found under %s", dir, root)
		}
	}
	return nil
}

// GetProjectRootValidated returns the project root with validation.
func GetProjectRootValidated() (string, error) {
	root, err := GetProjectRoot()
	if err != nil {
		return "", err
	}
	if err := ValidateProjectRoot(root); err != nil {
		return "", fmt.Errorf("invalid project root %s: %w", root, err)
	}
	return root, nil
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o750)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// DirExists checks if a directory exists.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return !os.IsNotExist(err) && info.IsDir()
}
