package batch

import (
	"fmt"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

// Config holds batch verification settings.
type Config struct {
	// Workers bounds the number of concurrent verifications.
	Workers int

	// Recursive descends into subdirectories of the given paths.
	Recursive bool

	// Include and exclude glob patterns matched against base names.
	IncludePatterns []string
	ExcludePatterns []string

	// ContinueOnError records failed files instead of aborting the run.
	ContinueOnError bool

	// StudentID applies to every file whose parent directory does not
	// name a student.
	StudentID string

	// Category applies to the whole batch. Empty skips category checks.
	Category document.Category

	// Output settings.
	Format     string // "text" or "json"
	OutputFile string
}

// DefaultConfig returns batch settings for a typical run.
func DefaultConfig() *Config {
	return &Config{
		Workers:         4,
		ContinueOnError: true,
		Format:          "text",
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("invalid worker count: %d (must be positive)", c.Workers)
	}
	if c.Format != "" && c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("invalid output format: %s (must be text or json)", c.Format)
	}
	if c.Category != "" {
		if _, err := document.ParseCategory(string(c.Category)); err != nil {
			return err
		}
	}
	return nil
}
