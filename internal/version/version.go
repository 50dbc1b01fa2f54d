// Package version exposes build metadata stamped in via ldflags.
package version

import "fmt"

// Build-time variables set by ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version information
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// String renders the full version block shown by --version.
func String() string {
	return fmt.Sprintf("scholardoc version %s\nCommit: %s\nDate: %s\n",
		Version, GitCommit, BuildDate)
}
