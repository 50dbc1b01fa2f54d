package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// FormatResult renders a batch result in the configured format.
func FormatResult(result *Result, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(result)
	default: // text
		return formatText(result), nil
	}
}

// formatJSON formats the result as indented JSON.
func formatJSON(result *Result) (string, error) {
	bts, err := json.MarshalIndent(result, "", "  ")
	return string(bts), err
}

// formatText formats the result as a human-readable report.
func formatText(result *Result) string {
	var b strings.Builder

	for _, o := range result.Outcomes {
		switch {
		case o.Error != "":
			fmt.Fprintf(&b, "FAILED   %s: %s\n", o.Item.Path, o.Error)
		case o.Verdict.Approved():
			fmt.Fprintf(&b, "APPROVED %s\n", o.Item.Path)
		default:
			fmt.Fprintf(&b, "REJECTED %s: %s\n", o.Item.Path, o.Verdict.Feedback)
		}
	}

	fmt.Fprintf(&b, "\n%d approved, %d rejected, %d failed in %v (%d workers)\n",
		result.Approved, result.Rejected, result.Failed,
		result.Duration.Round(time.Millisecond), result.WorkerCount)
	return b.String()
}

// WriteResult writes the formatted result to a file, or stdout when no
// file is configured.
func WriteResult(result *Result, format, outputFile string) error {
	out, err := FormatResult(result, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(outputFile, []byte(out), 0o600)
}
