package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/batch"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/pipeline"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Verify a directory of scholarship documents",
	Long: `Verify every document found under the given files and directories.

Files must be named after their document type (aadhaar.png,
latest_sem_memo.pdf, income_certificate.jpg). When documents live in
per-student subdirectories, the directory name is used as the student
ID; otherwise --student-id applies to every file.

Examples:
  scholardoc batch ./applications --recursive --category 2_3_4_year
  scholardoc batch ./scans --workers 8 --format json --output results.json
  scholardoc batch ./docs --exclude "*draft*" --continue-on-error=false`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	batchConfig := batch.DefaultConfig()
	batchConfig.Workers = cfg.Batch.Workers
	batchConfig.ContinueOnError = cfg.Batch.ContinueOnError
	batchConfig.OutputFile = cfg.Batch.OutputFile

	// CLI flags win over the configuration file.
	if cmd.Flags().Changed("workers") {
		batchConfig.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("continue-on-error") {
		batchConfig.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
	}
	if cmd.Flags().Changed("output") {
		batchConfig.OutputFile, _ = cmd.Flags().GetString("output")
	}
	batchConfig.Recursive, _ = cmd.Flags().GetBool("recursive")
	batchConfig.Format, _ = cmd.Flags().GetString("format")
	batchConfig.StudentID, _ = cmd.Flags().GetString("student-id")
	batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")

	if raw, _ := cmd.Flags().GetString("category"); raw != "" {
		category, err := document.ParseCategory(raw)
		if err != nil {
			return err
		}
		batchConfig.Category = category
	}

	if err := batchConfig.Validate(); err != nil {
		return err
	}

	verifier, err := pipeline.NewBuilder().WithConfig(cfg.ToPipelineConfig()).Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer func() { _ = verifier.Close() }()

	result, err := batch.ProcessBatch(cmd.Context(), verifier, args, batchConfig)
	if err != nil {
		return err
	}

	return batch.WriteResult(result, batchConfig)
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("workers", "w", 0, "number of parallel verification workers")
	batchCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	batchCmd.Flags().StringP("category", "c", "", "student category applied to every document")
	batchCmd.Flags().StringP("student-id", "s", "", "student ID for files outside per-student directories")
	batchCmd.Flags().Bool("continue-on-error", true, "keep going when a document fails to verify")
	batchCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	batchCmd.Flags().StringP("output", "o", "", "write results to a file instead of stdout")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns of files to include")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of files to exclude")
}
