package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/pipeline"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// verifyCmd represents the verify command.
var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Verify a single scholarship document",
	Long: `Verify one scanned document against the rules for its type.

The file may be a PDF or a raster scan (PNG, JPEG, TIFF). The document
type selects the validation rules; the optional student ID enables the
cross-document identity check.

Examples:
  scholardoc verify aadhaar.png --type aadhaar
  scholardoc verify memo.pdf --type latest_sem_memo --student-id 160423733008 --category 2_3_4_year
  scholardoc verify form.pdf --type scholarship_application_form --format json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runVerifyCommand,
}

func runVerifyCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	typeFlag, _ := cmd.Flags().GetString("type")
	docType, err := document.ParseType(typeFlag)
	if err != nil {
		return err
	}

	var category document.Category
	if raw, _ := cmd.Flags().GetString("category"); raw != "" {
		category, err = document.ParseCategory(raw)
		if err != nil {
			return err
		}
	}

	studentID, _ := cmd.Flags().GetString("student-id")
	format, _ := cmd.Flags().GetString("format")
	if format != outputFormatText && format != outputFormatJSON {
		return fmt.Errorf("invalid output format: %s (must be text or json)", format)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	pCfg := cfg.ToPipelineConfig()
	if cmd.Flags().Changed("language") {
		pCfg.Tesseract.Language, _ = cmd.Flags().GetString("language")
	}

	verifier, err := pipeline.NewBuilder().WithConfig(pCfg).Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer func() { _ = verifier.Close() }()

	verdict, err := verifier.Verify(cmd.Context(), data, docType, studentID, category)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	return writeVerdict(cmd, verdict, format)
}

func writeVerdict(cmd *cobra.Command, verdict document.Verdict, format string) error {
	if format == outputFormatJSON {
		out, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verdict.Status, verdict.Feedback)
	for key, val := range verdict.Fields {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", key, val)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringP("type", "t", "", "document type (e.g. aadhaar, latest_sem_memo)")
	verifyCmd.Flags().StringP("category", "c", "", "student category (1st_year, lateral_entry, 2_3_4_year)")
	verifyCmd.Flags().StringP("student-id", "s", "", "student identifier for consistency checks")
	verifyCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	verifyCmd.Flags().String("language", "", "override OCR language")
	_ = verifyCmd.MarkFlagRequired("type")
}
