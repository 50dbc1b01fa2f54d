package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

// requirementsCmd represents the requirements command.
var requirementsCmd = &cobra.Command{
	Use:   "requirements",
	Short: "List the documents required for a student category",
	Long: `List which documents are required, optional, and not required for a
student category, and how many semester memos a course year needs.

Examples:
  scholardoc requirements --category 1st_year
  scholardoc requirements --category 2_3_4_year --year 3 --format json`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRequirementsCommand,
}

func runRequirementsCommand(cmd *cobra.Command, _ []string) error {
	raw, _ := cmd.Flags().GetString("category")
	category, err := document.ParseCategory(raw)
	if err != nil {
		return err
	}

	year, _ := cmd.Flags().GetInt("year")
	if cmd.Flags().Changed("year") && (year < 1 || year > 4) {
		return fmt.Errorf("invalid course year: %d (must be 1-4)", year)
	}

	format, _ := cmd.Flags().GetString("format")
	reqs := document.RequiredDocuments(category, year)

	if format == outputFormatJSON {
		payload := map[string]any{
			"student_category": category,
			"documents":        reqs,
		}
		if year > 0 {
			payload["course_year"] = year
			payload["semester_memo_count"] = document.SemesterMemoCount(year)
		}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Category: %s\n", category)
	if year > 0 {
		_, _ = fmt.Fprintf(w, "Course year: %d (%d semester memos)\n", year, document.SemesterMemoCount(year))
	}
	printDocumentList(w, "Required", reqs.Required)
	printDocumentList(w, "Optional", reqs.Optional)
	printDocumentList(w, "Not required", reqs.NotRequired)
	return nil
}

func printDocumentList(w io.Writer, label string, types []document.Type) {
	if len(types) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "%s:\n", label)
	for _, t := range types {
		_, _ = fmt.Fprintf(w, "  %s\n", t)
	}
}

func init() {
	rootCmd.AddCommand(requirementsCmd)
	requirementsCmd.Flags().StringP("category", "c", "", "student category (1st_year, lateral_entry, 2_3_4_year)")
	requirementsCmd.Flags().IntP("year", "y", 0, "course year (1-4)")
	requirementsCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	_ = requirementsCmd.MarkFlagRequired("category")
}
