package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

var (
	deptMinorityPattern    = regexp.MustCompile(`(?i)department.*minority`)
	studentAppPattern      = regexp.MustCompile(`(?i)student.*application`)
	verificationPattern    = regexp.MustCompile(`(?i)verification.*report`)
	postMatricPattern      = regexp.MustCompile(`(?i)post.*matric.*scholarship`)
	freshPattern           = regexp.MustCompile(`(?i)\b(fresh|freash|fres|frash)\b`)
	renewalPattern         = regexp.MustCompile(`(?i)\b(renewal|renwal|renew)\b`)
	courseYearPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)course\s+year[:\s]*(\d+)`),
		regexp.MustCompile(`(?i)year[:\s]*(\d+)`),
		regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)\s+year`),
	}
	applicationNoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)application\s+no[.:]\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)app\s+no[.:]\s*([A-Z0-9]+)`),
		regexp.MustCompile(`(?i)application\s+number[.:]\s*([A-Z0-9]+)`),
	}

	acknowledgementPattern = regexp.MustCompile(`(?i)acknowledgement`)
	labelledNamePatterns   = []*regexp.Regexp{
		regexp.MustCompile(`name[:\s]+([A-Z][A-Za-z ]+)`),
		regexp.MustCompile(`(?i)student[:\s]+([A-Z][A-Za-z ]+)`),
		regexp.MustCompile(`(?i)applicant[:\s]+([A-Z][A-Za-z ]+)`),
		regexp.MustCompile(`(?i)m[rs]\.?\s+([A-Z][A-Za-z ]+)`),
	}

	percentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,3})%`),
		regexp.MustCompile(`(?i)(\d{1,3})\s*percent`),
		regexp.MustCompile(`(?i)attendance[:\s]*(\d{1,3})`),
		regexp.MustCompile(`(?i)(\d{2,3})[^\d]{0,20}attendance`),
		regexp.MustCompile(`(?i)pe[mr]centager?[:\s=]*(\d{1,3})`),
		regexp.MustCompile(`(?i)percentage[:\s=]*(\d{1,3})`),
	}
	// Garbled percent readings like "37-7" or "37.7" stand for 77: the
	// tens digit survives in the first group, the units in the second.
	garbledPercentPattern = regexp.MustCompile(`(\d{1,2})[-.](\d)\b`)

	bondHeadingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)income\s+bond\s+paper`),
		regexp.MustCompile(`(?i)income.*bond`),
		regexp.MustCompile(`(?i)bond\s+paper`),
		regexp.MustCompile(`(?i)undertaking.*income`),
	}
	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)rs[.\s]*\d+`),
		regexp.MustCompile(`(?i)rupees\s+\d+`),
		regexp.MustCompile(`(?i)\d+[/-]\s*rupees`),
	}
	signaturePattern = regexp.MustCompile(`(?i)\bsign(ature|ed)?\b`)
)

// headingComponent is one recognizable fragment of the application form
// heading. The form is accepted on a partial match because the heading
// spans a dense header block that OCR rarely reads in full.
type headingComponent struct {
	name    string
	pattern *regexp.Regexp
}

func (s *Service) academicYearPattern(year int) *regexp.Regexp {
	short := strconv.Itoa(year)[2:]
	return regexp.MustCompile(fmt.Sprintf(`\b%d\b|\b%d[-.\s]+%s\b|\b%d\b`, year, year-1, short, year-1))
}

func (s *Service) baseHeadingComponents(year int) []headingComponent {
	return []headingComponent{
		{"Department of Minority", deptMinorityPattern},
		{"Student Application", studentAppPattern},
		{"Verification Report", verificationPattern},
		{"Post-Matric Scholarship", postMatricPattern},
		{fmt.Sprintf("Academic Year %d", year), s.academicYearPattern(year)},
	}
}

// extractCourseYear pulls a course year mention out of the form text.
// Zero means no year was found.
func extractCourseYear(text string) int {
	for _, p := range courseYearPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if year, err := strconv.Atoi(m[1]); err == nil {
				return year
			}
		}
	}
	return 0
}

func (s *Service) validateApplicationForm(text string, category document.Category) document.Verdict {
	year := s.currentYear()
	var missing []string

	if !s.applicationHeadingOK(text, category, year) {
		missing = append(missing, "scholarship application form heading")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !matchesAny(text, applicationNoPatterns) {
		missing = append(missing, "application number")
	}
	if !s.hasRecentDate(text, year) {
		missing = append(missing, fmt.Sprintf("date with current year (%d)", year))
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

// applicationHeadingOK scores the category-specific heading components
// against the flexible threshold. Fresh is the critical keyword for
// first-year forms, Renewal for renewal categories; lateral entry forms
// carry Fresh in second year and Renewal after.
func (s *Service) applicationHeadingOK(text string, category document.Category, year int) bool {
	components := s.baseHeadingComponents(year)
	threshold := applicationMinComponents

	switch category {
	case document.FirstYear:
		components = append(components, headingComponent{"Fresh", freshPattern})
		threshold = applicationFirstYearMinComponents
	case document.LateralEntry:
		if extractCourseYear(text) == 2 {
			components = append(components, headingComponent{"Fresh", freshPattern})
		} else {
			components = append(components, headingComponent{"Renewal", renewalPattern})
		}
	case document.SecondThirdFour:
		components = append(components, headingComponent{"Renewal", renewalPattern})
	default:
		// No category: accept any scholarship heading near the current
		// year.
		generic := []*regexp.Regexp{
			regexp.MustCompile(fmt.Sprintf(`(?i)scholarship.*application.*%d`, year)),
			regexp.MustCompile(fmt.Sprintf(`(?i)fresh.*%d`, year)),
			regexp.MustCompile(fmt.Sprintf(`(?i)renewal.*%d`, year)),
		}
		return matchesAny(text, generic)
	}

	found := 0
	for _, c := range components {
		if c.pattern.MatchString(text) {
			found++
		}
	}
	return found >= threshold
}

// hasRecentDate accepts a recognized date carrying the current or the
// previous year, which covers academic-year spans.
func (s *Service) hasRecentDate(text string, year int) bool {
	cur, prev := strconv.Itoa(year), strconv.Itoa(year-1)
	for _, d := range s.recognizer.Dates(text) {
		if strings.Contains(d, cur) || strings.Contains(d, prev) {
			return true
		}
	}
	return false
}

func (s *Service) validateAcknowledgementForm(text string, _ document.Category) document.Verdict {
	year := s.currentYear()
	var missing []string

	if !acknowledgementPattern.MatchString(text) {
		missing = append(missing, "Acknowledgement keyword")
	}
	if !s.hasPerson(text) && !matchesAny(text, labelledNamePatterns) {
		missing = append(missing, "student name")
	}
	if !s.hasYear(text, year) {
		missing = append(missing, fmt.Sprintf("current year (%d)", year))
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

func (s *Service) validateAttendanceForm(text string, _ document.Category) document.Verdict {
	year := s.currentYear()
	var missing []string

	if !s.hasPerson(text) && !matchesAny(text, labelledNamePatterns) {
		missing = append(missing, "student name")
	}
	if !s.hasYear(text, year) && !s.hasYear(text, year-1) {
		missing = append(missing, fmt.Sprintf("current year (%d)", year))
	}
	if !hasPassingAttendance(text) {
		missing = append(missing, "attendance percentage")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

// hasPassingAttendance scans for a percentage reading at or above the
// acceptance floor, repairing garbled dash and dot readings first.
func hasPassingAttendance(text string) bool {
	for _, p := range percentPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if v, err := strconv.Atoi(m[1]); err == nil && v >= attendanceMinPercent && v <= 100 {
				return true
			}
		}
	}
	for _, m := range garbledPercentPattern.FindAllStringSubmatch(text, -1) {
		tens := m[1][len(m[1])-1:]
		if v, err := strconv.Atoi(tens + m[2]); err == nil && v >= attendanceMinPercent && v <= 100 {
			return true
		}
	}
	return false
}

func (s *Service) validateIncomeBondPaper(text string, category document.Category) document.Verdict {
	if category == document.FirstYear {
		return document.Reject("Income Bond Paper not required for 1st-year students")
	}

	var missing []string

	if !matchesAny(text, bondHeadingPatterns) {
		missing = append(missing, "Income Bond Paper heading")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !matchesAny(text, amountPatterns) {
		missing = append(missing, "amount")
	}
	if !signaturePattern.MatchString(text) {
		missing = append(missing, "signature")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}
