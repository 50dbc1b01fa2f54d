package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

var (
	aadhaarNumberPattern = regexp.MustCompile(`\d{4}\s\d{4}\s\d{4}`)

	dobLabelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)dob\s*[:=]?\s*\d{1,2}[/-]\d{1,2}[/-]\d{4}`),
		regexp.MustCompile(`(?i)date\s+of\s+birth\s*[:=]?\s*\d{1,2}[/-]\d{1,2}[/-]\d{4}`),
		regexp.MustCompile(`(?i)birth\s+date\s*[:=]?\s*\d{1,2}[/-]\d{1,2}[/-]\d{4}`),
	}
	plainDatePattern = regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.](\d{4})`)

	hallTicketPattern = regexp.MustCompile(`[A-Za-z0-9]{10,11}`)
	boardPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bssc\b`),
		regexp.MustCompile(`(?i)\bcbse\b`),
		regexp.MustCompile(`(?i)\bicse\b`),
		regexp.MustCompile(`(?i)\binternational\s+gcse\b`),
		regexp.MustCompile(`(?i)\bpearson\s+edexcel\b`),
		regexp.MustCompile(`(?i)\bib\b`),
		regexp.MustCompile(`(?i)\bstate\s+board\b`),
	}

	interHeadingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)INTERMEDIATE.*PASS.*CERTIFICATE.*MEMORANDUM.*MARKS`),
		regexp.MustCompile(`(?i)INTERMEDIATE.*CERTIFICATE.*MARKS`),
		regexp.MustCompile(`(?i)PASS CERTIFICATE-CUM-MEMORANDUM OF MARKS`),
	}
	fatherNamePattern = regexp.MustCompile(`(?i)father['’]?s?\s+name\s*[:=]?\s*[A-Za-z]+(\s+[A-Za-z]+)*`)
	motherNamePattern = regexp.MustCompile(`(?i)mother['’]?s?\s+name\s*[:=]?\s*[A-Za-z]+(\s+[A-Za-z]+)*`)

	collegeKeywordPattern = regexp.MustCompile(`(?i)\b(college|university|institute|school)\b`)

	incomeHeadingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)INCOME\s+CERTIFICATE`),
		regexp.MustCompile(`(?i)GOVERNMENT.*TELANGANA.*REVENUE.*DEPARTMENT`),
		regexp.MustCompile(`(?i)REVENUE.*DEPARTMENT.*INCOME`),
		regexp.MustCompile(`(?i)TELANGANA.*INCOME.*CERTIFICATE`),
		regexp.MustCompile(`(?i)REVENUE\s+DEPARTMENT`),
		regexp.MustCompile(`(?i)TELANGANA.*REVENUE`),
		regexp.MustCompile(`(?i)GOVERNMENT.*REVENUE`),
	}
	applicationNo14Pattern = regexp.MustCompile(`[A-Za-z0-9]{14}`)
	simpleDatePattern      = regexp.MustCompile(`\d{2}[/\-.]\d{2}[/\-.]\d{4}`)

	accountNumberPattern = regexp.MustCompile(`\d{9,18}`)

	universityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)OSMANIA\s+UNIVERSITY`),
		regexp.MustCompile(`(?i)\$MANIA\s+UNIVERSITY`),
		regexp.MustCompile(`(?i)OSMANLA\s+UNIVERSITY`),
		regexp.MustCompile(`(?i)0SMANIA\s+UNIVERSITY`),
		regexp.MustCompile(`(?i)QSMANIA\s+UNIVERSITY`),
	}
	examKeywordPattern = regexp.MustCompile(`(?i)\b(semester|annual|examination)\b`)
	rollNoPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)roll\s+no\s*[:=.]?\s*([A-Za-z0-9]+)`),
		regexp.MustCompile(`(?i)rollno\s*[:=.]?\s*([A-Za-z0-9]+)`),
		regexp.MustCompile(`(?i)roll\s+number\s*[:=.]?\s*([A-Za-z0-9]+)`),
		regexp.MustCompile(`(?i)roll\s*[:=.]?\s*([A-Za-z0-9]+)`),
	}
)

// OCR-tolerant substring sets for fixed headings and institution names.
var (
	allotmentCollegePatterns = []string{
		"M J COLLEGE OF ENGINEERING AND TECHNOLOGY (MJCT), BANJARA HILLS, HYD",
		"M J COLLEGE OF ENGINEERING AND TECHNOLOGY",
		"MJCT",
		"BANJARA HILLS",
	}
	bonafideHeadings = []string{
		"BONAFIDE CERTIFICATE",
		"CONDUCT CERTIFICATE",
		"BONAFIDE & CONDUCT CERTIFICATE",
	}
	beCollegePatterns = []string{
		"MUFFAKHAM JAH COLLEGE OF ENGINEERING & TECHNOLOGY",
		"MUFFAKHAM JAH",
		"COLLEGE OF ENGINEERING & TECHNOLOGY",
		"MUFFAKHAMJAH",
		"ENGINEERING & TECHNOLOGY",
	}
	beHeadingPatterns = []string{
		"BONAFIDE/CONDUCT CERTIFICATE",
		"BONAFIDE",
		"CONDUCT CERTIFICATE",
		"CERTIFICATE",
	}
)

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func (s *Service) validateAadhaar(text string, _ document.Category) document.Verdict {
	var missing []string

	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !aadhaarNumberPattern.MatchString(text) {
		missing = append(missing, "Aadhaar number")
	}
	if !s.hasDOB(text) {
		missing = append(missing, "date of birth")
	}
	// Gender is not gated on; single-letter indicators are too often
	// OCR noise.

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

// hasDOB accepts an explicit labelled date of birth, any recognized
// date, or a bare date whose year falls before 2000. Recent years are
// issue dates, not birth dates.
func (s *Service) hasDOB(text string) bool {
	if s.hasDate(text) {
		return true
	}
	for _, p := range dobLabelPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	for _, m := range plainDatePattern.FindAllStringSubmatch(text, -1) {
		if year, err := strconv.Atoi(m[1]); err == nil && year < 2000 {
			return true
		}
	}
	return false
}

func (s *Service) validateAllotmentOrder(text string, _ document.Category) document.Verdict {
	var missing []string

	if !strings.Contains(text, "PROVISIONAL ALLOTMENT ORDER") {
		missing = append(missing, "PROVISIONAL ALLOTMENT ORDER heading")
	}
	if !containsAny(text, allotmentCollegePatterns) {
		missing = append(missing, "college name")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "candidate name")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

func (s *Service) validateTenthMemo(text string, _ document.Category) document.Verdict {
	var missing []string

	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !hallTicketPattern.MatchString(text) {
		missing = append(missing, "hall ticket number")
	}
	if !matchesAny(text, boardPatterns) {
		missing = append(missing, "board name")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

func (s *Service) validateInterMemo(text string, _ document.Category) document.Verdict {
	var missing []string

	if !matchesAny(text, interHeadingPatterns) {
		missing = append(missing, "INTERMEDIATE PASS CERTIFICATE-CUM-MEMORANDUM OF MARKS heading")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !fatherNamePattern.MatchString(text) {
		missing = append(missing, "father's name")
	}
	if !motherNamePattern.MatchString(text) {
		missing = append(missing, "mother's name")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

func (s *Service) validateSchoolBonafide(text string, _ document.Category) document.Verdict {
	var missing []string

	if !containsAny(text, bonafideHeadings) {
		missing = append(missing, "bonafide certificate heading")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !s.hasOrgOrKeyword(text, "SCHOOL") {
		missing = append(missing, "school name")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

func (s *Service) validateInterBonafide(text string, _ document.Category) document.Verdict {
	var missing []string

	if !containsAny(text, bonafideHeadings) {
		missing = append(missing, "bonafide certificate heading")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !s.hasOrgOrKeyword(text, "COLLEGE") {
		missing = append(missing, "college name")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

func (s *Service) validateInterTC(text string, _ document.Category) document.Verdict {
	var missing []string

	if !strings.Contains(text, "TRANSFER CERTIFICATE") {
		missing = append(missing, "TRANSFER CERTIFICATE heading")
	}
	if len(s.recognizer.Orgs(text)) == 0 && !collegeKeywordPattern.MatchString(text) {
		missing = append(missing, "college name")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

// validateBEBonafide checks the reliably printed elements only. Names
// and roll numbers on these certificates are handwritten and survive
// OCR too rarely to gate on. This type reports detailed missing-field
// feedback.
func (s *Service) validateBEBonafide(text string, _ document.Category) document.Verdict {
	var missing []string
	upper := strings.ToUpper(text)

	if !containsAny(upper, beCollegePatterns) {
		missing = append(missing, "MUFFAKHAM JAH COLLEGE OF ENGINEERING & TECHNOLOGY")
	}
	if !containsAny(upper, beHeadingPatterns) {
		missing = append(missing, "Bonafide/Conduct Certificate heading")
	}

	year := s.currentYear()
	if !s.hasYear(text, year) {
		missing = append(missing, fmt.Sprintf("Please ensure the date is of current year (%d)", year))
	}

	if len(missing) > 0 {
		return rejectMissing(true, missing)
	}
	return approveWith(feedbackUploaded)
}

// hasYear reports whether the year appears bare, inside a date, or in a
// recognized date entity.
func (s *Service) hasYear(text string, year int) bool {
	y := strconv.Itoa(year)
	if strings.Contains(text, y) {
		return true
	}
	for _, d := range s.recognizer.Dates(text) {
		if strings.Contains(d, y) {
			return true
		}
	}
	return false
}

func (s *Service) validateIncomeCertificate(text string, _ document.Category) document.Verdict {
	var missing []string

	if !matchesAny(text, incomeHeadingPatterns) {
		missing = append(missing, "INCOME CERTIFICATE heading")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !applicationNo14Pattern.MatchString(text) {
		missing = append(missing, "application number (14-digit)")
	}
	if !s.hasDate(text) && !simpleDatePattern.MatchString(text) {
		missing = append(missing, "date")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

func (s *Service) validateBankPassbook(text string, _ document.Category) document.Verdict {
	var missing []string

	if !s.hasOrgOrKeyword(text, "BANK") {
		missing = append(missing, "bank name")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !accountNumberPattern.MatchString(text) {
		missing = append(missing, "account number")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}

func (s *Service) validateLatestSemMemo(text string, category document.Category) document.Verdict {
	if category == document.FirstYear {
		return document.Reject("Semester memos not required for 1st-year students")
	}

	var missing []string

	if !matchesAny(text, universityPatterns) {
		missing = append(missing, "OSMANIA UNIVERSITY")
	}
	if !examKeywordPattern.MatchString(text) {
		missing = append(missing, "examination name")
	}
	if !s.hasPerson(text) {
		missing = append(missing, "name")
	}
	if !matchesAny(text, rollNoPatterns) {
		missing = append(missing, "roll no")
	}

	if len(missing) > 0 {
		return rejectMissing(false, missing)
	}
	return approveWith(feedbackUploaded)
}
