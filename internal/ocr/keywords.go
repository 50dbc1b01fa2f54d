package ocr

import (
	"strings"
	"unicode"
)

// importantKeywords are the domain terms used to judge extraction
// quality across all passes.
var importantKeywords = []string{
	"Government", "Telangana", "Department", "Minority", "Student", "Application",
	"Verification", "Report", "Post-Matric", "Scholarship", "Fresh", "Renewal",
	"Acknowledgement", "Attendance",
	"State", "Board", "Technical", "Education", "Training", "Polytechnic",
	"Consolidated", "Memorandum", "Grades", "Transfer", "Certificate", "Bonafide",
	"Certify", "Diploma", "Institution", "College", "Course", "Branch",
	"SBTET", "Candidate", "Marks", "Result", "Record", "Engineering",
	"Institute", "Leaving", "Migration", "TC", "Cert", "Name",
}

// confidenceKeywords is the shorter list used by the text-confidence
// proxy that arbitrates between local OCR and the vision model.
var confidenceKeywords = []string{
	"government", "telangana", "scholarship", "application", "certificate",
	"bonafide", "aadhaar", "name", "date", "roll", "number", "college",
}

// CountKeywords counts how many important domain terms appear in the
// text, each at most once.
func CountKeywords(text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range importantKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}

// TextConfidence scores extracted text in [0, 1] from length, character
// diversity, word count and domain keyword hits.
func TextConfidence(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 5 {
		return 0.0
	}

	score := 0.0

	lengthFactor := float64(len(trimmed)) / 100.0
	if lengthFactor > 1 {
		lengthFactor = 1
	}
	score += lengthFactor * 0.3

	unique := map[rune]bool{}
	for _, r := range strings.ToLower(text) {
		unique[r] = true
	}
	diversityFactor := float64(len(unique)) / 20.0
	if diversityFactor > 1 {
		diversityFactor = 1
	}
	score += diversityFactor * 0.2

	wordFactor := float64(len(strings.Fields(text))) / 20.0
	if wordFactor > 1 {
		wordFactor = 1
	}
	score += wordFactor * 0.2

	lower := strings.ToLower(text)
	matches := 0
	for _, kw := range confidenceKeywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}
	keywordFactor := float64(matches) / 5.0
	if keywordFactor > 1 {
		keywordFactor = 1
	}
	score += keywordFactor * 0.3

	if score > 1 {
		score = 1
	}
	return score
}

// readableRatio is the fraction of characters that are alphanumeric or
// whitespace, a cheap proxy for how garbled a pass came out.
func readableRatio(text string) float64 {
	if text == "" {
		return 0
	}
	readable := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			readable++
		}
	}
	return float64(readable) / float64(total)
}
