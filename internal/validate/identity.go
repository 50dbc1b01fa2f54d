package validate

import (
	"regexp"
	"strings"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

var (
	beNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z]+\s+[A-Z]*KHAN[A-Z]*)`),
		regexp.MustCompile(`(?i)certify\s+that\s+[^.]*?([A-Z]{2,}\s+[A-Z]{2,}[A-Z\s]*?)(\s*\(|\.|\s+is\s+a)`),
		regexp.MustCompile(`([A-Z][A-Z\s]+?)\s*\([Rr]ol`),
		regexp.MustCompile(`\b([A-Z]{3,}\s+[A-Z]{3,})\b`),
	}
	nameNonWordPattern  = regexp.MustCompile(`[^\w\s]`)
	nameSpaceRunPattern = regexp.MustCompile(`\s+`)

	// Fragments that a BE bonafide name candidate must not carry; they
	// come from the institution header, not the student line.
	beNameRejectPrefixes = []string{"MUFFAKHAM", "SULTAN", "BONAFIDE", "CONDUCT", "CERTIFICATE"}
	beNameRejectContains = []string{"EDUCATION", "SOCIETY"}
)

// ExtractName pulls the student name out of document text. BE bonafide
// certificates get dedicated patterns before the generic recognizer
// because their names sit inside a dense certify-that sentence.
func (s *Service) ExtractName(text string, docType document.Type) string {
	if docType == document.BEBonafide {
		if name := extractBEName(text); name != "" {
			return name
		}
	}
	if people := s.recognizer.People(text); len(people) > 0 {
		return strings.TrimSpace(people[0])
	}
	return ""
}

func extractBEName(text string) string {
	for _, p := range beNamePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			name = nameSpaceRunPattern.ReplaceAllString(name, " ")
			name = nameNonWordPattern.ReplaceAllString(name, "")
			if acceptableBEName(name) {
				return name
			}
		}
	}
	return ""
}

func acceptableBEName(name string) bool {
	if len(name) < 6 {
		return false
	}
	upper := strings.ToUpper(name)
	for _, prefix := range beNameRejectPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return false
		}
	}
	for _, frag := range beNameRejectContains {
		if strings.Contains(upper, frag) {
			return false
		}
	}
	return true
}

// ExtractRollNo reads the roll number from the document text. Only
// semester memos carry a reliably printed roll number; every other type
// yields none.
func ExtractRollNo(text string, docType document.Type) string {
	if docType != document.LatestSemMemo {
		return ""
	}
	for _, p := range rollNoPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
