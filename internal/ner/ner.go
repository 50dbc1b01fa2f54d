// Package ner provides lightweight named-entity heuristics for
// document validation: person names, organizations and dates. The
// Recognizer interface keeps the implementation replaceable by a real
// NER service without touching the validators.
package ner

import (
	"regexp"
	"strings"
)

// Recognizer tags entity spans in normalized document text.
type Recognizer interface {
	// People returns candidate person names, best first.
	People(text string) []string
	// Orgs returns candidate organization names.
	Orgs(text string) []string
	// Dates returns date-like spans.
	Dates(text string) []string
}

// Heuristic is a rule-based Recognizer tuned for OCR output from
// Indian academic and government documents.
type Heuristic struct{}

// NewHeuristic returns the default rule-based recognizer.
func NewHeuristic() *Heuristic { return &Heuristic{} }

var (
	// A person name is two to four capitalized words, tolerating
	// all-caps OCR output.
	nameSequence = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+){1,3})\b`)
	nameField    = regexp.MustCompile(`(?i)name\s*(?:of\s*(?:the\s*)?(?:student|candidate|applicant))?\s*[:\-]\s*([A-Za-z][A-Za-z .]{2,40})`)

	datePattern = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)
	yearRange   = regexp.MustCompile(`\b(19|20)\d{2}\s*[-–]\s*(19|20)?\d{2}\b`)

	orgKeywords = []string{
		"UNIVERSITY", "COLLEGE", "INSTITUTE", "POLYTECHNIC", "BANK",
		"BOARD", "DEPARTMENT", "GOVERNMENT", "SCHOOL", "SOCIETY",
	}
)

// Words that look capitalized but never start a person name.
var nameStopWords = map[string]bool{
	"The": true, "This": true, "Date": true, "Name": true, "Roll": true,
	"Certificate": true, "Certified": true, "Government": true,
	"Telangana": true, "India": true, "University": true, "College": true,
	"School": true, "Board": true, "Department": true, "Income": true,
	"Bank": true, "Scholarship": true, "Application": true, "Form": true,
	"Student": true, "Father": true, "Mother": true, "Male": true,
	"Female": true, "Aadhaar": true, "Number": true, "Provisional": true,
	"Allotment": true, "Order": true, "Transfer": true, "Bonafide": true,
	"Memorandum": true, "Marks": true, "Memo": true, "Report": true,
	"Verification": true, "Academic": true, "Year": true, "Revenue": true,
	"Mandal": true, "District": true, "Signature": true, "Principal": true,
}

// People extracts candidate person names: labelled "Name:" fields
// first, then free capitalized sequences filtered by stop words.
func (h *Heuristic) People(text string) []string {
	var people []string
	seen := map[string]bool{}

	add := func(name string) {
		name = strings.TrimSpace(strings.Trim(name, ".:- "))
		if name == "" {
			return
		}
		key := strings.ToUpper(name)
		if seen[key] {
			return
		}
		seen[key] = true
		people = append(people, name)
	}

	for _, m := range nameField.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(m[1])
		// Labelled fields often run into the next label on one line.
		if i := strings.Index(candidate, "  "); i > 0 {
			candidate = candidate[:i]
		}
		if looksLikeName(candidate) {
			add(candidate)
		}
	}

	for _, m := range nameSequence.FindAllString(text, -1) {
		if looksLikeName(m) {
			add(m)
		}
	}
	return people
}

func looksLikeName(s string) bool {
	words := strings.Fields(s)
	if len(words) < 1 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		w = strings.Trim(w, ".")
		if w == "" {
			continue
		}
		if nameStopWords[title(w)] {
			return false
		}
		if strings.ToUpper(w) == w && len(w) > 1 {
			// All-caps words are fine (OCR output), but reject known
			// org keywords in caps.
			for _, kw := range orgKeywords {
				if w == kw {
					return false
				}
			}
		}
	}
	return true
}

func title(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

// Orgs returns lines or phrases containing institutional keywords.
func (h *Heuristic) Orgs(text string) []string {
	var orgs []string
	upper := strings.ToUpper(text)
	for _, line := range strings.Split(upper, "\n") {
		for _, kw := range orgKeywords {
			if strings.Contains(line, kw) {
				orgs = append(orgs, strings.TrimSpace(line))
				break
			}
		}
	}
	return orgs
}

// Dates returns date-like spans (dd/mm/yyyy style plus year ranges).
func (h *Heuristic) Dates(text string) []string {
	dates := datePattern.FindAllString(text, -1)
	dates = append(dates, yearRange.FindAllString(text, -1)...)
	return dates
}
