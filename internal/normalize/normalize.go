// Package normalize cleans raw OCR output. It is a deterministic,
// table-driven corrector: whitespace collapsing, a catalog of known
// misreadings, and punctuation spacing. Normalize is idempotent.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

func ci(pattern, replacement string) rule {
	return rule{regexp.MustCompile(`(?i)` + pattern), replacement}
}

func cs(pattern, replacement string) rule {
	return rule{regexp.MustCompile(pattern), replacement}
}

// corrections enumerates known OCR misreadings seen on scholarship
// documents. Ordered: earlier rules can feed later ones.
var corrections = []rule{
	// Institution names
	cs(`\$MANIA`, "OSMANIA"),
	ci(`0SMANIA`, "OSMANIA"),
	ci(`OSMANLA`, "OSMANIA"),
	ci(`QSMANIA`, "OSMANIA"),
	ci(`GQVERNMENT`, "GOVERNMENT"),
	ci(`G0VERNMENT`, "GOVERNMENT"),
	ci(`GOVEMMENT`, "GOVERNMENT"),
	ci(`GOVERMENT`, "GOVERNMENT"),
	ci(`GOVENMENT`, "GOVERNMENT"),
	ci(`GQVT`, "GOVT"),
	ci(`G0VT`, "GOVT"),

	// Roll number fields
	ci(`\bRoII\b`, "Roll"),
	ci(`\bRo11\b`, "Roll"),
	ci(`\bRoll\s*N0\.`, "Roll No."),
	ci(`\bRoll\s*N0\b`, "Roll No"),
	cs(`\bNo\.\s*(\d)`, "No. $1"),

	// Application vocabulary
	ci(`\bSCHOLARSHlP\b`, "SCHOLARSHIP"),
	ci(`\bApplicati0n\b`, "Application"),
	ci(`\bB0nafide\b`, "Bonafide"),
	ci(`\bBonaf1de\b`, "Bonafide"),
	ci(`\bRenew\b`, "Renewal"),
	ci(`\bRenwal\b`, "Renewal"),
	ci(`\bRenewsi\b`, "Renewal"),
	ci(`\bRenewai\b`, "Renewal"),
	ci(`\bFreash\b`, "Fresh"),
	ci(`\bFres\b`, "Fresh"),

	// Lateral-entry vocabulary
	ci(`\bTechn1cal\b`, "Technical"),
	ci(`\bEducat1on\b`, "Education"),
	ci(`\bTra1ning\b`, "Training"),
	ci(`\bPolytech\b`, "Polytechnic"),
	ci(`\bPolytechn1c\b`, "Polytechnic"),
	ci(`\bConsoI1dated\b`, "Consolidated"),
	ci(`\bMemorendum\b`, "Memorandum"),
	ci(`\bTransfar\b`, "Transfer"),
	ci(`\bCertif1cate\b`, "Certificate"),
	ci(`\bD1ploma\b`, "Diploma"),
	ci(`\bSBT3T\b`, "SBTET"),
	ci(`\bCand1date\b`, "Candidate"),
	ci(`\bMar\|<s\b`, "Marks"),
	ci(`\bResu\|t\b`, "Result"),
	ci(`\bRec0rd\b`, "Record"),
	ci(`\bGrad3s\b`, "Grades"),

	// Acknowledgement / attendance headings
	ci(`\bAbknawlead\b`, "Acknowledgement"),
	ci(`\bAcknowledgemenResult\b`, "Acknowledgement"),
	ci(`\bAcknowlead\b`, "Acknowledgement"),
	ci(`\bAcknoledge\b`, "Acknowledgement"),
	ci(`\bAltendanee\b`, "Attendance"),
	ci(`\bAttendanee\b`, "Attendance"),
	ci(`\bAtendance\b`, "Attendance"),
	ci(`\bAttendence\b`, "Attendance"),
	ci(`\bpemcentager\b`, "percentage"),
	ci(`\bpercentager\b`, "percentage"),

	// "Result" glued onto common words by the rotation scorer's cheap pass
	ci(`\bGovernmenResult\b`, "Government"),
	ci(`\bDepartmenResult\b`, "Department"),
	ci(`\bDepartinenResult\b`, "Department"),
	ci(`\bStudenResult\b`, "Student"),
	ci(`\bReporResult\b`, "Report"),
	ci(`\bPosResult\b`, "Post"),
	ci(`\bApplicationResult\b`, "Application"),
	ci(`\bScholarshipResult\b`, "Scholarship"),
	ci(`\bVerificationResult\b`, "Verification"),
	ci(`\bMinorityResult\b`, "Minority"),
	ci(`\bMatricResult\b`, "Matric"),
	ci(`\bTelanganaResult\b`, "Telangana"),

	// Dates and years
	ci(`\b(\d{2})/(\d{2})/2O(\d{2})\b`, "${1}/${2}/20${3}"),
	cs(`\b2O25\b`, "2025"),
	cs(`\b2o25\b`, "2025"),
	cs(`\b2O24\b`, "2024"),
	cs(`\b2o24\b`, "2024"),

	// Lone digit/letter confusions before capitalized words
	cs(`\b1\b(\s*[A-Z])`, "I$1"),
	cs(`\b0\b(\s*[A-Z])`, "O$1"),
	cs(`\bl\b(\s*[A-Z])`, "I$1"),

	// Aadhaar vocabulary
	ci(`\bAadhar\b`, "Aadhaar"),
	ci(`\bAdhaar\b`, "Aadhaar"),
	ci(`\bAadhaar\s*N0\b`, "Aadhaar No"),

	// Gender fields
	ci(`\bMaIe\b`, "Male"),
	ci(`\bFemaIe\b`, "Female"),

	// Form field labels
	ci(`\bName\s*0f\b`, "Name of"),
	ci(`\bDate\s*0f\b`, "Date of"),
	ci(`\bFather'?s?\s*Name\b`, "Father's Name"),
	ci(`\bMother'?s?\s*Name\b`, "Mother's Name"),

	// Institution words
	ci(`\bCoIIege\b`, "College"),
}

var (
	spaceRun     = regexp.MustCompile(`[ \t]+`)
	spaceNewline = regexp.MustCompile(` *\n *`)
	newlineRun   = regexp.MustCompile(`\n{3,}`)
	multiDot     = regexp.MustCompile(`\.{2,}`)
	spaceBefore  = regexp.MustCompile(` +([.,;:!?])`)
	afterPunct   = regexp.MustCompile(`([,;:!?]) *(\w)`)
	afterDot     = regexp.MustCompile(`\. *([A-Za-z])`)
	hyphenDigits = regexp.MustCompile(`(\d) *- *(\d)`)
)

// Normalize cleans one OCR extraction. Pure string transformation,
// no external calls; Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return text
	}

	text = norm.NFC.String(text)

	text = spaceRun.ReplaceAllString(text, " ")
	text = spaceNewline.ReplaceAllString(text, "\n")
	text = newlineRun.ReplaceAllString(text, "\n\n")

	for _, r := range corrections {
		text = r.re.ReplaceAllString(text, r.replacement)
	}

	text = multiDot.ReplaceAllString(text, ".")
	text = spaceBefore.ReplaceAllString(text, "$1")
	text = afterPunct.ReplaceAllString(text, "$1 $2")
	text = afterDot.ReplaceAllString(text, ". $1")
	text = hyphenDigits.ReplaceAllString(text, "$1-$2")
	text = spaceRun.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
