package validate

import (
	"regexp"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

// Lateral-entry documents come from state polytechnics whose scans are
// the noisiest in the pipeline, so their validators score loose pattern
// groups against low thresholds instead of requiring every field.
var (
	diplomaHeadingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)diploma.*certificate`),
		regexp.MustCompile(`(?i)diploma.*in`),
		regexp.MustCompile(`(?i)certificate.*diploma`),
		regexp.MustCompile(`(?i)graduation.*certificate`),
		regexp.MustCompile(`(?i)technical.*diploma`),
	}
	diplomaInstitutionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)polytechnic`),
		regexp.MustCompile(`(?i)technical.*institute`),
		regexp.MustCompile(`(?i)engineering.*college`),
		regexp.MustCompile(`(?i)state.*board.*technical`),
		regexp.MustCompile(`(?i)diploma.*college`),
	}

	sbtetHeadingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)state.*board.*technical.*education`),
		regexp.MustCompile(`(?i)sbtet`),
		regexp.MustCompile(`(?i)technical.*education`),
		regexp.MustCompile(`(?i)education.*training`),
		regexp.MustCompile(`(?i)\bstate\b`),
		regexp.MustCompile(`(?i)\bboard\b`),
		regexp.MustCompile(`(?i)\btechnical\b`),
		regexp.MustCompile(`(?i)\btelangana\b`),
	}
	consolidatedHeadingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)consolidated.*memorandum`),
		regexp.MustCompile(`(?i)memorandum.*grades`),
		regexp.MustCompile(`(?i)memo.*grades`),
		regexp.MustCompile(`(?i)\bconsolidated\b`),
		regexp.MustCompile(`(?i)\bmemorandum\b`),
		regexp.MustCompile(`(?i)\bgrades\b`),
		regexp.MustCompile(`(?i)\bmarks\b`),
		regexp.MustCompile(`(?i)\bresult\b`),
		regexp.MustCompile(`(?i)\brecord\b`),
	}
	candidateNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)name\s+of\s+the\s+candidate[:\s]*[A-Za-z]`),
		regexp.MustCompile(`(?i)candidate[:\s]*[A-Za-z]`),
		regexp.MustCompile(`(?i)\bname\b`),
		regexp.MustCompile(`(?i)\bstudent\b`),
		regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+`),
		regexp.MustCompile(`[A-Z][A-Z ]{10,}`),
	}

	odcNumberPattern = regexp.MustCompile(`[A-Za-z0-9]{13}`)
	certifyPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`(?i)this\s+is\s+to\s+certify`),
		regexp.MustCompile(`(?i)certif(ied|y)\s+that`),
		regexp.MustCompile(`(?i)hereby\s+certify`),
		regexp.MustCompile(`(?i)is\s+to\s+certify`),
	}
	telanganaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)telangana`),
		regexp.MustCompile(`(?i)hyderabad`),
		regexp.MustCompile(`(?i)andhra`),
		regexp.MustCompile(`(?i)\bts\b`),
	}
	bonafideKeywordPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)bona.?fide`),
		regexp.MustCompile(`(?i)certificate`),
		regexp.MustCompile(`(?i)certify`),
	}

	polytechnicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)poly.?technic`),
		regexp.MustCompile(`(?i)technical.*institute`),
		regexp.MustCompile(`(?i)\btechnical\b`),
		regexp.MustCompile(`(?i)\binstitute\b`),
		regexp.MustCompile(`(?i)\bcollege\b`),
		regexp.MustCompile(`(?i)\bdiploma\b`),
		regexp.MustCompile(`(?i)\bengineering\b`),
	}
	transferHeadingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)transfer.*cert`),
		regexp.MustCompile(`(?i)leaving.*cert`),
		regexp.MustCompile(`(?i)migration.*cert`),
		regexp.MustCompile(`(?i)\btransfer\b`),
		regexp.MustCompile(`(?i)\bleaving\b`),
		regexp.MustCompile(`(?i)\bmigration\b`),
		regexp.MustCompile(`(?i)\btc\b`),
		regexp.MustCompile(`(?i)\bcert\b`),
	}
)

func countMet(criteria ...bool) int {
	n := 0
	for _, c := range criteria {
		if c {
			n++
		}
	}
	return n
}

func (s *Service) validateDiplomaCertificate(text string, category document.Category) document.Verdict {
	if category != "" && category != document.LateralEntry {
		return document.Reject("Diploma Certificate only required for Lateral Entry students")
	}

	met := countMet(
		matchesAny(text, diplomaHeadingPatterns),
		matchesAny(text, diplomaInstitutionPatterns),
		s.hasPerson(text),
	)
	if met >= diplomaCertificateMinCriteria {
		return approveWith(feedbackUploaded)
	}
	return rejectMissing(false, nil)
}

func (s *Service) validateLEConsolidatedMemo(text string, category document.Category) document.Verdict {
	if category != "" && category != document.LateralEntry {
		return document.Reject("Diploma Consolidated Memo only required for Lateral Entry students")
	}

	met := countMet(
		matchesAny(text, sbtetHeadingPatterns),
		matchesAny(text, consolidatedHeadingPatterns),
		matchesAny(text, candidateNamePatterns) || s.hasPerson(text),
	)
	if met >= leConsolidatedMinCriteria {
		return approveWith(feedbackUploaded)
	}
	return rejectMissing(false, nil)
}

func (s *Service) validateLEBonafide(text string, category document.Category) document.Verdict {
	if category != "" && category != document.LateralEntry {
		return document.Reject("Diploma Bonafide only required for Lateral Entry students")
	}

	met := countMet(
		odcNumberPattern.MatchString(text),
		matchesAny(text, certifyPatterns),
		matchesAny(text, sbtetHeadingPatterns),
		matchesAny(text, telanganaPatterns),
		matchesAny(text, bonafideKeywordPatterns),
	)
	if met >= leBonafideMinCriteria {
		return approveWith(feedbackUploaded)
	}
	return rejectMissing(false, nil)
}

func (s *Service) validateLETransferCertificate(text string, category document.Category) document.Verdict {
	if category != "" && category != document.LateralEntry {
		return document.Reject("Diploma Transfer Certificate only required for Lateral Entry students")
	}

	met := countMet(
		matchesAny(text, polytechnicPatterns),
		matchesAny(text, transferHeadingPatterns),
		matchesAny(text, candidateNamePatterns) || s.hasPerson(text),
	)
	if met >= leTransferMinCriteria {
		return approveWith(feedbackUploaded)
	}
	return rejectMissing(false, nil)
}
