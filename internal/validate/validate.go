// Package validate holds the per-document-type content validators. Each
// validator is a pure function of the normalized OCR text and the
// student category; the service dispatches on document type and attaches
// the extracted identity fields to approved verdicts.
package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/ner"
)

const (
	feedbackInvalid  = "Invalid file attached"
	feedbackUploaded = "Uploaded successfully"
)

// Flexible acceptance thresholds for noisy document types.
const (
	applicationFirstYearMinComponents = 3
	applicationMinComponents          = 2
	diplomaCertificateMinCriteria     = 2
	leConsolidatedMinCriteria         = 1
	leBonafideMinCriteria             = 3
	leTransferMinCriteria             = 1
	attendanceMinPercent              = 30
)

type validatorFunc func(text string, category document.Category) document.Verdict

// Service validates document text against per-type content rules.
type Service struct {
	recognizer ner.Recognizer
	now        func() time.Time

	validators map[document.Type]validatorFunc
}

// NewService builds a validation service around the given entity
// recognizer.
func NewService(recognizer ner.Recognizer) *Service {
	if recognizer == nil {
		recognizer = ner.NewHeuristic()
	}
	s := &Service{
		recognizer: recognizer,
		now:        time.Now,
	}
	s.validators = map[document.Type]validatorFunc{
		document.Aadhaar:            s.validateAadhaar,
		document.AllotmentOrder:     s.validateAllotmentOrder,
		document.TenthMemo:          s.validateTenthMemo,
		document.InterMemo:          s.validateInterMemo,
		document.SchoolBonafide:     s.validateSchoolBonafide,
		document.InterBonafide:      s.validateInterBonafide,
		document.InterTC:            s.validateInterTC,
		document.BEBonafide:         s.validateBEBonafide,
		document.IncomeCertificate:  s.validateIncomeCertificate,
		document.BankPassbook:       s.validateBankPassbook,
		document.LatestSemMemo:      s.validateLatestSemMemo,
		document.DiplomaCertificate: s.validateDiplomaCertificate,
		document.ApplicationForm:    s.validateApplicationForm,
		document.AcknowledgementForm: s.validateAcknowledgementForm,
		document.AttendanceForm:     s.validateAttendanceForm,
		document.IncomeBondPaper:    s.validateIncomeBondPaper,
		document.LEConsolidatedMemo: s.validateLEConsolidatedMemo,
		document.LEBonafide:         s.validateLEBonafide,
		document.LETransferCertificate: s.validateLETransferCertificate,
	}
	return s
}

// Validate runs the category compatibility check and the type-specific
// validator, attaching extracted identity fields to approved verdicts.
func (s *Service) Validate(text string, docType document.Type, category document.Category) document.Verdict {
	if strings.TrimSpace(text) == "" {
		return document.Reject(feedbackInvalid)
	}

	fn, ok := s.validators[docType]
	if !ok {
		return document.Reject(feedbackInvalid)
	}

	if verdict := document.CheckCompatibility(docType, category); !verdict.Approved() {
		return verdict
	}

	verdict := fn(text, category)
	if !verdict.Approved() {
		return verdict
	}

	fields := map[string]string{}
	if name := s.ExtractName(text, docType); name != "" {
		fields["name"] = name
	}
	if roll := ExtractRollNo(text, docType); roll != "" {
		fields["roll_no"] = roll
	}
	if len(fields) > 0 {
		verdict.Fields = fields
	}
	return verdict
}

// currentYear is read at validation time so year-bound checks follow
// the calendar, not a build-time constant.
func (s *Service) currentYear() int {
	return s.now().Year()
}

func (s *Service) hasPerson(text string) bool {
	return len(s.recognizer.People(text)) > 0
}

func (s *Service) hasDate(text string) bool {
	return len(s.recognizer.Dates(text)) > 0
}

func (s *Service) hasOrgOrKeyword(text, keyword string) bool {
	if len(s.recognizer.Orgs(text)) > 0 {
		return true
	}
	return strings.Contains(strings.ToUpper(text), keyword)
}

func approveWith(feedback string) document.Verdict {
	return document.Approve(feedback)
}

func rejectMissing(detailed bool, missing []string) document.Verdict {
	if detailed && len(missing) > 0 {
		return document.Reject(fmt.Sprintf("%s. Missing fields: %s", feedbackInvalid, strings.Join(missing, ", ")))
	}
	return document.Reject(feedbackInvalid)
}
