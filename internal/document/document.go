// Package document defines the document type and student category
// vocabulary used across the verification pipeline, together with the
// per-category requirement tables.
package document

import "fmt"

// Type identifies one of the supported scholarship document kinds.
type Type string

const (
	Aadhaar               Type = "aadhaar"
	AllotmentOrder        Type = "allotment_order"
	TenthMemo             Type = "10th_marks_memo"
	InterMemo             Type = "intermediate_marks_memo"
	SchoolBonafide        Type = "school_bonafide"
	InterBonafide         Type = "intermediate_bonafide"
	InterTC               Type = "intermediate_transfer_certificate"
	BEBonafide            Type = "be_bonafide_certificate"
	IncomeCertificate     Type = "income_certificate"
	BankPassbook          Type = "student_bank_pass_book"
	LatestSemMemo         Type = "latest_sem_memo"
	DiplomaCertificate    Type = "diploma_certificate"
	ApplicationForm       Type = "scholarship_application_form"
	AcknowledgementForm   Type = "scholarship_acknowledgement_form"
	AttendanceForm        Type = "attendance_sheet_form"
	IncomeBondPaper       Type = "income_bond_paper"
	LEConsolidatedMemo    Type = "le_diploma_consolidated_memo"
	LEBonafide            Type = "le_bonafide"
	LETransferCertificate Type = "le_transfer_certificate"
)

// Types lists every supported document type.
var Types = []Type{
	Aadhaar, AllotmentOrder, TenthMemo, InterMemo, SchoolBonafide,
	InterBonafide, InterTC, BEBonafide, IncomeCertificate, BankPassbook,
	LatestSemMemo, DiplomaCertificate, ApplicationForm, AcknowledgementForm,
	AttendanceForm, IncomeBondPaper, LEConsolidatedMemo, LEBonafide,
	LETransferCertificate,
}

// ParseType validates a raw document type string.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// Category identifies the student's admission category, which drives
// which documents are required and which heading variants apply.
type Category string

const (
	FirstYear       Category = "1st_year"
	LateralEntry    Category = "lateral_entry"
	SecondThirdFour Category = "2_3_4_year"
)

// Categories lists every supported student category.
var Categories = []Category{FirstYear, LateralEntry, SecondThirdFour}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown student category %q", s)
}

// Status is a verification outcome.
type Status string

const (
	StatusApprove  Status = "Approve"
	StatusRejected Status = "Rejected"
)

// Verdict is the result of validating one document. It is always
// returned, never raised: every failure mode maps to a Rejected verdict
// with feedback.
type Verdict struct {
	Status   Status            `json:"status"`
	Feedback string            `json:"feedback"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// Approve builds an approving verdict.
func Approve(feedback string) Verdict {
	return Verdict{Status: StatusApprove, Feedback: feedback}
}

// Reject builds a rejecting verdict.
func Reject(feedback string) Verdict {
	return Verdict{Status: StatusRejected, Feedback: feedback}
}

// Approved reports whether the verdict is approving.
func (v Verdict) Approved() bool { return v.Status == StatusApprove }
