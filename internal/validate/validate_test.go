package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(nil)
	s.now = func() time.Time {
		return time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC)
	}
	return s
}

func TestValidateEmptyText(t *testing.T) {
	s := newTestService(t)
	verdict := s.Validate("   ", document.Aadhaar, document.FirstYear)
	assert.Equal(t, document.StatusRejected, verdict.Status)
	assert.Equal(t, "Invalid file attached", verdict.Feedback)
}

func TestValidateUnknownType(t *testing.T) {
	s := newTestService(t)
	verdict := s.Validate("some text", document.Type("voter_id"), document.FirstYear)
	assert.Equal(t, document.StatusRejected, verdict.Status)
}

func TestValidateAadhaar(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name    string
		text    string
		approve bool
	}{
		{
			name: "complete card",
			text: "Asha Rahman\nDOB: 12/05/1999\nFemale\n1234 5678 9123",
			approve: true,
		},
		{
			name:    "missing aadhaar number",
			text:    "Asha Rahman\nDOB: 12/05/1999\nFemale",
			approve: false,
		},
		{
			name:    "missing name",
			text:    "1234 5678 9123\n12/05/1999",
			approve: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := s.Validate(tt.text, document.Aadhaar, document.FirstYear)
			assert.Equal(t, tt.approve, verdict.Approved(), "feedback: %s", verdict.Feedback)
		})
	}
}

func TestValidateAllotmentOrder(t *testing.T) {
	s := newTestService(t)

	text := "PROVISIONAL ALLOTMENT ORDER\nM J COLLEGE OF ENGINEERING AND TECHNOLOGY\nCandidate Name: Imran Ahmed"
	verdict := s.Validate(text, document.AllotmentOrder, document.FirstYear)
	assert.True(t, verdict.Approved(), verdict.Feedback)

	noHeading := "Allotment details\nMJCT\nCandidate Name: Imran Ahmed"
	verdict = s.Validate(noHeading, document.AllotmentOrder, document.FirstYear)
	assert.False(t, verdict.Approved())
}

func TestValidateTenthMemo(t *testing.T) {
	s := newTestService(t)

	text := "Board of Secondary Education SSC\nName: Asha Rahman\nHall Ticket No: 2412345678"
	verdict := s.Validate(text, document.TenthMemo, document.FirstYear)
	assert.True(t, verdict.Approved(), verdict.Feedback)
}

func TestValidateInterMemo(t *testing.T) {
	s := newTestService(t)

	text := strings.Join([]string{
		"INTERMEDIATE PASS CERTIFICATE-CUM-MEMORANDUM OF MARKS",
		"Name: Asha Rahman",
		"Father's Name: Abdul Rahman",
		"Mother's Name: Fatima Rahman",
	}, "\n")
	verdict := s.Validate(text, document.InterMemo, document.FirstYear)
	assert.True(t, verdict.Approved(), verdict.Feedback)

	missingParent := "INTERMEDIATE PASS CERTIFICATE-CUM-MEMORANDUM OF MARKS\nName: Asha Rahman"
	verdict = s.Validate(missingParent, document.InterMemo, document.FirstYear)
	assert.False(t, verdict.Approved())
}

func TestValidateBonafides(t *testing.T) {
	s := newTestService(t)

	school := "BONAFIDE CERTIFICATE\nName: Asha Rahman\nSt Marys High SCHOOL"
	assert.True(t, s.Validate(school, document.SchoolBonafide, document.FirstYear).Approved())

	college := "CONDUCT CERTIFICATE\nName: Asha Rahman\nGovernment Junior COLLEGE"
	assert.True(t, s.Validate(college, document.InterBonafide, document.FirstYear).Approved())
}

func TestValidateBEBonafideDetailedFeedback(t *testing.T) {
	s := newTestService(t)

	complete := "MUFFAKHAM JAH COLLEGE OF ENGINEERING & TECHNOLOGY\nBonafide/Conduct Certificate\nDate: 15/01/2025"
	verdict := s.Validate(complete, document.BEBonafide, document.SecondThirdFour)
	assert.True(t, verdict.Approved(), verdict.Feedback)

	// Stale certificate: this type names the missing fields instead of
	// the generic rejection line.
	stale := "MUFFAKHAM JAH COLLEGE OF ENGINEERING & TECHNOLOGY\nBonafide Certificate\nDate: 15/01/2019"
	verdict = s.Validate(stale, document.BEBonafide, document.SecondThirdFour)
	require.False(t, verdict.Approved())
	assert.Contains(t, verdict.Feedback, "Missing fields:")
	assert.Contains(t, verdict.Feedback, "current year (2025)")
}

func TestValidateIncomeCertificate(t *testing.T) {
	s := newTestService(t)

	text := "GOVERNMENT OF TELANGANA REVENUE DEPARTMENT\nINCOME CERTIFICATE\nName: Abdul Rahman\nApplication No: IC2025T1234567\nDate: 10/06/2025"
	verdict := s.Validate(text, document.IncomeCertificate, document.FirstYear)
	assert.True(t, verdict.Approved(), verdict.Feedback)
}

func TestValidateBankPassbook(t *testing.T) {
	s := newTestService(t)

	text := "STATE BANK OF INDIA\nAccount Holder Name: Asha Rahman\nAccount No: 38211045672"
	verdict := s.Validate(text, document.BankPassbook, document.FirstYear)
	assert.True(t, verdict.Approved(), verdict.Feedback)

	noAccount := "STATE BANK OF INDIA\nAccount Holder Name: Asha Rahman"
	verdict = s.Validate(noAccount, document.BankPassbook, document.FirstYear)
	assert.False(t, verdict.Approved())
}

func TestValidateLatestSemMemo(t *testing.T) {
	s := newTestService(t)

	text := "OSMANIA UNIVERSITY\nB.E. IV Semester Examination\nName: Asha Rahman\nRoll No: 160423733008"
	verdict := s.Validate(text, document.LatestSemMemo, document.SecondThirdFour)
	require.True(t, verdict.Approved(), verdict.Feedback)
	assert.Equal(t, "160423733008", verdict.Fields["roll_no"])
}

func TestValidateLatestSemMemoFirstYearRejected(t *testing.T) {
	s := newTestService(t)

	text := "OSMANIA UNIVERSITY\nSemester Examination\nName: Asha Rahman\nRoll No: 160423733008"
	verdict := s.Validate(text, document.LatestSemMemo, document.FirstYear)
	require.False(t, verdict.Approved())
	assert.Equal(t, "Semester memos not required for 1st-year students", verdict.Feedback)
}

func TestValidateLatestSemMemoOCRVariants(t *testing.T) {
	s := newTestService(t)

	// The university header survives OCR with a corrupted first letter.
	text := "0SMANIA UNIVERSITY\nSemester Examination\nName: Asha Rahman\nRoll No: 160423733008"
	verdict := s.Validate(text, document.LatestSemMemo, document.SecondThirdFour)
	assert.True(t, verdict.Approved(), verdict.Feedback)
}

func TestValidateApplicationForm(t *testing.T) {
	s := newTestService(t)

	freshForm := strings.Join([]string{
		"Government of Telangana Department of Minority Welfare",
		"Student Application cum Verification Report",
		"for Post-Matric Scholarship Fresh 2025",
		"Name: Asha Rahman",
		"Application No: TS2025MW123456",
		"Date: 15/07/2025",
	}, "\n")

	verdict := s.Validate(freshForm, document.ApplicationForm, document.FirstYear)
	assert.True(t, verdict.Approved(), verdict.Feedback)

	// A renewal heading on a first-year form still clears the flexible
	// component floor, but a form with almost no heading does not.
	bareForm := "Name: Asha Rahman\nApplication No: TS2025MW123456\nDate: 15/07/2025"
	verdict = s.Validate(bareForm, document.ApplicationForm, document.FirstYear)
	assert.False(t, verdict.Approved())
}

func TestValidateApplicationFormRenewal(t *testing.T) {
	s := newTestService(t)

	renewalForm := strings.Join([]string{
		"Department of Minority Welfare",
		"Student Application cum Verification Report",
		"Post-Matric Scholarship Renewal 2025",
		"Name: Asha Rahman",
		"Application No: TS2025MW123456",
		"Date: 12/07/2025",
	}, "\n")

	verdict := s.Validate(renewalForm, document.ApplicationForm, document.SecondThirdFour)
	assert.True(t, verdict.Approved(), verdict.Feedback)
}

func TestValidateAcknowledgementForm(t *testing.T) {
	s := newTestService(t)

	text := "Scholarship Acknowledgement\nStudent Name: Asha Rahman\nAcademic Year 2025-2026"
	verdict := s.Validate(text, document.AcknowledgementForm, document.FirstYear)
	assert.True(t, verdict.Approved(), verdict.Feedback)

	oldYear := "Scholarship Acknowledgement\nStudent Name: Asha Rahman\nAcademic Year 2021-2022"
	verdict = s.Validate(oldYear, document.AcknowledgementForm, document.FirstYear)
	assert.False(t, verdict.Approved())
}

func TestValidateAttendanceForm(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name    string
		text    string
		approve bool
	}{
		{
			name:    "clean percentage",
			text:    "Student Name: Asha Rahman\nAcademic Year 2025\nAttendance Percentage: 85",
			approve: true,
		},
		{
			name:    "garbled dash reading",
			text:    "Student Name: Asha Rahman\nYear 2025\naltendanee pemcentager 37-7",
			approve: true,
		},
		{
			name:    "percentage below floor",
			text:    "Student Name: Asha Rahman\nYear 2025\nAttendance: 12%",
			approve: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := s.Validate(tt.text, document.AttendanceForm, document.FirstYear)
			assert.Equal(t, tt.approve, verdict.Approved(), "feedback: %s", verdict.Feedback)
		})
	}
}

func TestValidateIncomeBondPaper(t *testing.T) {
	s := newTestService(t)

	text := "Income Bond Paper\nI, Abdul Rahman, undertake that the family income is Rs. 150000\nSignature of Applicant"
	verdict := s.Validate(text, document.IncomeBondPaper, document.SecondThirdFour)
	assert.True(t, verdict.Approved(), verdict.Feedback)

	verdict = s.Validate(text, document.IncomeBondPaper, document.FirstYear)
	require.False(t, verdict.Approved())
	assert.Equal(t, "Income Bond Paper not required for 1st-year students", verdict.Feedback)
}

func TestValidateLateralEntryDocuments(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name    string
		docType document.Type
		text    string
	}{
		{
			name:    "diploma certificate",
			docType: document.DiplomaCertificate,
			text:    "Diploma in Mechanical Engineering Certificate\nGovernment Polytechnic Hyderabad\nName: Imran Ahmed",
		},
		{
			name:    "consolidated memo",
			docType: document.LEConsolidatedMemo,
			text:    "STATE BOARD OF TECHNICAL EDUCATION AND TRAINING TELANGANA\nConsolidated Memorandum of Grades",
		},
		{
			name:    "le bonafide",
			docType: document.LEBonafide,
			text:    "This is to certify that the candidate studied at Government Polytechnic, Telangana\nODC No: ODC2024T123456\nBonafide Certificate",
		},
		{
			name:    "le transfer certificate",
			docType: document.LETransferCertificate,
			text:    "Government Polytechnic\nTRANSFER CERTIFICATE\nName of the Student: Imran Ahmed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := s.Validate(tt.text, tt.docType, document.LateralEntry)
			assert.True(t, verdict.Approved(), "feedback: %s", verdict.Feedback)

			// The same document from a non-LE student is turned away
			// before content is looked at.
			verdict = s.Validate(tt.text, tt.docType, document.SecondThirdFour)
			assert.False(t, verdict.Approved())
		})
	}
}

// Lateral-entry validators accept on criteria counts, so an off-by-one
// in a floor flips documents sitting exactly on it. Lowercase texts
// keep the person heuristic out of the way; each pair differs by a
// single criterion.
func TestValidateLateralEntryCriteriaFloors(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name     string
		docType  document.Type
		text     string
		approved bool
	}{
		{
			name:     "diploma two of three criteria",
			docType:  document.DiplomaCertificate,
			text:     "diploma certificate\ngovernment polytechnic",
			approved: true,
		},
		{
			name:     "diploma one of three criteria",
			docType:  document.DiplomaCertificate,
			text:     "government polytechnic",
			approved: false,
		},
		{
			name:     "consolidated memo one of three criteria",
			docType:  document.LEConsolidatedMemo,
			text:     "memorandum of marks",
			approved: true,
		},
		{
			name:     "consolidated memo zero criteria",
			docType:  document.LEConsolidatedMemo,
			text:     "unreadable scan output",
			approved: false,
		},
		{
			name:     "le bonafide three of five criteria",
			docType:  document.LEBonafide,
			text:     "this is to certify that the student studies at hyderabad and is bona fide",
			approved: true,
		},
		{
			name:     "le bonafide two of five criteria",
			docType:  document.LEBonafide,
			text:     "the student studies at hyderabad and is bona fide",
			approved: false,
		},
		{
			name:     "transfer certificate one of three criteria",
			docType:  document.LETransferCertificate,
			text:     "copy of transfer",
			approved: true,
		},
		{
			name:     "transfer certificate zero criteria",
			docType:  document.LETransferCertificate,
			text:     "unreadable scan output",
			approved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := s.Validate(tt.text, tt.docType, document.LateralEntry)
			assert.Equal(t, tt.approved, verdict.Approved(), "feedback: %s", verdict.Feedback)
		})
	}
}

// The application form heading floor is three components for first-year
// forms and two otherwise. The date line contributes the academic-year
// component in every case, so the remaining lines set the exact count.
func TestValidateApplicationFormHeadingFloor(t *testing.T) {
	s := newTestService(t)

	identity := "Name: Asha Rahman\nApplication No: TS2025MW123456\nDate: 12/07/2025"

	tests := []struct {
		name     string
		category document.Category
		text     string
		approved bool
	}{
		{
			name:     "first year at the floor",
			category: document.FirstYear,
			text:     "Post Matric Scholarship\nFresh\n" + identity,
			approved: true,
		},
		{
			name:     "first year one component short",
			category: document.FirstYear,
			text:     "Fresh\n" + identity,
			approved: false,
		},
		{
			name:     "renewal at the floor",
			category: document.SecondThirdFour,
			text:     "Renewal\n" + identity,
			approved: true,
		},
		{
			name:     "renewal one component short",
			category: document.SecondThirdFour,
			text:     identity,
			approved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := s.Validate(tt.text, document.ApplicationForm, tt.category)
			assert.Equal(t, tt.approved, verdict.Approved(), "feedback: %s", verdict.Feedback)
		})
	}
}

func TestValidateAttendancePercentageFloor(t *testing.T) {
	s := newTestService(t)

	atFloor := "Student Name: Asha Rahman\nYear 2025\nAttendance: 30%"
	verdict := s.Validate(atFloor, document.AttendanceForm, document.FirstYear)
	assert.True(t, verdict.Approved(), verdict.Feedback)

	belowFloor := "Student Name: Asha Rahman\nYear 2025\nAttendance: 29%"
	verdict = s.Validate(belowFloor, document.AttendanceForm, document.FirstYear)
	assert.False(t, verdict.Approved())
}

func TestValidateAttachesNameField(t *testing.T) {
	s := newTestService(t)

	text := "BONAFIDE CERTIFICATE\nName: Asha Rahman\nSt Marys High SCHOOL"
	verdict := s.Validate(text, document.SchoolBonafide, document.FirstYear)
	require.True(t, verdict.Approved(), verdict.Feedback)
	assert.Equal(t, "Asha Rahman", verdict.Fields["name"])
}

func TestExtractRollNo(t *testing.T) {
	text := "OSMANIA UNIVERSITY\nRoll No: 160423733008"

	assert.Equal(t, "160423733008", ExtractRollNo(text, document.LatestSemMemo))
	assert.Empty(t, ExtractRollNo(text, document.BEBonafide))
}

func TestExtractBEName(t *testing.T) {
	text := "This is to certify that MOHAMMED IMRAN KHAN (Roll No 1604.23.733.008) is a bonafide student"
	name := extractBEName(text)
	assert.Contains(t, name, "KHAN")
	assert.True(t, acceptableBEName(name))

	assert.False(t, acceptableBEName("MUFFAKHAM JAH"))
	assert.False(t, acceptableBEName("SHORT"))
}

func TestHasPassingAttendance(t *testing.T) {
	assert.True(t, hasPassingAttendance("attendance percentage: 85"))
	assert.True(t, hasPassingAttendance("pemcentager 37-7"))
	assert.True(t, hasPassingAttendance("reading 37.7 overall"))
	assert.False(t, hasPassingAttendance("attendance percentage: 12"))
	assert.False(t, hasPassingAttendance("no numbers here"))
}
