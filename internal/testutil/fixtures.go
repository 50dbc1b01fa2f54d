package testutil

import (
	"fmt"
	"time"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

// SampleStudent is the identity used across all sample documents, so
// cross-document consistency checks see matching fields.
var SampleStudent = struct {
	Name       string
	FatherName string
	RollNo     string
	Aadhaar    string
}{
	Name:       "Asha Rahman",
	FatherName: "Abdul Rahman",
	RollNo:     "160423733008",
	Aadhaar:    "1234 5678 9123",
}

// SampleLines returns text lines that pass the validator for the given
// document type. Date-gated documents use the current year so the
// fixtures stay valid without a frozen clock.
func SampleLines(docType document.Type) []string {
	year := time.Now().Year()

	switch docType {
	case document.Aadhaar:
		return []string{SampleStudent.Name, "DOB: 12/05/1999", "Female", SampleStudent.Aadhaar}
	case document.AllotmentOrder:
		return []string{
			"PROVISIONAL ALLOTMENT ORDER",
			"M J COLLEGE OF ENGINEERING AND TECHNOLOGY",
			"Candidate Name: Imran Ahmed",
		}
	case document.TenthMemo:
		return []string{
			"Board of Secondary Education SSC",
			"Name: " + SampleStudent.Name,
			"Hall Ticket No: 2412345678",
		}
	case document.InterMemo:
		return []string{
			"INTERMEDIATE PASS CERTIFICATE-CUM-MEMORANDUM OF MARKS",
			"Name: " + SampleStudent.Name,
			"Father's Name: " + SampleStudent.FatherName,
			"Mother's Name: Fatima Rahman",
		}
	case document.SchoolBonafide:
		return []string{"BONAFIDE CERTIFICATE", "Name: " + SampleStudent.Name, "St Marys High SCHOOL"}
	case document.InterBonafide:
		return []string{"CONDUCT CERTIFICATE", "Name: " + SampleStudent.Name, "Government Junior COLLEGE"}
	case document.InterTC:
		return []string{
			"TRANSFER CERTIFICATE",
			"Government Junior COLLEGE",
			"Name: " + SampleStudent.Name,
		}
	case document.BEBonafide:
		return []string{
			"MUFFAKHAM JAH COLLEGE OF ENGINEERING & TECHNOLOGY",
			"Bonafide/Conduct Certificate",
			fmt.Sprintf("Date: 15/01/%d", year),
		}
	case document.IncomeCertificate:
		return []string{
			"GOVERNMENT OF TELANGANA REVENUE DEPARTMENT",
			"INCOME CERTIFICATE",
			"Name: " + SampleStudent.FatherName,
			fmt.Sprintf("Application No: IC%dT1234567", year),
			fmt.Sprintf("Date: 10/06/%d", year),
		}
	case document.BankPassbook:
		return []string{
			"STATE BANK OF INDIA",
			"Account Holder Name: " + SampleStudent.Name,
			"Account No: 38211045672",
		}
	case document.LatestSemMemo:
		return []string{
			"OSMANIA UNIVERSITY",
			"B.E. IV Semester Examination",
			"Name: " + SampleStudent.Name,
			"Roll No: " + SampleStudent.RollNo,
		}
	case document.DiplomaCertificate:
		return []string{
			"Diploma in Mechanical Engineering Certificate",
			"Government Polytechnic Hyderabad",
			"Name: Imran Ahmed",
		}
	case document.ApplicationForm:
		return []string{
			"Government of Telangana Department of Minority Welfare",
			"Student Application cum Verification Report",
			fmt.Sprintf("for Post-Matric Scholarship Fresh %d", year),
			"Name: " + SampleStudent.Name,
			fmt.Sprintf("Application No: TS%dMW123456", year),
			fmt.Sprintf("Date: 15/07/%d", year),
		}
	case document.AcknowledgementForm:
		return []string{
			"Scholarship Acknowledgement",
			"Student Name: " + SampleStudent.Name,
			fmt.Sprintf("Academic Year %d-%d", year, year+1),
		}
	case document.AttendanceForm:
		return []string{
			"Student Name: " + SampleStudent.Name,
			fmt.Sprintf("Academic Year %d", year),
			"Attendance Percentage: 85",
		}
	case document.IncomeBondPaper:
		return []string{
			"Income Bond Paper",
			"I, " + SampleStudent.FatherName + ", undertake that the family income is Rs. 150000",
			"Signature of Applicant",
		}
	case document.LEConsolidatedMemo:
		return []string{
			"STATE BOARD OF TECHNICAL EDUCATION AND TRAINING TELANGANA",
			"Consolidated Memorandum of Grades",
		}
	case document.LEBonafide:
		return []string{
			"This is to certify that the candidate studied at Government Polytechnic, Telangana",
			fmt.Sprintf("ODC No: ODC%dT123456", year),
			"Bonafide Certificate",
		}
	case document.LETransferCertificate:
		return []string{
			"Government Polytechnic",
			"TRANSFER CERTIFICATE",
			"Name of the Student: Imran Ahmed",
		}
	default:
		return nil
	}
}

// SampleText joins SampleLines into the newline-separated form the
// validators consume.
func SampleText(docType document.Type) string {
	lines := SampleLines(docType)
	text := ""
	for i, line := range lines {
		if i > 0 {
			text += "\n"
		}
		text += line
	}
	return text
}
