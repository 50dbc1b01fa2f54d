package document

// Requirements groups document types by necessity for one category.
type Requirements struct {
	Required    []Type `json:"required"`
	Optional    []Type `json:"optional"`
	NotRequired []Type `json:"not_required"`
}

// RequiredDocuments returns the requirement table for a category.
// courseYear refines the semester memo count for 2nd/3rd/4th year
// students; the memo type itself is required whenever courseYear is set.
func RequiredDocuments(category Category, courseYear int) Requirements {
	switch category {
	case FirstYear:
		return Requirements{
			Required: []Type{
				ApplicationForm,
				AcknowledgementForm,
				AttendanceForm,
				TenthMemo,
				InterMemo,
				Aadhaar,
				AllotmentOrder,
				SchoolBonafide,
				InterBonafide,
				InterTC,
				IncomeCertificate,
				BankPassbook,
			},
			NotRequired: []Type{
				LatestSemMemo,
				IncomeBondPaper,
				LEConsolidatedMemo,
				LEBonafide,
				LETransferCertificate,
			},
			Optional: []Type{},
		}
	case LateralEntry:
		return Requirements{
			Required: []Type{
				ApplicationForm,
				AcknowledgementForm,
				AttendanceForm,
				TenthMemo,
				InterMemo,
				Aadhaar,
				AllotmentOrder,
				SchoolBonafide,
				InterBonafide,
				IncomeCertificate,
				BankPassbook,
				LatestSemMemo,
				IncomeBondPaper,
				LEConsolidatedMemo,
				LEBonafide,
				LETransferCertificate,
			},
			Optional: []Type{
				DiplomaCertificate,
				InterTC,
			},
			NotRequired: []Type{},
		}
	case SecondThirdFour:
		required := []Type{
			ApplicationForm,
			AcknowledgementForm,
			AttendanceForm,
			TenthMemo,
			InterMemo,
			Aadhaar,
			AllotmentOrder,
			SchoolBonafide,
			InterBonafide,
			InterTC,
			IncomeCertificate,
			BankPassbook,
			IncomeBondPaper,
		}
		if courseYear >= 2 && courseYear <= 4 {
			required = append(required, LatestSemMemo)
		}
		return Requirements{
			Required: required,
			NotRequired: []Type{
				DiplomaCertificate,
				LEConsolidatedMemo,
				LEBonafide,
				LETransferCertificate,
			},
			Optional: []Type{},
		}
	default:
		return Requirements{Required: []Type{}, Optional: []Type{}, NotRequired: []Type{}}
	}
}

// SemesterMemoCount returns how many semester memos a 2nd/3rd/4th year
// student must submit.
func SemesterMemoCount(courseYear int) int {
	switch courseYear {
	case 2:
		return 2
	case 3:
		return 4
	case 4:
		return 6
	default:
		return 0
	}
}

// CheckCompatibility rejects documents that are explicitly not required
// for the student's category. It runs before any field validation, so an
// incompatible document never reaches OCR-derived checks. An empty
// category allows everything.
func CheckCompatibility(docType Type, category Category) Verdict {
	if category == "" {
		return Approve("No category check performed")
	}

	reqs := RequiredDocuments(category, 0)
	excluded := false
	for _, t := range reqs.NotRequired {
		if t == docType {
			excluded = true
			break
		}
	}
	if !excluded {
		return Approve("Document compatible with student category")
	}

	switch {
	case docType == LatestSemMemo && category == FirstYear:
		return Reject("Semester memos not required for 1st-year students")
	case docType == IncomeBondPaper && category == FirstYear:
		return Reject("Income Bond Paper not required for 1st-year students")
	case docType == DiplomaCertificate && category != LateralEntry:
		return Reject("Diploma Certificate only required for Lateral Entry students")
	case docType == LEConsolidatedMemo && category != LateralEntry:
		return Reject("Diploma Consolidated Memo only required for Lateral Entry students")
	case docType == LEBonafide && category != LateralEntry:
		return Reject("Diploma Bonafide only required for Lateral Entry students")
	case docType == LETransferCertificate && category != LateralEntry:
		return Reject("Diploma Transfer Certificate only required for Lateral Entry students")
	}
	return Approve("Document compatible with student category")
}
