package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Whitespace(t *testing.T) {
	assert.Equal(t, "Government of Telangana",
		Normalize("  Government   of \t Telangana  "))
}

func TestNormalize_PreservesLineStructure(t *testing.T) {
	got := Normalize("Name: Asha Rao\n1234 5678 9012\nDOB: 15/08/1999")
	assert.Contains(t, got, "1234 5678 9012")
	assert.Contains(t, got, "\n")
}

func TestNormalize_Corrections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dollar osmania", "$MANIA UNIVERSITY", "OSMANIA UNIVERSITY"},
		{"zero osmania", "0SMANIA UNIVERSITY", "OSMANIA UNIVERSITY"},
		{"garbled government", "GOVERMENT OF TELANGANA", "GOVERNMENT OF TELANGANA"},
		{"roll caps", "RoII No. 245521733089", "Roll No. 245521733089"},
		{"roll digits", "Ro11 Number", "Roll Number"},
		{"result suffix government", "GovernmenResult of Telangana", "Government of Telangana"},
		{"result suffix scholarship", "ScholarshipResult Form", "Scholarship Form"},
		{"result suffix department", "DepartmenResult of Minority", "Department of Minority"},
		{"year letter O", "dated 2O25", "dated 2025"},
		{"year lowercase o", "valid for 2o24", "valid for 2024"},
		{"date year slip", "Date: 15/08/2O19", "Date: 15/08/2019"},
		{"male letter confusion", "Gender: MaIe", "Gender: Male"},
		{"female letter confusion", "Gender: FemaIe", "Gender: Female"},
		{"aadhar spelling", "Aadhar Card", "Aadhaar Card"},
		{"college letters", "CoIIege of Engineering", "College of Engineering"},
		{"bonafide digit", "Bonaf1de Certificate", "Bonafide Certificate"},
		{"acknowledgement garbled", "Abknawlead Form", "Acknowledgement Form"},
		{"attendance garbled", "Altendanee Sheet", "Attendance Sheet"},
		{"sbtet digit", "SBT3T Telangana", "SBTET Telangana"},
		{"diploma digit", "D1ploma in Civil", "Diploma in Civil"},
		{"renewal truncated", "Renew application", "Renewal application"},
		{"fresh garbled", "Freash admission", "Fresh admission"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Punctuation(t *testing.T) {
	assert.Equal(t, "Name: Asha", Normalize("Name:Asha"))
	assert.Equal(t, "Done.", Normalize("Done ...."))
	assert.Equal(t, "attendance is 37-7 percent", Normalize("attendance is 37 - 7 percent"))
	assert.Equal(t, "Roll No. 1234", Normalize("Roll No.1234"))
}

func TestNormalize_LoneCharacterConfusions(t *testing.T) {
	assert.Equal(t, "I Hereby Certify", Normalize("1 Hereby Certify"))
	assert.Equal(t, "O Block", Normalize("0 Block"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"  G0VERNMENT   of  Telangana\n\n\n\nRoII No.245521733089 ",
		"Name:Asha Rao .... DOB: 15/08/2O19 Gender MaIe",
		"ScholarshipResult ApplicationResult 2O25 Freash",
		"1234 5678 9012",
		"attendance 37 - 7 pemcentager",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
}
