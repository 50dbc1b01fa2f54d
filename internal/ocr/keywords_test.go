package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"no keywords", "lorem ipsum dolor", 0},
		{"case insensitive", "GOVERNMENT of telangana", 2},
		{"each counted once", "Scholarship Scholarship Scholarship", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountKeywords(tt.text))
		})
	}
}

func TestCountKeywords_RichDocument(t *testing.T) {
	text := "Government of Telangana Department of Minority Welfare " +
		"Post-Matric Scholarship Application Verification Report"
	assert.GreaterOrEqual(t, CountKeywords(text), 7)
}

func TestTextConfidence(t *testing.T) {
	assert.Equal(t, 0.0, TextConfidence(""))
	assert.Equal(t, 0.0, TextConfidence("abc"))

	low := TextConfidence("zzzz zzzz")
	rich := TextConfidence("Government of Telangana Scholarship Application " +
		"Certificate for the student named on this bonafide record with roll number and date")
	assert.Greater(t, rich, low)
	assert.LessOrEqual(t, rich, 1.0)
}

func TestReadableRatio(t *testing.T) {
	assert.Equal(t, 0.0, readableRatio(""))
	assert.Equal(t, 1.0, readableRatio("clean text 123"))
	assert.Less(t, readableRatio("@#$%^&*"), 0.2)
}
