// Package consistency cross-checks the student identity between
// documents. The first successful document establishes the reference
// name and optional roll number; every later document must agree with
// it.
package consistency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
)

const (
	feedbackInvalid  = "Invalid file attached"
	feedbackUploaded = "Uploaded successfully"
)

// Checker compares extracted identity fields against the stored
// reference record.
type Checker struct {
	students storage.StudentStore
}

// NewChecker builds a checker over the given student store.
func NewChecker(students storage.StudentStore) *Checker {
	return &Checker{students: students}
}

// Check verifies the extracted name and roll number against the
// student's reference record, creating it on first contact and
// backfilling a missing reference roll number. A mismatch on either
// field rejects the document.
func (c *Checker) Check(ctx context.Context, studentID, name, rollNo string) (document.Verdict, error) {
	if studentID == "" {
		return document.Approve(feedbackUploaded), nil
	}

	rec, err := c.students.Get(ctx, studentID)
	if errors.Is(err, storage.ErrNotFound) {
		create := storage.StudentRecord{
			StudentID:       studentID,
			ReferenceName:   name,
			ReferenceRollNo: rollNo,
		}
		if err := c.students.Create(ctx, create); err != nil {
			return document.Verdict{}, fmt.Errorf("consistency: create reference: %w", err)
		}
		slog.Info("reference record created", "student_id", studentID, "has_roll_no", rollNo != "")
		return document.Approve(feedbackUploaded), nil
	}
	if err != nil {
		return document.Verdict{}, fmt.Errorf("consistency: load reference: %w", err)
	}

	if name != "" && rec.ReferenceName != "" && !namesMatch(name, rec.ReferenceName) {
		slog.Info("name mismatch", "student_id", studentID)
		return document.Reject(feedbackInvalid), nil
	}

	if rollNo != "" && rec.ReferenceRollNo != "" &&
		!strings.EqualFold(rollNo, rec.ReferenceRollNo) {
		slog.Info("roll number mismatch", "student_id", studentID)
		return document.Reject(feedbackInvalid), nil
	}

	if rollNo != "" && rec.ReferenceRollNo == "" {
		if err := c.students.BackfillRollNo(ctx, studentID, rollNo); err != nil {
			return document.Verdict{}, fmt.Errorf("consistency: backfill roll no: %w", err)
		}
	}

	return document.Approve(feedbackUploaded), nil
}

// namesMatch treats names as equal when their normalized forms match
// or one name's word set is contained in the other's, which covers
// initials-dropped and order-preserved shortenings.
func namesMatch(a, b string) bool {
	na := strings.Join(strings.Fields(strings.ToLower(a)), " ")
	nb := strings.Join(strings.Fields(strings.ToLower(b)), " ")
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	wordsA := toSet(strings.Fields(na))
	wordsB := toSet(strings.Fields(nb))
	return subset(wordsA, wordsB) || subset(wordsB, wordsA)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func subset(a, b map[string]struct{}) bool {
	for w := range a {
		if _, ok := b[w]; !ok {
			return false
		}
	}
	return true
}
