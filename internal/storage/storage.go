// Package storage persists student reference records and verification
// task results.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("storage: record not found")

// Task lifecycle states.
const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
	TaskFailed    = "failed"
)

// StudentRecord is the per-student identity reference built from the
// first successfully verified document.
type StudentRecord struct {
	StudentID       string    `json:"student_id"`
	ReferenceName   string    `json:"reference_name"`
	ReferenceRollNo string    `json:"reference_roll_no"`
	CreatedAt       time.Time `json:"created_at"`
}

// TaskRecord tracks one verification request through the async API.
type TaskRecord struct {
	TaskID     string    `json:"task_id"`
	DocumentID string    `json:"document_id"`
	StudentID  string    `json:"student_id,omitempty"`
	DocType    string    `json:"document_type"`
	Category   string    `json:"student_category,omitempty"`
	State      string    `json:"state"`
	Status     string    `json:"status,omitempty"`
	Feedback   string    `json:"feedback,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// StudentStore holds the identity reference records used by the
// consistency checks.
type StudentStore interface {
	// Get returns the reference record, or ErrNotFound.
	Get(ctx context.Context, studentID string) (StudentRecord, error)
	// Create stores the first reference record for a student.
	Create(ctx context.Context, rec StudentRecord) error
	// BackfillRollNo sets the reference roll number if the stored
	// record does not carry one yet. The write is transactional with
	// the read.
	BackfillRollNo(ctx context.Context, studentID, rollNo string) error
	Close() error
}

// ResultStore records verification tasks and their outcomes.
type ResultStore interface {
	CreateTask(ctx context.Context, rec TaskRecord) error
	// CompleteTask moves a task to its terminal state with the verdict.
	CompleteTask(ctx context.Context, taskID, state, status, feedback string) error
	GetTask(ctx context.Context, taskID string) (TaskRecord, error)
	Close() error
}
