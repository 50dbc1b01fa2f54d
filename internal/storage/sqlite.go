package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS student_info (
	student_id TEXT PRIMARY KEY,
	reference_name TEXT,
	reference_roll_no TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS verification_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id TEXT UNIQUE NOT NULL,
	document_id TEXT UNIQUE NOT NULL,
	student_id TEXT,
	document_type TEXT NOT NULL,
	student_category TEXT,
	state TEXT NOT NULL,
	status TEXT,
	feedback TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements StudentStore and ResultStore on a local
// sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	// sqlite handles one writer; a single connection avoids lock
	// contention errors under the worker pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, studentID string) (StudentRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT student_id, COALESCE(reference_name, ''), COALESCE(reference_roll_no, ''), created_at
		 FROM student_info WHERE student_id = ?`, studentID)

	var rec StudentRecord
	var created string
	err := row.Scan(&rec.StudentID, &rec.ReferenceName, &rec.ReferenceRollNo, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return StudentRecord{}, ErrNotFound
	}
	if err != nil {
		return StudentRecord{}, fmt.Errorf("storage: get student: %w", err)
	}
	if t, perr := time.Parse("2006-01-02 15:04:05", created); perr == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

func (s *SQLiteStore) Create(ctx context.Context, rec StudentRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student_info (student_id, reference_name, reference_roll_no) VALUES (?, ?, ?)`,
		rec.StudentID, rec.ReferenceName, rec.ReferenceRollNo)
	if err != nil {
		return fmt.Errorf("storage: create student: %w", err)
	}
	return nil
}

func (s *SQLiteStore) BackfillRollNo(ctx context.Context, studentID, rollNo string) error {
	if rollNo == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin backfill: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT reference_roll_no FROM student_info WHERE student_id = ?`, studentID).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("storage: read backfill: %w", err)
	}
	if existing.Valid && existing.String != "" {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE student_info SET reference_roll_no = ? WHERE student_id = ?`, rollNo, studentID); err != nil {
		return fmt.Errorf("storage: write backfill: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateTask(ctx context.Context, rec TaskRecord) error {
	state := rec.State
	if state == "" {
		state = TaskPending
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verification_results (task_id, document_id, student_id, document_type, student_category, state)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.TaskID, rec.DocumentID, rec.StudentID, rec.DocType, rec.Category, state)
	if err != nil {
		return fmt.Errorf("storage: create task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CompleteTask(ctx context.Context, taskID, state, status, feedback string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE verification_results SET state = ?, status = ?, feedback = ? WHERE task_id = ?`,
		state, status, feedback, taskID)
	if err != nil {
		return fmt.Errorf("storage: complete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, taskID string) (TaskRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT task_id, document_id, COALESCE(student_id, ''), document_type,
		        COALESCE(student_category, ''), state, COALESCE(status, ''), COALESCE(feedback, ''), created_at
		 FROM verification_results WHERE task_id = ?`, taskID)

	var rec TaskRecord
	var created string
	err := row.Scan(&rec.TaskID, &rec.DocumentID, &rec.StudentID, &rec.DocType,
		&rec.Category, &rec.State, &rec.Status, &rec.Feedback, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return TaskRecord{}, ErrNotFound
	}
	if err != nil {
		return TaskRecord{}, fmt.Errorf("storage: get task: %w", err)
	}
	if t, perr := time.Parse("2006-01-02 15:04:05", created); perr == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}
