package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const studentCollection = "student_info"

// FirestoreStudentStore keeps student reference records in Firestore
// for GCP deployments where a local sqlite file is not an option.
type FirestoreStudentStore struct {
	client *firestore.Client
}

// NewFirestoreStudentStore connects to the project's Firestore
// database using application default credentials.
func NewFirestoreStudentStore(ctx context.Context, projectID string) (*FirestoreStudentStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("storage: firestore project id required")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("storage: firestore client: %w", err)
	}
	return &FirestoreStudentStore{client: client}, nil
}

func (f *FirestoreStudentStore) Close() error {
	return f.client.Close()
}

type studentDoc struct {
	ReferenceName   string    `firestore:"reference_name"`
	ReferenceRollNo string    `firestore:"reference_roll_no"`
	CreatedAt       time.Time `firestore:"created_at,serverTimestamp"`
}

func (f *FirestoreStudentStore) Get(ctx context.Context, studentID string) (StudentRecord, error) {
	snap, err := f.client.Collection(studentCollection).Doc(studentID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return StudentRecord{}, ErrNotFound
	}
	if err != nil {
		return StudentRecord{}, fmt.Errorf("storage: firestore get: %w", err)
	}

	var doc studentDoc
	if err := snap.DataTo(&doc); err != nil {
		return StudentRecord{}, fmt.Errorf("storage: firestore decode: %w", err)
	}
	return StudentRecord{
		StudentID:       studentID,
		ReferenceName:   doc.ReferenceName,
		ReferenceRollNo: doc.ReferenceRollNo,
		CreatedAt:       doc.CreatedAt,
	}, nil
}

func (f *FirestoreStudentStore) Create(ctx context.Context, rec StudentRecord) error {
	_, err := f.client.Collection(studentCollection).Doc(rec.StudentID).Create(ctx, studentDoc{
		ReferenceName:   rec.ReferenceName,
		ReferenceRollNo: rec.ReferenceRollNo,
	})
	if err != nil {
		return fmt.Errorf("storage: firestore create: %w", err)
	}
	return nil
}

func (f *FirestoreStudentStore) BackfillRollNo(ctx context.Context, studentID, rollNo string) error {
	if rollNo == "" {
		return nil
	}
	ref := f.client.Collection(studentCollection).Doc(studentID)

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var doc studentDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if doc.ReferenceRollNo != "" {
			return nil
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "reference_roll_no", Value: rollNo},
		})
	})
	if err != nil {
		return fmt.Errorf("storage: firestore backfill: %w", err)
	}
	return nil
}
