package consistency

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
)

func newChecker(t *testing.T) (*Checker, storage.StudentStore) {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewChecker(store), store
}

func TestFirstDocumentCreatesReference(t *testing.T) {
	c, store := newChecker(t)
	ctx := context.Background()

	verdict, err := c.Check(ctx, "S1001", "Asha Rahman", "")
	require.NoError(t, err)
	assert.True(t, verdict.Approved())

	rec, err := store.Get(ctx, "S1001")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rahman", rec.ReferenceName)
}

func TestNameMismatchRejected(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()

	_, err := c.Check(ctx, "S1001", "Asha Rahman", "")
	require.NoError(t, err)

	verdict, err := c.Check(ctx, "S1001", "Imran Ahmed", "")
	require.NoError(t, err)
	assert.False(t, verdict.Approved())
	assert.Equal(t, "Invalid file attached", verdict.Feedback)
}

func TestNameSubsetMatches(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()

	_, err := c.Check(ctx, "S1001", "Mohammed Imran Khan", "")
	require.NoError(t, err)

	// A shortened form of the reference name still matches.
	verdict, err := c.Check(ctx, "S1001", "Imran Khan", "")
	require.NoError(t, err)
	assert.True(t, verdict.Approved())
}

func TestRollNoBackfillAndMismatch(t *testing.T) {
	c, store := newChecker(t)
	ctx := context.Background()

	_, err := c.Check(ctx, "S1001", "Asha Rahman", "")
	require.NoError(t, err)

	// First document carrying a roll number backfills the reference.
	verdict, err := c.Check(ctx, "S1001", "Asha Rahman", "160423733008")
	require.NoError(t, err)
	require.True(t, verdict.Approved())

	rec, err := store.Get(ctx, "S1001")
	require.NoError(t, err)
	assert.Equal(t, "160423733008", rec.ReferenceRollNo)

	// Case differences are tolerated, different numbers are not.
	verdict, err = c.Check(ctx, "S1001", "Asha Rahman", "160423733008")
	require.NoError(t, err)
	assert.True(t, verdict.Approved())

	verdict, err = c.Check(ctx, "S1001", "Asha Rahman", "999999999999")
	require.NoError(t, err)
	assert.False(t, verdict.Approved())
}

func TestEmptyStudentIDSkipsCheck(t *testing.T) {
	c, _ := newChecker(t)
	verdict, err := c.Check(context.Background(), "", "Anyone", "anything")
	require.NoError(t, err)
	assert.True(t, verdict.Approved())
}

func TestMissingFieldsDoNotReject(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()

	_, err := c.Check(ctx, "S1001", "Asha Rahman", "160423733008")
	require.NoError(t, err)

	// A document where extraction found nothing cannot contradict the
	// reference.
	verdict, err := c.Check(ctx, "S1001", "", "")
	require.NoError(t, err)
	assert.True(t, verdict.Approved())
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Asha Rahman", "asha  rahman", true},
		{"Mohammed Imran Khan", "Imran Khan", true},
		{"Asha Rahman", "Imran Ahmed", false},
		{"", "Asha Rahman", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, namesMatch(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
