package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/ocr"
)

// scriptedEngine returns the same text for every pass.
type scriptedEngine struct {
	text string
	err  error
}

func (e *scriptedEngine) Recognize(_ context.Context, _ image.Image, _ ocr.Options) (string, error) {
	return e.text, e.err
}

func (e *scriptedEngine) Close() error { return nil }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 120, 80))
	for y := range 80 {
		for x := range 120 {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func buildVerifier(t *testing.T, engineText string) *Verifier {
	t.Helper()
	v, err := NewBuilder().
		WithEngine(&scriptedEngine{text: engineText}).
		WithRotation(false).
		WithDatabasePath(filepath.Join(t.TempDir(), "results.db")).
		Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

const passbookText = "STATE BANK OF INDIA Government Scholarship Branch\n" +
	"Account Holder Name: Asha Rahman\nAccount No: 38211045672\n" +
	"Student Application Verification Record for the Department"

func TestVerifyApprovesValidDocument(t *testing.T) {
	v := buildVerifier(t, passbookText)

	verdict, err := v.Verify(context.Background(), pngBytes(t),
		document.BankPassbook, "S1001", document.FirstYear)
	require.NoError(t, err)
	assert.True(t, verdict.Approved(), verdict.Feedback)
	assert.Equal(t, "Uploaded successfully", verdict.Feedback)
}

func TestVerifyRejectsWrongContent(t *testing.T) {
	v := buildVerifier(t, passbookText)

	// Passbook text cannot pass as an allotment order.
	verdict, err := v.Verify(context.Background(), pngBytes(t),
		document.AllotmentOrder, "S1001", document.FirstYear)
	require.NoError(t, err)
	assert.False(t, verdict.Approved())
	assert.Equal(t, "Invalid file attached", verdict.Feedback)
}

func TestVerifyRejectsEmptyUpload(t *testing.T) {
	v := buildVerifier(t, passbookText)

	verdict, err := v.Verify(context.Background(), nil,
		document.BankPassbook, "S1001", document.FirstYear)
	require.NoError(t, err)
	assert.False(t, verdict.Approved())
}

func TestVerifyRejectsUndecodableImage(t *testing.T) {
	v := buildVerifier(t, passbookText)

	verdict, err := v.Verify(context.Background(), []byte("not an image"),
		document.BankPassbook, "S1001", document.FirstYear)
	require.NoError(t, err)
	assert.False(t, verdict.Approved())
	assert.Equal(t, "Invalid file attached", verdict.Feedback)
}

func TestVerifyEnforcesConsistencyAcrossDocuments(t *testing.T) {
	v := buildVerifier(t, passbookText)
	ctx := context.Background()

	verdict, err := v.Verify(ctx, pngBytes(t), document.BankPassbook, "S1001", document.FirstYear)
	require.NoError(t, err)
	require.True(t, verdict.Approved(), verdict.Feedback)

	// Same student, different name on the next document.
	otherName := "STATE BANK OF INDIA Government Scholarship Branch\n" +
		"Account Holder Name: Imran Ahmed\nAccount No: 38211045672\n" +
		"Student Application Verification Record for the Department"
	v2, err := NewBuilder().
		WithEngine(&scriptedEngine{text: otherName}).
		WithRotation(false).
		WithStudentStore(v.students).
		Build(ctx)
	require.NoError(t, err)

	verdict, err = v2.Verify(ctx, pngBytes(t), document.BankPassbook, "S1001", document.FirstYear)
	require.NoError(t, err)
	assert.False(t, verdict.Approved())
	assert.Equal(t, "Invalid file attached", verdict.Feedback)
}

func TestVerifyCategoryGateBeforeContent(t *testing.T) {
	v := buildVerifier(t, "OSMANIA UNIVERSITY Semester Examination\nName: Asha Rahman\nRoll No: 160423733008 Scholarship Application Verification")

	verdict, err := v.Verify(context.Background(), pngBytes(t),
		document.LatestSemMemo, "S1001", document.FirstYear)
	require.NoError(t, err)
	require.False(t, verdict.Approved())
	assert.Equal(t, "Semester memos not required for 1st-year students", verdict.Feedback)
}

func TestInfo(t *testing.T) {
	v := buildVerifier(t, passbookText)
	info := v.Info()
	assert.Equal(t, false, info["rotation_enabled"])
	assert.Contains(t, info, "database_path")
}
