package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
)

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandlerRejectsPost(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	rec := httptest.NewRecorder()
	s.healthHandler(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestInfoHandler(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	rec := httptest.NewRecorder()
	s.infoHandler(rec, httptest.NewRequest(http.MethodGet, "/info", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "eng", info["ocr_language"])
}

func TestUploadLifecycle(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := uploadRequest(t, "aadhaar.png", map[string]string{
		"document_type":    "aadhaar",
		"student_id":       "160423733008",
		"student_category": "1st_year",
	})
	rec := httptest.NewRecorder()
	s.uploadHandler(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.DocumentID)
	assert.NotEmpty(t, resp.TaskID)
	assert.Equal(t, storage.TaskPending, resp.Status)

	// The worker completes the task asynchronously.
	require.Eventually(t, func() bool {
		rec, err := s.results.GetTask(context.Background(), resp.TaskID)
		return err == nil && rec.State == storage.TaskCompleted
	}, 2*time.Second, 10*time.Millisecond)

	task, err := s.results.GetTask(context.Background(), resp.TaskID)
	require.NoError(t, err)
	assert.Equal(t, string(document.StatusApprove), task.Status)
	assert.Equal(t, "Uploaded successfully", task.Feedback)
	assert.Equal(t, "aadhaar", task.DocType)
	assert.Equal(t, "160423733008", task.StudentID)
}

func TestUploadRecordsInfrastructureFailure(t *testing.T) {
	s := newTestServer(t, document.Reject("Invalid file attached"), errors.New("store unreachable"))

	req := uploadRequest(t, "memo.pdf", map[string]string{"document_type": "latest_sem_memo"})
	rec := httptest.NewRecorder()
	s.uploadHandler(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Eventually(t, func() bool {
		rec, err := s.results.GetTask(context.Background(), resp.TaskID)
		return err == nil && rec.State == storage.TaskFailed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := uploadRequest(t, "", map[string]string{"document_type": "aadhaar"})
	rec := httptest.NewRecorder()
	s.uploadHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsBadExtension(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := uploadRequest(t, "notes.docx", map[string]string{"document_type": "aadhaar"})
	rec := httptest.NewRecorder()
	s.uploadHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ".docx")
}

func TestUploadRejectsUnknownDocumentType(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := uploadRequest(t, "scan.png", map[string]string{"document_type": "passport"})
	rec := httptest.NewRecorder()
	s.uploadHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsUnknownCategory(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := uploadRequest(t, "scan.png", map[string]string{
		"document_type":    "aadhaar",
		"student_category": "5th_year",
	})
	rec := httptest.NewRecorder()
	s.uploadHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadQueueFull(t *testing.T) {
	store, err := storage.OpenSQLite(t.TempDir() + "/queue_test.db")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// No workers and no queue capacity: every enqueue hits the default
	// branch.
	s := &Server{
		verifier:    &stubVerifier{verdict: document.Approve("Uploaded successfully")},
		results:     store,
		corsOrigin:  "*",
		maxUploadMB: 16,
		timeoutSec:  5,
		jobs:        make(chan verifyJob),
		hub:         newTaskHub(),
	}

	req := uploadRequest(t, "scan.png", map[string]string{"document_type": "aadhaar"})
	rec := httptest.NewRecorder()
	s.uploadHandler(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResultHandlerUnknownTask(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := httptest.NewRequest(http.MethodGet, "/result/deadbeef", nil)
	rec := httptest.NewRecorder()
	s.resultHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResultHandlerMissingID(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := httptest.NewRequest(http.MethodGet, "/result/", nil)
	rec := httptest.NewRecorder()
	s.resultHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResultHandlerReturnsPendingTask(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	require.NoError(t, s.results.CreateTask(context.Background(), storage.TaskRecord{
		TaskID:     "task-1",
		DocumentID: "doc-1",
		DocType:    "aadhaar",
	}))

	req := httptest.NewRequest(http.MethodGet, "/result/task-1", nil)
	rec := httptest.NewRecorder()
	s.resultHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var task storage.TaskRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, storage.TaskPending, task.State)
	assert.Equal(t, "doc-1", task.DocumentID)
}

func TestRequirementsHandler(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := httptest.NewRequest(http.MethodGet, "/requirements?category=2_3_4_year&year=3", nil)
	rec := httptest.NewRecorder()
	s.requirementsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RequirementsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2_3_4_year", resp.Category)
	assert.Equal(t, 4, resp.SemesterMemoCount)
	assert.Contains(t, resp.Documents.Required, document.LatestSemMemo)
	assert.Contains(t, resp.Documents.NotRequired, document.DiplomaCertificate)
}

func TestRequirementsHandlerBadCategory(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := httptest.NewRequest(http.MethodGet, "/requirements?category=alumni", nil)
	rec := httptest.NewRecorder()
	s.requirementsHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequirementsHandlerBadYear(t *testing.T) {
	s := newTestServer(t, document.Approve("Uploaded successfully"), nil)

	req := httptest.NewRequest(http.MethodGet, "/requirements?category=1st_year&year=9", nil)
	rec := httptest.NewRecorder()
	s.requirementsHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newID()
		assert.Len(t, id, 32)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
