package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
)

// stubVerifier returns a fixed verdict without touching OCR.
type stubVerifier struct {
	verdict document.Verdict
	err     error
}

func (v *stubVerifier) Verify(_ context.Context, _ []byte, _ document.Type,
	_ string, _ document.Category,
) (document.Verdict, error) {
	return v.verdict, v.err
}

func (v *stubVerifier) Info() map[string]any {
	return map[string]any{"ocr_language": "eng"}
}

func (v *stubVerifier) Close() error { return nil }

// newTestServer builds a server around a stubbed verifier and a
// throwaway SQLite store, with one worker running.
func newTestServer(t *testing.T, verdict document.Verdict, verifyErr error) *Server {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "server_test.db"))
	require.NoError(t, err)

	s := &Server{
		verifier:    &stubVerifier{verdict: verdict, err: verifyErr},
		results:     store,
		corsOrigin:  "*",
		maxUploadMB: 16,
		timeoutSec:  5,
		jobs:        make(chan verifyJob, 8),
		hub:         newTaskHub(),
	}
	s.startWorkers(1)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// uploadRequest builds a multipart upload with the given form fields.
func uploadRequest(t *testing.T, filename string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if filename != "" {
		part, err := writer.CreateFormFile("document", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("file contents"))
		require.NoError(t, err)
	}
	for key, val := range fields {
		require.NoError(t, writer.WriteField(key, val))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
