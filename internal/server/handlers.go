package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/version"
)

// allowedExtensions lists the upload formats the pipeline can decode.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// infoHandler returns the active pipeline configuration.
func (s *Server) infoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.verifier.Info()); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding info response: %v\n", err)
	}
}

// uploadHandler accepts a document for verification and queues it on
// the worker pool. The response carries the task ID to poll.
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Set content length limit
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		s.writeErrorResponse(w, "No document file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		s.writeErrorResponse(w, fmt.Sprintf("Unsupported file extension %q", ext), http.StatusBadRequest)
		return
	}

	docType, err := document.ParseType(r.FormValue("document_type"))
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var category document.Category
	if raw := r.FormValue("student_category"); raw != "" {
		category, err = document.ParseCategory(raw)
		if err != nil {
			s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	studentID := r.FormValue("student_id")

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read document data", http.StatusInternalServerError)
		return
	}
	uploadSizeBytes.Observe(float64(len(data)))

	documentID := newID()
	taskID := newID()

	rec := storage.TaskRecord{
		TaskID:     taskID,
		DocumentID: documentID,
		StudentID:  studentID,
		DocType:    string(docType),
		Category:   string(category),
		State:      storage.TaskPending,
	}
	if err := s.results.CreateTask(r.Context(), rec); err != nil {
		s.writeErrorResponse(w, "Failed to record task", http.StatusInternalServerError)
		return
	}

	job := verifyJob{
		taskID:     taskID,
		documentID: documentID,
		raw:        data,
		docType:    docType,
		studentID:  studentID,
		category:   category,
	}
	select {
	case s.jobs <- job:
		queueDepth.Inc()
	default:
		s.writeErrorResponse(w, "Verification queue is full, retry later", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	response := UploadResponse{
		DocumentID: documentID,
		TaskID:     taskID,
		Status:     storage.TaskPending,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding upload response: %v\n", err)
	}
}

// resultHandler returns the stored verdict for a task.
func (s *Server) resultHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	taskID := strings.TrimPrefix(r.URL.Path, "/result/")
	if taskID == "" || strings.Contains(taskID, "/") {
		s.writeErrorResponse(w, "Missing task ID", http.StatusBadRequest)
		return
	}

	rec, err := s.results.GetTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeErrorResponse(w, "Unknown task ID", http.StatusNotFound)
			return
		}
		s.writeErrorResponse(w, "Failed to load task", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result response: %v\n", err)
	}
}

// requirementsHandler returns the document checklist for a category.
func (s *Server) requirementsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category, err := document.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year < 1 || year > 4 {
			s.writeErrorResponse(w, "Invalid course year", http.StatusBadRequest)
			return
		}
	}

	response := RequirementsResponse{
		Category:          string(category),
		CourseYear:        year,
		SemesterMemoCount: document.SemesterMemoCount(year),
		Documents:         document.RequiredDocuments(category, year),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding requirements response: %v\n", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}

// newID returns a random 128-bit hex identifier.
func newID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(buf[:])
}
