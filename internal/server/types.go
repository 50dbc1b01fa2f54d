package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/pipeline"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// verifierInterface defines the methods needed by the server from the
// verification pipeline.
type verifierInterface interface {
	Verify(ctx context.Context, raw []byte, docType document.Type,
		studentID string, category document.Category) (document.Verdict, error)
	Info() map[string]any
	Close() error
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	verifier    verifierInterface
	results     storage.ResultStore
	rateLimiter *RateLimiter
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int

	jobs chan verifyJob
	wg   sync.WaitGroup
	hub  *taskHub
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int
	Workers     int

	// Rate limiting; zero values disable the corresponding limit.
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxDataPerDay     int64

	PipelineConfig pipeline.Config
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// UploadResponse acknowledges an accepted document. The verdict arrives
// asynchronously via /result/{task_id} or the task WebSocket stream.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	TaskID     string `json:"task_id"`
	Status     string `json:"status"`
}

type RequirementsResponse struct {
	Category          string                `json:"student_category"`
	CourseYear        int                   `json:"course_year,omitempty"`
	SemesterMemoCount int                   `json:"semester_memo_count,omitempty"`
	Documents         document.Requirements `json:"documents"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a new verification server instance.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 16
	}
	if config.TimeoutSec <= 0 {
		config.TimeoutSec = 120
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}

	// One store serves both the student references and the task results,
	// so the pipeline and the API share a single database handle. With a
	// Firestore project configured the builder keeps student references
	// there instead; the task results stay local either way.
	store, err := storage.OpenSQLite(config.PipelineConfig.DatabasePath)
	if err != nil {
		return nil, err
	}

	builder := pipeline.NewBuilder().WithConfig(config.PipelineConfig)
	if config.PipelineConfig.FirestoreProject == "" {
		builder = builder.WithStudentStore(store)
	}

	verifier, err := builder.Build(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	s := &Server{
		verifier:    verifier,
		results:     store,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
		jobs:        make(chan verifyJob, config.Workers*8),
		hub:         newTaskHub(),
	}

	if config.RequestsPerMinute > 0 || config.RequestsPerHour > 0 ||
		config.MaxRequestsPerDay > 0 || config.MaxDataPerDay > 0 {
		s.rateLimiter = NewRateLimiter(config.RequestsPerMinute, config.RequestsPerHour,
			config.MaxRequestsPerDay, config.MaxDataPerDay)
	}

	s.startWorkers(config.Workers)
	return s, nil
}

// Close drains the worker pool and releases server resources.
func (s *Server) Close() error {
	close(s.jobs)
	s.wg.Wait()

	var firstErr error
	if s.verifier != nil {
		if err := s.verifier.Close(); err != nil {
			firstErr = err
		}
	}
	if s.results != nil {
		if err := s.results.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/info", s.corsMiddleware(s.infoHandler))
	mux.HandleFunc("/requirements", s.corsMiddleware(s.requirementsHandler))
	mux.HandleFunc("/upload", s.corsMiddleware(s.rateLimitMiddleware(s.uploadHandler)))
	mux.HandleFunc("/result/", s.corsMiddleware(s.resultHandler))
	mux.HandleFunc("/ws/tasks", s.tasksWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
