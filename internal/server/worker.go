package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
)

// verifyJob carries one queued upload through the worker pool.
type verifyJob struct {
	taskID     string
	documentID string
	raw        []byte
	docType    document.Type
	studentID  string
	category   document.Category
}

func (s *Server) startWorkers(n int) {
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go s.worker()
	}
}

func (s *Server) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		queueDepth.Dec()
		s.runJob(job)
	}
}

// runJob verifies one document and persists the verdict. Failures are
// recorded on the task, never returned; the upload was already
// acknowledged.
func (s *Server) runJob(job verifyJob) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.timeoutSec)*time.Second)
	defer cancel()

	start := time.Now()
	verdict, err := s.verifier.Verify(ctx, job.raw, job.docType, job.studentID, job.category)
	duration := time.Since(start)

	state := storage.TaskCompleted
	if err != nil {
		state = storage.TaskFailed
		verificationsTotal.WithLabelValues(string(job.docType), "error").Inc()
		slog.Error("verification failed", "task_id", job.taskID, "document_type", job.docType, "error", err)
	} else {
		verificationsTotal.WithLabelValues(string(job.docType), strings.ToLower(string(verdict.Status))).Inc()
		verificationDuration.WithLabelValues(string(job.docType)).Observe(duration.Seconds())
		slog.Info("verification finished",
			"task_id", job.taskID,
			"document_type", job.docType,
			"status", verdict.Status,
			"duration", duration)
	}

	if err := s.results.CompleteTask(ctx, job.taskID, state, string(verdict.Status), verdict.Feedback); err != nil {
		slog.Error("failed to store verdict", "task_id", job.taskID, "error", err)
	}

	s.hub.broadcast(TaskEvent{
		TaskID:     job.taskID,
		DocumentID: job.documentID,
		DocType:    string(job.docType),
		State:      state,
		Status:     string(verdict.Status),
		Feedback:   verdict.Feedback,
	})
}
