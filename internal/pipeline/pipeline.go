// Package pipeline wires the document verification stages together:
// decode, rasterize, OCR, normalization, content validation and
// identity consistency.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/consistency"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/ocr"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/pdfconv"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/preprocess"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/validate"
)

const feedbackInvalid = "Invalid file attached"

// Verifier runs the full verification pipeline for a single document.
type Verifier struct {
	cfg Config

	engine    ocr.Engine
	extractor *ocr.Extractor
	converter *pdfconv.Converter
	validator *validate.Service
	checker   *consistency.Checker
	students  storage.StudentStore

	closers []func() error
}

// Verify takes the raw uploaded bytes and returns the verdict. Every
// failure path yields a Rejected verdict; the error return carries
// infrastructure failures (storage, engine setup) that the caller may
// want to surface separately.
func (v *Verifier) Verify(ctx context.Context, raw []byte, docType document.Type,
	studentID string, category document.Category,
) (document.Verdict, error) {
	text, err := v.ExtractText(ctx, raw, docType)
	if err != nil {
		slog.Warn("text extraction failed", "document_type", docType, "error", err)
		return document.Reject(feedbackInvalid), nil
	}

	verdict := v.validator.Validate(text, docType, category)
	if !verdict.Approved() {
		return verdict, nil
	}

	if v.checker != nil && studentID != "" {
		name := verdict.Fields["name"]
		rollNo := verdict.Fields["roll_no"]
		consistent, err := v.checker.Check(ctx, studentID, name, rollNo)
		if err != nil {
			return document.Reject(feedbackInvalid), err
		}
		if !consistent.Approved() {
			return consistent, nil
		}
	}

	return verdict, nil
}

// ExtractText runs decode, rasterization and the OCR ladder, returning
// normalized text for the whole document. PDF pages are processed on
// the converter's worker pool and joined with blank lines.
func (v *Verifier) ExtractText(ctx context.Context, raw []byte, docType document.Type) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("pipeline: empty document")
	}

	if preprocess.SniffPDF(raw) {
		return v.converter.Process(ctx, raw, func(ctx context.Context, page image.Image, pageNum int) (string, error) {
			result := v.extractor.ExtractPDFPage(ctx, page)
			if result.Text == "" {
				return "", fmt.Errorf("page %d: no text", pageNum)
			}
			return result.Text, nil
		})
	}

	img, err := preprocess.Decode(raw)
	if err != nil {
		return "", fmt.Errorf("pipeline: decode image: %w", err)
	}

	result := v.extractor.ExtractImage(ctx, img)
	text := result.Text

	// Attendance sheets date their header in the upper right corner;
	// a focused crop recovers the year when the full-page pass missed
	// it.
	if docType == document.AttendanceForm {
		if corner := v.extractor.ExtractUpperRightDate(ctx, img); corner != "" {
			text = strings.TrimSpace(text + "\n" + corner)
		}
	}
	return text, nil
}

// Info reports the active pipeline configuration.
func (v *Verifier) Info() map[string]any {
	return map[string]any{
		"ocr_language":     v.cfg.Tesseract.Language,
		"rotation_enabled": v.cfg.Extractor.RotationEnabled,
		"vision_enabled":   v.cfg.Extractor.VisionEnabled,
		"pdf_workers":      v.cfg.PDF.Workers,
		"database_path":    v.cfg.DatabasePath,
	}
}

// Close releases the OCR engine, vision client and stores.
func (v *Verifier) Close() error {
	var firstErr error
	for _, closeFn := range v.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	v.closers = nil
	return firstErr
}
