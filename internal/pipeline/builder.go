package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/consistency"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/ner"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/ocr"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/pdfconv"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/storage"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/validate"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/vision"
)

// Config holds the settings for every pipeline stage.
type Config struct {
	Tesseract ocr.TesseractConfig
	Extractor ocr.Config
	PDF       pdfconv.Config
	Vision    vision.Config

	// DatabasePath locates the sqlite file for reference records and
	// task results.
	DatabasePath string

	// FirestoreProject, when set, keeps student reference records in
	// Firestore instead of the local sqlite file. Task results stay in
	// sqlite either way.
	FirestoreProject string
}

// DefaultConfig returns a config with component defaults.
func DefaultConfig() Config {
	return Config{
		Tesseract:    ocr.DefaultTesseractConfig(),
		Extractor:    ocr.DefaultConfig(),
		PDF:          pdfconv.DefaultConfig(),
		Vision:       vision.DefaultConfig(),
		DatabasePath: "results.db",
	}
}

// Builder constructs a Verifier with fluent configuration.
type Builder struct {
	cfg        Config
	engine     ocr.Engine
	visionAPI  ocr.VisionClient
	students   storage.StudentStore
	recognizer ner.Recognizer
}

// NewBuilder creates a builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithLanguage sets the OCR language.
func (b *Builder) WithLanguage(lang string) *Builder {
	if lang != "" {
		b.cfg.Tesseract.Language = lang
	}
	return b
}

// WithDatabasePath sets the sqlite database location.
func (b *Builder) WithDatabasePath(path string) *Builder {
	if path != "" {
		b.cfg.DatabasePath = path
	}
	return b
}

// WithRotation toggles rotation detection before the OCR ladder.
func (b *Builder) WithRotation(enabled bool) *Builder {
	b.cfg.Extractor.RotationEnabled = enabled
	return b
}

// WithVision enables the vision model fallback against the given GCP
// project.
func (b *Builder) WithVision(projectID, region string) *Builder {
	b.cfg.Extractor.VisionEnabled = projectID != ""
	b.cfg.Vision.ProjectID = projectID
	if region != "" {
		b.cfg.Vision.Region = region
	}
	return b
}

// WithPDFWorkers bounds the per-page fan-out for PDF documents.
func (b *Builder) WithPDFWorkers(n int) *Builder {
	if n > 0 {
		b.cfg.PDF.Workers = n
	}
	return b
}

// WithEngine injects a custom OCR engine.
func (b *Builder) WithEngine(engine ocr.Engine) *Builder {
	b.engine = engine
	return b
}

// WithVisionClient injects a custom vision client.
func (b *Builder) WithVisionClient(client ocr.VisionClient) *Builder {
	b.visionAPI = client
	return b
}

// WithStudentStore injects a custom student store; by default the
// sqlite store at DatabasePath is used.
func (b *Builder) WithStudentStore(store storage.StudentStore) *Builder {
	b.students = store
	return b
}

// WithRecognizer injects a custom entity recognizer.
func (b *Builder) WithRecognizer(recognizer ner.Recognizer) *Builder {
	b.recognizer = recognizer
	return b
}

// Config returns the builder's configuration.
func (b *Builder) Config() Config { return b.cfg }

// Build initializes the pipeline components.
func (b *Builder) Build(ctx context.Context) (*Verifier, error) {
	v := &Verifier{cfg: b.cfg}

	v.engine = b.engine
	if v.engine == nil {
		v.engine = ocr.NewTesseractEngine(b.cfg.Tesseract)
	}
	v.closers = append(v.closers, v.engine.Close)

	visionAPI := b.visionAPI
	if visionAPI == nil && b.cfg.Extractor.VisionEnabled {
		client, err := vision.New(ctx, b.cfg.Vision)
		if err != nil {
			_ = v.Close()
			return nil, fmt.Errorf("pipeline: init vision: %w", err)
		}
		v.closers = append(v.closers, client.Close)
		visionAPI = visionAdapter{client}
	}

	v.extractor = ocr.NewExtractor(v.engine, visionAPI, b.cfg.Extractor)
	v.converter = pdfconv.NewConverter(b.cfg.PDF)
	v.validator = validate.NewService(b.recognizer)

	v.students = b.students
	if v.students == nil && b.cfg.FirestoreProject != "" {
		store, err := storage.NewFirestoreStudentStore(ctx, b.cfg.FirestoreProject)
		if err != nil {
			_ = v.Close()
			return nil, fmt.Errorf("pipeline: init firestore: %w", err)
		}
		v.closers = append(v.closers, store.Close)
		v.students = store
	}
	if v.students == nil {
		store, err := storage.OpenSQLite(b.cfg.DatabasePath)
		if err != nil {
			_ = v.Close()
			return nil, fmt.Errorf("pipeline: open store: %w", err)
		}
		v.closers = append(v.closers, store.Close)
		v.students = store
	}
	v.checker = consistency.NewChecker(v.students)

	return v, nil
}

// visionAdapter bridges the vision client to the extractor's fallback
// interface.
type visionAdapter struct {
	client *vision.Client
}

func (a visionAdapter) Extract(ctx context.Context, img image.Image) (ocr.VisionResult, error) {
	res, err := a.client.Extract(ctx, img)
	if err != nil {
		return ocr.VisionResult{}, err
	}
	return ocr.VisionResult{
		Text:       res.Text,
		Confidence: res.Confidence,
		Fields:     res.Fields,
	}, nil
}
