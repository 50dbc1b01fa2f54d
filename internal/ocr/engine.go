// Package ocr implements the escalating multi-pass text extraction
// engine: rotation correction, tiered OCR passes with stop conditions,
// and an optional vision-model hybrid path.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Page segmentation modes passed through to the engine.
const (
	PSMAuto         = 3
	PSMSingleColumn = 4
	PSMSingleBlock  = 6
	PSMSingleLine   = 7
	PSMSingleWord   = 8
)

// Character whitelists for the restricted passes.
const (
	WhitelistEnhanced = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,()/-: "
	WhitelistDate     = "0123456789/-."
)

// Options configures a single recognition pass.
type Options struct {
	PSM       int
	Whitelist string
}

// DefaultOptions returns the generic page configuration used by the
// standard pass.
func DefaultOptions() Options {
	return Options{PSM: PSMSingleBlock}
}

// Engine performs a single OCR pass over an image. Implementations
// must be safe for concurrent use.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, opts Options) (string, error)
	Close() error
}

// EngineError wraps a failure inside an OCR pass.
type EngineError struct {
	Stage string
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("ocr engine error in %s: %v", e.Stage, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// TesseractConfig configures the local tesseract engine.
type TesseractConfig struct {
	Language    string `mapstructure:"language" yaml:"language" json:"language"`
	TessdataDir string `mapstructure:"tessdata_dir" yaml:"tessdata_dir" json:"tessdata_dir"`
}

// DefaultTesseractConfig returns the default engine settings.
func DefaultTesseractConfig() TesseractConfig {
	return TesseractConfig{Language: "eng"}
}

// TesseractEngine runs OCR through the system tesseract library.
type TesseractEngine struct {
	config TesseractConfig
}

// NewTesseractEngine creates a tesseract-backed engine.
func NewTesseractEngine(config TesseractConfig) *TesseractEngine {
	if config.Language == "" {
		config.Language = "eng"
	}
	return &TesseractEngine{config: config}
}

// Recognize runs one tesseract pass. The client is created per call so
// concurrent recognitions never share engine state; the call is bounded
// by the context.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image, opts Options) (string, error) {
	if img == nil {
		return "", &EngineError{Stage: "recognize", Err: fmt.Errorf("nil image")}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", &EngineError{Stage: "encode", Err: err}
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		client := gosseract.NewClient()
		defer func() { _ = client.Close() }()

		if err := client.SetLanguage(e.config.Language); err != nil {
			done <- result{err: err}
			return
		}
		if e.config.TessdataDir != "" {
			if err := client.SetTessdataPrefix(e.config.TessdataDir); err != nil {
				done <- result{err: err}
				return
			}
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			done <- result{err: err}
			return
		}
		if opts.PSM > 0 {
			if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PSM)); err != nil {
				done <- result{err: err}
				return
			}
		}
		if opts.Whitelist != "" {
			if err := client.SetWhitelist(opts.Whitelist); err != nil {
				done <- result{err: err}
				return
			}
		}

		text, err := client.Text()
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", &EngineError{Stage: "recognize", Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			return "", &EngineError{Stage: "recognize", Err: r.err}
		}
		return r.text, nil
	}
}

// Close releases engine resources. Clients are per call, so there is
// nothing to release.
func (e *TesseractEngine) Close() error { return nil }
