// Package preprocess prepares raster document images for OCR. It
// provides escalating enhancement tiers and the quality assessment that
// selects between them.
package preprocess

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
)

// ProcessingError represents errors that can occur during image preprocessing.
type ProcessingError struct {
	Operation string
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("preprocessing error in %s: %v", e.Operation, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Tier selects a preprocessing intensity.
type Tier string

const (
	TierBasic      Tier = "basic"
	TierEnhanced   Tier = "enhanced"
	TierAggressive Tier = "aggressive"
	TierSmallFont  Tier = "small_font"
	TierPDFPage    Tier = "pdf_page"
)

// Minimum short-side length the aggressive tier upscales to.
const aggressiveMinSide = 1500

// Apply runs the given tier over the image and returns a new image.
// Preprocessing never blocks extraction: if a tier fails, the original
// image is returned unmodified so OCR can still attempt it.
func Apply(img image.Image, tier Tier) image.Image {
	if img == nil {
		return nil
	}
	out, err := apply(img, tier)
	if err != nil {
		slog.Warn("preprocessing failed, using original image",
			"tier", tier, "error", err)
		return img
	}
	return out
}

func apply(img image.Image, tier Tier) (image.Image, error) {
	switch tier {
	case TierBasic:
		return Basic(img)
	case TierEnhanced:
		return Enhanced(img)
	case TierAggressive:
		return Aggressive(img)
	case TierSmallFont:
		return SmallFont(img)
	case TierPDFPage:
		return PDFPage(img)
	default:
		return nil, &ProcessingError{Operation: "apply", Err: fmt.Errorf("unknown tier %q", tier)}
	}
}

// Basic handles clean printed scans: grayscale, a mild contrast boost
// and a light sharpen.
func Basic(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, &ProcessingError{Operation: "basic", Err: errors.New("input image is nil")}
	}
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 20)
	out = imaging.Sharpen(out, 0.8)
	return out, nil
}

// Enhanced handles moderately noisy photos: auto-contrast, median
// denoise, stronger contrast and brightness, unsharp mask.
func Enhanced(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, &ProcessingError{Operation: "enhanced", Err: errors.New("input image is nil")}
	}
	out := imaging.Grayscale(img)
	out = autoContrast(out, 2)
	out = medianFilter(out, 1)
	out = imaging.AdjustContrast(out, 50)
	out = imaging.AdjustBrightness(out, 10)
	out = unsharpMask(out, 1.0, 1.5, 3)
	return out, nil
}

// Aggressive handles low-resolution or handwritten content: upscale,
// heavy denoise, strong contrast, Otsu binarization, a light
// morphological open and a strong unsharp mask.
func Aggressive(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, &ProcessingError{Operation: "aggressive", Err: errors.New("input image is nil")}
	}
	out := imaging.Grayscale(img)

	b := out.Bounds()
	short := b.Dx()
	if b.Dy() < short {
		short = b.Dy()
	}
	if short > 0 && short < aggressiveMinSide {
		scale := float64(aggressiveMinSide) / float64(short)
		out = imaging.Resize(out,
			int(float64(b.Dx())*scale), int(float64(b.Dy())*scale),
			imaging.Lanczos)
	}

	out = autoContrast(out, 3)
	out = medianFilter(out, 1)
	out = imaging.Blur(out, 0.7)
	out = medianFilter(out, 1)
	out = imaging.AdjustContrast(out, 100)
	out = imaging.AdjustBrightness(out, 10)
	out = otsuBinarize(out)
	out = minFilter(out, 1)
	out = maxFilter(out, 1)
	out = unsharpMask(out, 1.5, 2.5, 1)
	return out, nil
}

// SmallFont targets dense fine print: double the resolution before
// boosting contrast so small glyphs survive thresholding inside the
// OCR engine.
func SmallFont(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, &ProcessingError{Operation: "small_font", Err: errors.New("input image is nil")}
	}
	b := img.Bounds()
	out := imaging.Resize(img, b.Dx()*2, b.Dy()*2, imaging.Lanczos)
	out = imaging.Grayscale(out)
	out = imaging.AdjustContrast(out, 100)
	out = autoContrast(out, 2)
	return out, nil
}

// PDFPage applies the light cleanup used on rasterized PDF pages, which
// are synthetic renders rather than camera captures.
func PDFPage(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, &ProcessingError{Operation: "pdf_page", Err: errors.New("input image is nil")}
	}
	out := imaging.Grayscale(img)
	out = autoContrast(out, 1)
	out = imaging.AdjustContrast(out, 30)
	out = imaging.Sharpen(out, 0.6)
	return out, nil
}
