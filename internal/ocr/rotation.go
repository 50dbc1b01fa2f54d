package ocr

import (
	"context"
	"image"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
)

// Rotation scoring weights. Keywords dominate: a pass that reads the
// document vocabulary is almost certainly upright.
const (
	rotationLengthWeight   = 0.3
	rotationKeywordWeight  = 100.0
	rotationReadableWeight = 200.0
)

// RotationResult describes the orientation chosen for a document.
type RotationResult struct {
	Angle    int
	Image    image.Image
	Text     string
	Score    float64
	Keywords int
}

// DetectRotation tests the image at 0/90/180/270 degrees with a cheap
// OCR pass and keeps the best-scoring orientation. Ties favor the
// earlier angle, so an ambiguous document stays unrotated. Angles whose
// pass fails are skipped; if every pass fails the original image is
// returned with a zero score.
func DetectRotation(ctx context.Context, engine Engine, img image.Image) RotationResult {
	best := RotationResult{Angle: 0, Image: img}
	found := false

	for _, angle := range []int{0, 90, 180, 270} {
		rotated := rotate(img, angle)

		text, err := engine.Recognize(ctx, rotated, Options{PSM: PSMSingleBlock})
		if err != nil {
			slog.Warn("rotation test pass failed", "angle", angle, "error", err)
			continue
		}

		length := len(strings.TrimSpace(text))
		keywords := CountKeywords(text)
		score := float64(length)*rotationLengthWeight +
			float64(keywords)*rotationKeywordWeight +
			readableRatio(text)*rotationReadableWeight

		slog.Debug("rotation candidate",
			"angle", angle, "chars", length, "keywords", keywords, "score", score)

		if !found || score > best.Score {
			found = true
			best = RotationResult{
				Angle:    angle,
				Image:    rotated,
				Text:     text,
				Score:    score,
				Keywords: keywords,
			}
		}
	}

	if !found {
		slog.Warn("no rotation pass succeeded, keeping original orientation")
	}
	return best
}

func rotate(img image.Image, angle int) image.Image {
	switch angle {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
