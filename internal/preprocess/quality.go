package preprocess

import (
	"image"
	"log/slog"
)

// Quality triage thresholds. Resolution below half a megapixel or a
// very narrow intensity spread both indicate a capture that standard
// OCR settings cannot read.
const (
	lowResolutionPixels = 500_000
	midResolutionPixels = 1_000_000
	lowContrastSpan     = 50
	midContrastSpan     = 100
)

// AssessTier inspects resolution and contrast and picks the
// preprocessing tier. Assessment is a heuristic triage: any failure
// falls back to the middle tier instead of erroring.
func AssessTier(img image.Image) Tier {
	if img == nil {
		return TierEnhanced
	}

	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels <= 0 {
		return TierEnhanced
	}
	if pixels < lowResolutionPixels {
		return TierAggressive
	}
	// Mid-resolution captures get the enhanced tier regardless of
	// contrast; the span rules only grade images above a megapixel.
	if pixels < midResolutionPixels {
		return TierEnhanced
	}

	span := contrastSpan(img)
	switch {
	case span < lowContrastSpan:
		return TierAggressive
	case span < midContrastSpan:
		return TierEnhanced
	default:
		return TierBasic
	}
}

// contrastSpan measures the spread between the darkest and brightest
// intensities, sampling every few pixels on large images.
func contrastSpan(img image.Image) int {
	bounds := img.Bounds()
	step := 1
	if bounds.Dx()*bounds.Dy() > 4_000_000 {
		step = 4
	}

	minV, maxV := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			v := grayAt(img, x, y)
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	if maxV < minV {
		return 0
	}
	return int(maxV) - int(minV)
}

// PDFTier selects the rasterization intensity for a PDF document.
type PDFTier string

const (
	PDFStandard PDFTier = "standard"
	PDFHigh     PDFTier = "high"
	PDFUltra    PDFTier = "ultra"
)

// PDF size thresholds: small files are usually low-resolution scans
// that need the densest rasterization.
const (
	pdfSmallBytes  = 500 * 1024
	pdfMediumBytes = 2 * 1024 * 1024
)

// DPI returns the rasterization density for the tier.
func (t PDFTier) DPI() int {
	switch t {
	case PDFUltra:
		return 600
	case PDFHigh:
		return 450
	default:
		return 300
	}
}

// AssessPDF picks the rasterization tier from the document's file size.
func AssessPDF(sizeBytes int64) PDFTier {
	switch {
	case sizeBytes <= 0:
		slog.Debug("pdf size unknown, using high rasterization tier")
		return PDFHigh
	case sizeBytes < pdfSmallBytes:
		return PDFUltra
	case sizeBytes < pdfMediumBytes:
		return PDFHigh
	default:
		return PDFStandard
	}
}
