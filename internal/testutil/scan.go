package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ScanConfig describes a synthetic document scan.
type ScanConfig struct {
	Lines      []string
	Width      int
	Height     int
	Background color.Color
	Foreground color.Color
	Rotation   float64 // degrees, counterclockwise
	Noisy      bool
}

// DefaultScanConfig returns a clean A4-ish portrait scan.
func DefaultScanConfig(lines ...string) ScanConfig {
	return ScanConfig{
		Lines:      lines,
		Width:      620,
		Height:     877,
		Background: color.White,
		Foreground: color.Black,
	}
}

// GenerateScan renders the configured text lines onto a synthetic scan.
// Lines are left-aligned with a page margin, like a printed certificate.
func GenerateScan(config ScanConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, config.Width, config.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{config.Background}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{config.Foreground},
		Face: face,
	}

	const margin = 40
	lineHeight := face.Metrics().Height.Ceil() * 2
	for i, line := range config.Lines {
		drawer.Dot = fixed.P(margin, margin+(i+1)*lineHeight)
		drawer.DrawString(line)
	}

	if config.Noisy {
		addScanNoise(img)
	}

	if config.Rotation != 0 {
		rotated := imaging.Rotate(img, config.Rotation, color.White)
		rgba := image.NewRGBA(rotated.Bounds())
		draw.Draw(rgba, rgba.Bounds(), rotated, rotated.Bounds().Min, draw.Src)
		return rgba
	}

	return img
}

// EncodeScanPNG renders a scan and returns the PNG bytes, ready to feed
// into the verification pipeline or an upload request body.
func EncodeScanPNG(config ScanConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, GenerateScan(config)); err != nil {
		return nil, fmt.Errorf("failed to encode scan: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteScan renders a scan with the given text lines to path.
func WriteScan(t *testing.T, path string, lines ...string) {
	t.Helper()

	require.NoError(t, EnsureDir(filepath.Dir(path)))

	data, err := EncodeScanPNG(DefaultScanConfig(lines...))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

// addScanNoise flips scattered pixels to imitate scanner dust.
func addScanNoise(img *image.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 13 {
		for x := bounds.Min.X + (y/13)%7; x < bounds.Max.X; x += 41 {
			img.Set(x, y, color.Gray{Y: 96})
		}
	}
}
