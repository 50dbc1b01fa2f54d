package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatImage builds a w x h image filled with a single intensity.
func flatImage(w, h int, v uint8) *image.NRGBA {
	return imaging.New(w, h, color.NRGBA{v, v, v, 255})
}

// contrastImage builds an image whose left half is dark and right half
// is bright, giving a wide intensity span.
func contrastImage(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{20, 20, 20, 255})
	for y := range h {
		for x := w / 2; x < w; x++ {
			img.Set(x, y, color.NRGBA{235, 235, 235, 255})
		}
	}
	return img
}

func TestApply_ReturnsNewImage(t *testing.T) {
	src := contrastImage(64, 64)
	tiers := []Tier{TierBasic, TierEnhanced, TierAggressive, TierSmallFont, TierPDFPage}
	for _, tier := range tiers {
		t.Run(string(tier), func(t *testing.T) {
			out := Apply(src, tier)
			require.NotNil(t, out)
			// Source must never be mutated.
			assert.Equal(t, uint8(20), src.Pix[0])
		})
	}
}

func TestApply_UnknownTierFallsBackToOriginal(t *testing.T) {
	src := flatImage(8, 8, 128)
	out := Apply(src, Tier("mystery"))
	assert.Equal(t, src, out)
}

func TestApply_NilImage(t *testing.T) {
	assert.Nil(t, Apply(nil, TierBasic))
}

func TestBasic_Grayscales(t *testing.T) {
	img := imaging.New(16, 16, color.NRGBA{200, 40, 40, 255})
	out, err := Basic(img)
	require.NoError(t, err)

	nrgba := imaging.Clone(out)
	assert.Equal(t, nrgba.Pix[0], nrgba.Pix[1])
	assert.Equal(t, nrgba.Pix[1], nrgba.Pix[2])
}

func TestSmallFont_DoublesResolution(t *testing.T) {
	out, err := SmallFont(flatImage(40, 30, 128))
	require.NoError(t, err)
	assert.Equal(t, 80, out.Bounds().Dx())
	assert.Equal(t, 60, out.Bounds().Dy())
}

func TestAggressive_UpscalesSmallImages(t *testing.T) {
	out, err := Aggressive(contrastImage(100, 80))
	require.NoError(t, err)
	short := out.Bounds().Dx()
	if out.Bounds().Dy() < short {
		short = out.Bounds().Dy()
	}
	assert.GreaterOrEqual(t, short, aggressiveMinSide)
}

func TestAggressive_Binarizes(t *testing.T) {
	out, err := Aggressive(contrastImage(1600, 1600))
	require.NoError(t, err)

	nrgba := imaging.Clone(out)
	for i := 0; i < len(nrgba.Pix); i += 4 * 97 {
		v := nrgba.Pix[i]
		// Sharpening after binarization can nudge values slightly off
		// the rails, but the mass should sit near the extremes.
		assert.True(t, v < 96 || v > 160, "pixel %d not near binary: %d", i, v)
	}
}

func TestOtsuBinarize(t *testing.T) {
	out := otsuBinarize(contrastImage(64, 64))
	seen := map[uint8]bool{}
	for i := 0; i < len(out.Pix); i += 4 {
		seen[out.Pix[i]] = true
	}
	assert.Equal(t, map[uint8]bool{0: true, 255: true}, seen)
}

func TestAutoContrast_StretchesSpan(t *testing.T) {
	img := imaging.New(64, 64, color.NRGBA{100, 100, 100, 255})
	for y := range 64 {
		for x := 32; x < 64; x++ {
			img.Set(x, y, color.NRGBA{160, 160, 160, 255})
		}
	}
	out := autoContrast(img, 2)

	minV, maxV := uint8(255), uint8(0)
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] < minV {
			minV = out.Pix[i]
		}
		if out.Pix[i] > maxV {
			maxV = out.Pix[i]
		}
	}
	assert.Greater(t, int(maxV)-int(minV), 60)
}

func TestMedianFilter_RemovesSaltNoise(t *testing.T) {
	img := flatImage(32, 32, 0)
	img.Set(16, 16, color.NRGBA{255, 255, 255, 255})

	out := medianFilter(img, 1)
	assert.Equal(t, uint8(0), out.Pix[out.PixOffset(16, 16)])
}

func TestAssessTier(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want Tier
	}{
		{"tiny image is aggressive", contrastImage(400, 400), TierAggressive},
		{"sub-megapixel is enhanced", contrastImage(900, 900), TierEnhanced},
		{"sub-megapixel flat contrast stays enhanced", flatImage(900, 900, 128), TierEnhanced},
		{"flat contrast is aggressive", flatImage(1200, 1200, 128), TierAggressive},
		{"large high-contrast is basic", contrastImage(1200, 1200), TierBasic},
		{"nil image is enhanced", nil, TierEnhanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssessTier(tt.img))
		})
	}
}

func TestAssessTier_NarrowSpanIsEnhanced(t *testing.T) {
	img := imaging.New(1200, 1200, color.NRGBA{100, 100, 100, 255})
	for y := range 1200 {
		for x := 600; x < 1200; x++ {
			img.Set(x, y, color.NRGBA{170, 170, 170, 255})
		}
	}
	assert.Equal(t, TierEnhanced, AssessTier(img))
}

func TestAssessPDF(t *testing.T) {
	assert.Equal(t, PDFUltra, AssessPDF(100*1024))
	assert.Equal(t, PDFHigh, AssessPDF(1024*1024))
	assert.Equal(t, PDFStandard, AssessPDF(5*1024*1024))
	assert.Equal(t, PDFHigh, AssessPDF(0))
}

func TestPDFTierDPI(t *testing.T) {
	assert.Equal(t, 600, PDFUltra.DPI())
	assert.Equal(t, 450, PDFHigh.DPI())
	assert.Equal(t, 300, PDFStandard.DPI())
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, flatImage(10, 10, 50)))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	require.Error(t, err)

	var perr *ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "decode", perr.Operation)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)
}

func TestSniffPDF(t *testing.T) {
	assert.True(t, SniffPDF([]byte("%PDF-1.7 ...")))
	assert.False(t, SniffPDF([]byte("PNG stuff")))
}

func TestFileKindHelpers(t *testing.T) {
	assert.True(t, IsRasterFile("scan.PNG"))
	assert.True(t, IsRasterFile("memo.tiff"))
	assert.False(t, IsRasterFile("form.pdf"))
	assert.True(t, IsPDFFile("form.pdf"))
	assert.False(t, IsPDFFile("scan.jpg"))
}
