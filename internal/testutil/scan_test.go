package testutil

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/document"
)

func TestGenerateScanRendersInk(t *testing.T) {
	config := DefaultScanConfig(SampleLines(document.Aadhaar)...)
	img := GenerateScan(config)

	require.Equal(t, config.Width, img.Bounds().Dx())
	require.Equal(t, config.Height, img.Bounds().Dy())

	dark := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if c := color.GrayModel.Convert(img.At(x, y)).(color.Gray); c.Y < 128 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "rendered text should leave dark pixels")
}

func TestGenerateScanRotationChangesBounds(t *testing.T) {
	config := DefaultScanConfig("TRANSFER CERTIFICATE")
	config.Rotation = 90

	img := GenerateScan(config)
	assert.Equal(t, config.Height, img.Bounds().Dx())
	assert.Equal(t, config.Width, img.Bounds().Dy())
}

func TestEncodeScanPNG(t *testing.T) {
	data, err := EncodeScanPNG(DefaultScanConfig("INCOME CERTIFICATE"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 620, img.Bounds().Dx())
}

func TestWriteScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans", "aadhaar.png")
	WriteScan(t, path, SampleLines(document.Aadhaar)...)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestSampleLinesCoverEveryType(t *testing.T) {
	for _, docType := range document.Types {
		assert.NotEmpty(t, SampleLines(docType), "no sample for %s", docType)
	}
	assert.Nil(t, SampleLines(document.Type("voter_id")))
}

func TestSampleTextJoinsLines(t *testing.T) {
	text := SampleText(document.BankPassbook)
	assert.Contains(t, text, "STATE BANK OF INDIA\n")
	assert.Contains(t, text, SampleStudent.Name)
}
