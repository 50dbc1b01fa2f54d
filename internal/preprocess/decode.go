package preprocess

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"
	"strings"

	// Registered decoders for the accepted raster formats.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// Accepted raster extensions, lowercase without dot.
var rasterExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true,
}

// IsRasterFile reports whether the path looks like a supported image.
func IsRasterFile(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return rasterExtensions[ext]
}

// IsPDFFile reports whether the path looks like a PDF document.
func IsPDFFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// SniffPDF reports whether the raw bytes carry the PDF magic header.
func SniffPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// Decode parses raw image bytes in any of the accepted raster formats.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &ProcessingError{Operation: "decode", Err: errors.New("empty input")}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ProcessingError{Operation: "decode", Err: err}
	}
	return img, nil
}
