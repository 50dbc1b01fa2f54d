// Package pdfconv converts PDF documents into per-page raster images
// for OCR. The primary path extracts embedded page images with pdfcpu,
// which covers scanned documents; rendering falls back to pdftoppm when
// a page carries no extractable image.
package pdfconv

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/preprocess"
)

// Fallback rasterization densities tried in order when the tier-chosen
// DPI produces nothing.
var fallbackDPIs = []int{200, 300, 450}

// Config controls PDF conversion.
type Config struct {
	// Workers bounds the per-page processing fan-out.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
	// PdftoppmPath overrides the rasterizer binary lookup.
	PdftoppmPath string `mapstructure:"pdftoppm_path" yaml:"pdftoppm_path" json:"pdftoppm_path"`
}

// DefaultConfig returns the default conversion settings.
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// Converter turns PDF bytes into page images.
type Converter struct {
	config Config
}

// NewConverter builds a converter.
func NewConverter(config Config) *Converter {
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	return &Converter{config: config}
}

// tempSet tracks the temporary paths created by one Rasterize call.
// The converter is shared by concurrent verifications, so tracking is
// call-scoped: one call's cleanup must never touch another call's
// in-flight files.
type tempSet struct {
	paths []string
}

// add registers a path for unconditional cleanup.
func (s *tempSet) add(path string) {
	s.paths = append(s.paths, path)
}

// cleanup removes every tracked path, success or failure.
func (s *tempSet) cleanup() {
	for _, p := range s.paths {
		if err := os.RemoveAll(p); err != nil {
			slog.Warn("failed to remove temporary file", "path", p, "error", err)
		}
	}
	s.paths = nil
}

// Rasterize converts the PDF into one image per page, ordered by page
// number. The rasterization density comes from the size-based quality
// tier; an empty result from the chosen density walks the fallback
// ladder. Temporary files are removed on every exit path.
func (c *Converter) Rasterize(ctx context.Context, data []byte) ([]image.Image, error) {
	temps := &tempSet{}
	defer temps.cleanup()

	if len(data) == 0 {
		return nil, errors.New("pdfconv: empty document")
	}

	pdfPath, err := writeTempPDF(temps, data)
	if err != nil {
		return nil, err
	}

	tier := preprocess.AssessPDF(int64(len(data)))
	slog.Debug("rasterizing pdf", "tier", tier, "dpi", tier.DPI(), "bytes", len(data))

	if pages, err := c.extractEmbedded(temps, pdfPath); err == nil && len(pages) > 0 {
		return pages, nil
	} else if err != nil {
		slog.Debug("embedded image extraction failed, rendering instead", "error", err)
	}

	pages, err := c.render(ctx, temps, pdfPath, tier.DPI())
	if err == nil && len(pages) > 0 {
		return pages, nil
	}
	if err != nil {
		slog.Warn("rasterization failed at assessed density", "dpi", tier.DPI(), "error", err)
	}

	for _, dpi := range fallbackDPIs {
		if dpi == tier.DPI() {
			continue
		}
		pages, err = c.render(ctx, temps, pdfPath, dpi)
		if err == nil && len(pages) > 0 {
			slog.Info("fallback rasterization succeeded", "dpi", dpi)
			return pages, nil
		}
	}

	return nil, fmt.Errorf("pdfconv: no pages could be rasterized")
}

// Process rasterizes the PDF and runs fn over every page on a bounded
// worker pool, joining page texts with a blank line in page order.
func (c *Converter) Process(ctx context.Context, data []byte,
	fn func(ctx context.Context, page image.Image, pageNum int) (string, error),
) (string, error) {
	pages, err := c.Rasterize(ctx, data)
	if err != nil {
		return "", err
	}
	return c.ProcessPages(ctx, pages, fn)
}

// ProcessPages runs fn over the given pages on a bounded worker pool.
// Pages that fail are dropped; surviving texts keep page order.
func (c *Converter) ProcessPages(ctx context.Context, pages []image.Image,
	fn func(ctx context.Context, page image.Image, pageNum int) (string, error),
) (string, error) {
	texts := make([]string, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Workers)

	for i, page := range pages {
		g.Go(func() error {
			text, err := fn(gctx, page, i+1)
			if err != nil {
				// A failed page contributes nothing; the document is
				// still judged on the pages that worked.
				slog.Warn("page processing failed", "page", i+1, "error", err)
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var nonEmpty []string
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	return strings.Join(nonEmpty, "\n\n"), nil
}

func writeTempPDF(temps *tempSet, data []byte) (string, error) {
	f, err := os.CreateTemp("", "scholardoc-*.pdf")
	if err != nil {
		return "", fmt.Errorf("pdfconv: create temp pdf: %w", err)
	}
	temps.add(f.Name())

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("pdfconv: write temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("pdfconv: close temp pdf: %w", err)
	}
	return f.Name(), nil
}

// extractEmbedded pulls page images out of the PDF with pdfcpu. Scanned
// documents embed one full-page image per page, so this is both faster
// and more faithful than re-rendering.
func (c *Converter) extractEmbedded(temps *tempSet, pdfPath string) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "scholardoc-extract-*")
	if err != nil {
		return nil, fmt.Errorf("pdfconv: create extract dir: %w", err)
	}
	temps.add(tempDir)

	if err := api.ExtractImagesFile(pdfPath, tempDir, nil, nil); err != nil {
		return nil, fmt.Errorf("pdfconv: extract images: %w", err)
	}

	byPage := map[int]image.Image{}
	err = filepath.Walk(tempDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		pageNum, perr := parsePageFromFilename(info.Name())
		if perr != nil {
			return nil
		}
		img, lerr := loadImageFile(path)
		if lerr != nil || img == nil {
			return nil
		}
		// Keep the largest image per page; smaller ones are logos or
		// stamps.
		if prev, ok := byPage[pageNum]; !ok || area(img) > area(prev) {
			byPage[pageNum] = img
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return orderedPages(byPage), nil
}

// render shells out to pdftoppm at the given density.
func (c *Converter) render(ctx context.Context, temps *tempSet, pdfPath string, dpi int) ([]image.Image, error) {
	binary := c.config.PdftoppmPath
	if binary == "" {
		binary = "pdftoppm"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("pdfconv: rasterizer unavailable: %w", err)
	}

	outDir, err := os.MkdirTemp("", "scholardoc-render-*")
	if err != nil {
		return nil, fmt.Errorf("pdfconv: create render dir: %w", err)
	}
	temps.add(outDir)

	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx, binary, "-png", "-r", strconv.Itoa(dpi), pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdfconv: pdftoppm: %w: %s", err, strings.TrimSpace(string(out)))
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, err
	}

	byPage := map[int]image.Image{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		// pdftoppm names files page-1.png, page-2.png, ...
		base := strings.TrimSuffix(strings.TrimPrefix(entry.Name(), "page-"), ".png")
		pageNum, perr := strconv.Atoi(base)
		if perr != nil {
			continue
		}
		img, lerr := loadImageFile(filepath.Join(outDir, entry.Name()))
		if lerr != nil {
			continue
		}
		byPage[pageNum] = img
	}

	return orderedPages(byPage), nil
}

// parsePageFromFilename reads the page number out of pdfcpu's
// page_<num>_image_<idx>.<ext> naming.
func parsePageFromFilename(filename string) (int, error) {
	if !strings.HasPrefix(filename, "page_") {
		return 0, errors.New("not a page file")
	}
	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return 0, errors.New("invalid filename format")
	}
	return strconv.Atoi(parts[1])
}

func loadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // reading our own temp files
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}

func area(img image.Image) int {
	b := img.Bounds()
	return b.Dx() * b.Dy()
}

func orderedPages(byPage map[int]image.Image) []image.Image {
	nums := make([]int, 0, len(byPage))
	for n := range byPage {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	pages := make([]image.Image, 0, len(nums))
	for _, n := range nums {
		pages = append(pages, byPage[n])
	}
	return pages
}
