package ocr

import (
	"context"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/normalize"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/preprocess"
)

// Escalation ladder stop conditions. The ladder trades speed for
// robustness: a pass that already reads the document stops escalation.
const (
	fastPathMinLength    = 100
	fastPathMinKeywords  = 3
	excellentMinLength   = 500
	excellentMinKeywords = 5
	mediumMinLength      = 200
	mediumMinKeywords    = 4

	enhancedLengthFactor  = 1.2
	smallFontLengthFactor = 1.3

	// Vision text wins outright only when clearly better than local OCR.
	visionConfidenceFactor = 1.2
)

// VisionResult is the outcome of a vision-model extraction.
type VisionResult struct {
	Text       string
	Confidence float64
	Fields     map[string]string
}

// VisionClient is the optional external vision-model collaborator. Its
// absence or failure must never break extraction, only downgrade it.
type VisionClient interface {
	Extract(ctx context.Context, img image.Image) (VisionResult, error)
}

// Config controls the extraction ladder.
type Config struct {
	// PassTimeout bounds each engine or vision call.
	PassTimeout time.Duration `mapstructure:"pass_timeout" yaml:"pass_timeout" json:"pass_timeout"`
	// RotationEnabled turns the four-angle orientation test on.
	RotationEnabled bool `mapstructure:"rotation_enabled" yaml:"rotation_enabled" json:"rotation_enabled"`
	// VisionEnabled turns the hybrid vision-model path on.
	VisionEnabled bool `mapstructure:"vision_enabled" yaml:"vision_enabled" json:"vision_enabled"`
}

// DefaultConfig returns the default extraction settings.
func DefaultConfig() Config {
	return Config{
		PassTimeout:     30 * time.Second,
		RotationEnabled: true,
		VisionEnabled:   false,
	}
}

// Result is one extraction outcome.
type Result struct {
	Text       string
	Method     string
	Confidence float64
	Angle      int
	Fields     map[string]string
}

// Extractor runs the escalation ladder over document images.
type Extractor struct {
	engine Engine
	vision VisionClient
	config Config
}

// NewExtractor builds an extractor. vision may be nil.
func NewExtractor(engine Engine, vision VisionClient, config Config) *Extractor {
	if config.PassTimeout <= 0 {
		config.PassTimeout = DefaultConfig().PassTimeout
	}
	return &Extractor{engine: engine, vision: vision, config: config}
}

// ExtractImage runs rotation correction, the optional vision hybrid
// path and the OCR escalation ladder over one raster image. It never
// returns an error for per-stage failures: a stage that fails
// contributes an empty result and the ladder moves on. The returned
// text is normalized and may be empty only when every stage failed.
func (x *Extractor) ExtractImage(ctx context.Context, img image.Image) Result {
	if img == nil {
		return Result{}
	}

	angle := 0
	if x.config.RotationEnabled {
		rctx, cancel := context.WithTimeout(ctx, 4*x.config.PassTimeout)
		rot := DetectRotation(rctx, x.engine, img)
		cancel()
		img = rot.Image
		angle = rot.Angle
	}

	if x.config.VisionEnabled && x.vision != nil {
		if res, ok := x.tryVision(ctx, img); ok {
			res.Angle = angle
			return res
		}
	}

	res := x.runLadder(ctx, img)
	res.Angle = angle
	return res
}

// ExtractPDFPage runs the light page cleanup over a rasterized PDF
// page before the regular ladder. Rendered pages are synthetic rather
// than camera captures, so they get the pdf_page pass instead of the
// photo-oriented triage.
func (x *Extractor) ExtractPDFPage(ctx context.Context, page image.Image) Result {
	if page == nil {
		return Result{}
	}
	return x.ExtractImage(ctx, preprocess.Apply(page, preprocess.TierPDFPage))
}

// tryVision attempts the hybrid vision path: vision text wins outright
// when clearly more confident than the local standard pass, otherwise
// the two are merged.
func (x *Extractor) tryVision(ctx context.Context, img image.Image) (Result, bool) {
	vctx, cancel := context.WithTimeout(ctx, x.config.PassTimeout)
	defer cancel()

	vres, err := x.vision.Extract(vctx, img)
	if err != nil || strings.TrimSpace(vres.Text) == "" {
		if err != nil {
			slog.Warn("vision extraction failed, falling back to local OCR", "error", err)
		}
		return Result{}, false
	}

	visionText := normalize.Normalize(vres.Text)
	visionConf := vres.Confidence
	if visionConf <= 0 {
		visionConf = TextConfidence(visionText)
	}

	localText := x.pass(ctx, img, preprocess.TierBasic, DefaultOptions(), "standard")
	localConf := TextConfidence(localText)

	if visionConf > localConf*visionConfidenceFactor {
		return Result{Text: visionText, Method: "vision", Confidence: visionConf, Fields: vres.Fields}, true
	}

	combined := combineTexts(localText, visionText)
	conf := localConf
	if visionConf > conf {
		conf = visionConf
	}
	return Result{Text: combined, Method: "hybrid", Confidence: conf, Fields: vres.Fields}, true
}

// runLadder is the escalation state machine: standard, enhanced with a
// character whitelist, then a dedicated small-font pass, each guarded
// by its stop condition.
func (x *Extractor) runLadder(ctx context.Context, img image.Image) Result {
	tier := preprocess.AssessTier(img)
	if tier == preprocess.TierAggressive {
		// The standard pass still starts from the basic tier; the
		// assessment only signals that escalation is likely.
		slog.Debug("quality triage suggests aggressive preprocessing")
	}

	standard := x.pass(ctx, img, preprocess.TierBasic, DefaultOptions(), "standard")
	stdKeywords := CountKeywords(standard)
	stdLength := len(strings.TrimSpace(standard))

	slog.Debug("standard pass", "chars", stdLength, "keywords", stdKeywords)

	if stdLength > fastPathMinLength && stdKeywords >= fastPathMinKeywords {
		return Result{Text: standard, Method: "ocr_standard", Confidence: TextConfidence(standard)}
	}
	if stdLength > excellentMinLength && stdKeywords >= excellentMinKeywords {
		return Result{Text: standard, Method: "ocr_standard", Confidence: TextConfidence(standard)}
	}

	enhanced := x.pass(ctx, img, preprocess.TierEnhanced,
		Options{PSM: PSMSingleBlock, Whitelist: WhitelistEnhanced}, "enhanced")
	enhKeywords := CountKeywords(enhanced)
	enhLength := len(strings.TrimSpace(enhanced))

	slog.Debug("enhanced pass", "chars", enhLength, "keywords", enhKeywords)

	best, bestKeywords := standard, stdKeywords
	if enhKeywords > stdKeywords || float64(enhLength) > float64(stdLength)*enhancedLengthFactor {
		best, bestKeywords = enhanced, enhKeywords
	}

	if len(strings.TrimSpace(best)) > mediumMinLength && bestKeywords >= mediumMinKeywords {
		return Result{Text: best, Method: "ocr_enhanced", Confidence: TextConfidence(best)}
	}

	smallFont := x.pass(ctx, img, preprocess.TierSmallFont,
		Options{PSM: PSMSingleBlock, Whitelist: WhitelistEnhanced}, "small_font")
	sfKeywords := CountKeywords(smallFont)

	slog.Debug("small font pass", "chars", len(smallFont), "keywords", sfKeywords)

	if sfKeywords > bestKeywords ||
		float64(len(strings.TrimSpace(smallFont))) > float64(len(strings.TrimSpace(best)))*smallFontLengthFactor {
		best = smallFont
	}

	return Result{Text: best, Method: "ocr_ladder", Confidence: TextConfidence(best)}
}

// pass runs one preprocess-then-recognize step, normalizing the output.
// Failures downgrade to an empty result.
func (x *Extractor) pass(ctx context.Context, img image.Image, tier preprocess.Tier, opts Options, stage string) string {
	pctx, cancel := context.WithTimeout(ctx, x.config.PassTimeout)
	defer cancel()

	prepared := preprocess.Apply(img, tier)
	text, err := x.engine.Recognize(pctx, prepared, opts)
	if err != nil {
		slog.Warn("ocr pass failed", "stage", stage, "error", err)
		return ""
	}
	return normalize.Normalize(text)
}

// combineTexts merges the vision text with local OCR: the vision text
// is the base, extended with any important keywords only the local
// pass recovered.
func combineTexts(local, visionText string) string {
	base := visionText
	if len(strings.TrimSpace(local)) > len(strings.TrimSpace(base)) {
		base = local
	}

	other := visionText
	if base == visionText {
		other = local
	}

	lowerBase := strings.ToLower(base)
	lowerOther := strings.ToLower(other)
	var missing []string
	for _, kw := range importantKeywords {
		lkw := strings.ToLower(kw)
		if !strings.Contains(lowerBase, lkw) && strings.Contains(lowerOther, lkw) {
			missing = append(missing, kw)
		}
	}
	if len(missing) > 0 {
		base += " " + strings.Join(missing, " ")
	}
	return base
}

// ExtractUpperRightDate reads the top-right corner of the document with
// a digits-only pass, where attendance forms carry their issue date.
func (x *Extractor) ExtractUpperRightDate(ctx context.Context, img image.Image) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	region := imaging.Crop(img, image.Rect(
		b.Min.X+b.Dx()*6/10, b.Min.Y,
		b.Max.X, b.Min.Y+b.Dy()/4,
	))

	text := x.pass(ctx, region, preprocess.TierBasic,
		Options{PSM: PSMSingleBlock, Whitelist: WhitelistDate}, "upper_right_date")
	return strings.TrimSpace(text)
}
