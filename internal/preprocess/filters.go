package preprocess

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
)

// autoContrast stretches the intensity histogram so that the given
// percentage of the darkest and brightest pixels saturates, mirroring
// histogram-cutoff contrast normalization.
func autoContrast(img image.Image, cutoffPercent int) *image.NRGBA {
	src := imaging.Clone(img)
	bounds := src.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return src
	}

	var hist [256]int
	for y := range bounds.Dy() {
		for x := range bounds.Dx() {
			i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			hist[src.Pix[i]]++
		}
	}

	cutoff := total * cutoffPercent / 100
	lo, hi := 0, 255
	for acc := 0; lo < 255; lo++ {
		acc += hist[lo]
		if acc > cutoff {
			break
		}
	}
	for acc := 0; hi > 0; hi-- {
		acc += hist[hi]
		if acc > cutoff {
			break
		}
	}
	if hi <= lo {
		return src
	}

	scale := 255.0 / float64(hi-lo)
	var lut [256]uint8
	for v := range 256 {
		s := (float64(v) - float64(lo)) * scale
		if s < 0 {
			s = 0
		} else if s > 255 {
			s = 255
		}
		lut[v] = uint8(s)
	}

	out := imaging.Clone(src)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = lut[out.Pix[i]]
		out.Pix[i+1] = lut[out.Pix[i+1]]
		out.Pix[i+2] = lut[out.Pix[i+2]]
	}
	return out
}

// medianFilter replaces each pixel with the median of its
// (2*radius+1)^2 neighborhood. Operates on the red channel and copies
// it across channels, so callers should grayscale first.
func medianFilter(img image.Image, radius int) *image.NRGBA {
	src := imaging.Clone(img)
	if radius < 1 {
		return src
	}
	return neighborhoodFilter(src, radius, func(window []uint8) uint8 {
		sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
		return window[len(window)/2]
	})
}

// minFilter erodes bright regions, the first half of a morphological open.
func minFilter(img image.Image, radius int) *image.NRGBA {
	src := imaging.Clone(img)
	if radius < 1 {
		return src
	}
	return neighborhoodFilter(src, radius, func(window []uint8) uint8 {
		m := window[0]
		for _, v := range window[1:] {
			if v < m {
				m = v
			}
		}
		return m
	})
}

// maxFilter dilates bright regions, the second half of a morphological open.
func maxFilter(img image.Image, radius int) *image.NRGBA {
	src := imaging.Clone(img)
	if radius < 1 {
		return src
	}
	return neighborhoodFilter(src, radius, func(window []uint8) uint8 {
		m := window[0]
		for _, v := range window[1:] {
			if v > m {
				m = v
			}
		}
		return m
	})
}

func neighborhoodFilter(src *image.NRGBA, radius int, reduce func([]uint8) uint8) *image.NRGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := imaging.Clone(src)
	window := make([]uint8, 0, (2*radius+1)*(2*radius+1))

	for y := range h {
		for x := range w {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					window = append(window, src.Pix[src.PixOffset(bounds.Min.X+nx, bounds.Min.Y+ny)])
				}
			}
			v := reduce(window)
			i := out.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			out.Pix[i] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
		}
	}
	return out
}

// otsuBinarize thresholds a grayscale image at the intensity that
// maximizes between-class variance.
func otsuBinarize(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	bounds := src.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return src
	}

	var hist [256]int
	for y := range bounds.Dy() {
		for x := range bounds.Dx() {
			hist[src.Pix[src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)]]++
		}
	}

	var sum float64
	for v, c := range hist {
		sum += float64(v) * float64(c)
	}

	var sumB, wB float64
	var best float64
	threshold := 127
	for v := range 256 {
		wB += float64(hist[v])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(v) * float64(hist[v])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = v
		}
	}

	return thresholdImage(src, uint8(threshold))
}

func thresholdImage(src *image.NRGBA, threshold uint8) *image.NRGBA {
	out := imaging.Clone(src)
	for i := 0; i < len(out.Pix); i += 4 {
		v := uint8(0)
		if out.Pix[i] > threshold {
			v = 255
		}
		out.Pix[i] = v
		out.Pix[i+1] = v
		out.Pix[i+2] = v
	}
	return out
}

// unsharpMask sharpens by subtracting a blurred copy: amount scales the
// difference, threshold suppresses noise amplification on near-flat
// regions.
func unsharpMask(img image.Image, sigma, amount float64, threshold int) *image.NRGBA {
	src := imaging.Clone(img)
	blurred := imaging.Blur(src, sigma)
	out := imaging.Clone(src)

	for i := 0; i < len(out.Pix); i += 4 {
		for c := range 3 {
			orig := int(src.Pix[i+c])
			blur := int(blurred.Pix[i+c])
			diff := orig - blur
			if diff < threshold && diff > -threshold {
				continue
			}
			v := orig + int(amount*float64(diff))
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			out.Pix[i+c] = uint8(v)
		}
	}
	return out
}

// grayAt returns the intensity of a pixel for images that may not be
// NRGBA backed.
func grayAt(img image.Image, x, y int) uint8 {
	c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
	return c.Y
}
