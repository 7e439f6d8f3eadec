package ocr

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultTargetWidth is the width of the canonical raster handed to OCR.
const DefaultTargetWidth = 800

// maxSurfaceSide bounds either side of the canonical raster. Extreme aspect
// ratios beyond it are rejected instead of allocated.
const maxSurfaceSide = 32767

// PreprocessOptions controls the canonical raster produced by Preprocess.
// Percentages follow CSS filter functions: 100 is the identity for contrast
// and brightness, 0 is the identity for grayscale. A zero Filter resamples
// with nearest neighbor.
type PreprocessOptions struct {
	TargetWidth   int
	GrayscalePct  float64
	ContrastPct   float64
	BrightnessPct float64
	Filter        imaging.ResampleFilter
}

// DefaultPreprocessOptions returns grayscale 100%, contrast 200%,
// brightness 115% at 800px wide.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		TargetWidth:   DefaultTargetWidth,
		GrayscalePct:  100,
		ContrastPct:   200,
		BrightnessPct: 115,
		Filter:        imaging.Lanczos,
	}
}

// ResampleFilterByName resolves a filter name from configuration. Unknown
// names fall back to Lanczos.
func ResampleFilterByName(name string) imaging.ResampleFilter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest", "nearestneighbor":
		return imaging.NearestNeighbor
	case "box":
		return imaging.Box
	case "linear", "bilinear":
		return imaging.Linear
	case "catmullrom", "bicubic":
		return imaging.CatmullRom
	default:
		return imaging.Lanczos
	}
}

// TargetSize computes the canonical raster dimensions for a w x h source.
// The single scale factor targetWidth/w is applied to both axes.
func TargetSize(w, h, targetWidth int) (int, int) {
	if targetWidth <= 0 {
		targetWidth = DefaultTargetWidth
	}
	th := int(math.Round(float64(targetWidth) * float64(h) / float64(w)))
	if th < 1 {
		th = 1
	}
	return targetWidth, th
}

// Preprocess resizes img to the target width and applies the grayscale,
// contrast and brightness transforms in that order. The input is never
// modified; a new raster is returned.
func Preprocess(img image.Image, opts PreprocessOptions) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrPreprocess)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrPreprocess, b.Dx(), b.Dy())
	}
	tw, th := TargetSize(b.Dx(), b.Dy(), opts.TargetWidth)
	if tw > maxSurfaceSide || th > maxSurfaceSide {
		return nil, fmt.Errorf("%w: surface %dx%d exceeds %d", ErrPreprocess, tw, th, maxSurfaceSide)
	}
	resized := imaging.Resize(img, tw, th, opts.Filter)
	if resized == nil || resized.Bounds().Dx() != tw || resized.Bounds().Dy() != th {
		return nil, fmt.Errorf("%w: could not allocate %dx%d surface", ErrPreprocess, tw, th)
	}
	return imaging.AdjustFunc(resized, colorFilter(opts)), nil
}

// colorFilter builds the per-pixel transform. It only looks at the pixel's
// own value so it can run in parallel over the raster.
func colorFilter(opts PreprocessOptions) func(color.NRGBA) color.NRGBA {
	gray := clamp01(opts.GrayscalePct / 100)
	contrast := math.Max(0, opts.ContrastPct/100)
	brightness := math.Max(0, opts.BrightnessPct/100)

	// Rec.709 grayscale matrix, interpolated by amount.
	m := [9]float64{
		0.2126 + 0.7874*(1-gray), 0.7152 - 0.7152*(1-gray), 0.0722 - 0.0722*(1-gray),
		0.2126 - 0.2126*(1-gray), 0.7152 + 0.2848*(1-gray), 0.0722 - 0.0722*(1-gray),
		0.2126 - 0.2126*(1-gray), 0.7152 - 0.7152*(1-gray), 0.0722 + 0.9278*(1-gray),
	}
	return func(c color.NRGBA) color.NRGBA {
		r := float64(c.R) / 255
		g := float64(c.G) / 255
		bl := float64(c.B) / 255

		r, g, bl = m[0]*r+m[1]*g+m[2]*bl, m[3]*r+m[4]*g+m[5]*bl, m[6]*r+m[7]*g+m[8]*bl
		r, g, bl = clamp01(r), clamp01(g), clamp01(bl)

		r = clamp01((r-0.5)*contrast + 0.5)
		g = clamp01((g-0.5)*contrast + 0.5)
		bl = clamp01((bl-0.5)*contrast + 0.5)

		r = clamp01(r * brightness)
		g = clamp01(g * brightness)
		bl = clamp01(bl * brightness)

		return color.NRGBA{R: to8(r), G: to8(g), B: to8(bl), A: c.A}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
