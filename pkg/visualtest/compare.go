package visualtest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/kimtth/jerry-web-render-was/pkg/render"
)

// ErrSizeMismatch is returned when the compared images differ in size.
var ErrSizeMismatch = errors.New("image dimensions differ")

// CompareResult contains the results of an image comparison
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // Max color channel difference found
}

// DifferentPercent is the share of mismatching pixels, 0..100.
func (r *CompareResult) DifferentPercent() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DifferentPixels) / float64(r.TotalPixels) * 100
}

// CompareOptions configures the image comparison
type CompareOptions struct {
	// Tolerance: maximum allowed difference per color channel (0-255).
	// Canvases are painted without anti-aliasing, so 0 is the norm.
	Tolerance int

	// FuzzyRadius: if > 0, a pixel matches if it matches any pixel within this radius
	FuzzyRadius int

	// MaxDifferentPercent: if > 0, pass if the percentage of different pixels is <= this value
	MaxDifferentPercent float64

	// DiffImagePath, when set, receives a PNG highlighting differences in
	// red over a grayscale copy of the actual image. Written only on mismatch.
	DiffImagePath string
}

// DefaultOptions returns exact comparison.
func DefaultOptions() CompareOptions {
	return CompareOptions{}
}

// LoadImage reads an image file. PNG goes through gg, other formats
// through imaging.
func LoadImage(path string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".png") {
		img, err = gg.LoadPNG(path)
	} else {
		img, err = imaging.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return img, nil
}

// CompareFiles compares two image files pixel-by-pixel.
func CompareFiles(actualPath, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	actual, err := LoadImage(actualPath)
	if err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}
	expected, err := LoadImage(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	return CompareImages(actual, expected, opts)
}

// CompareCanvas compares a painted canvas with an expected image.
func CompareCanvas(actual *render.Canvas, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	return CompareImages(actual.ToImage(), expected, opts)
}

// CompareImages compares two images pixel-by-pixel in straight alpha.
// Images of different sizes never match and report ErrSizeMismatch.
func CompareImages(actualImg, expectedImg image.Image, opts CompareOptions) (*CompareResult, error) {
	actual := imaging.Clone(actualImg)
	expected := imaging.Clone(expectedImg)

	if actual.Bounds().Size() != expected.Bounds().Size() {
		return &CompareResult{}, fmt.Errorf("%w: actual=%v, expected=%v",
			ErrSizeMismatch, actual.Bounds().Size(), expected.Bounds().Size())
	}

	w, h := actual.Bounds().Dx(), actual.Bounds().Dy()
	result := &CompareResult{
		Match:       true,
		TotalPixels: w * h,
	}

	var diffImg *image.NRGBA
	if opts.DiffImagePath != "" {
		diffImg = imaging.Grayscale(actual)
	}

	for y := range h {
		for x := range w {
			diff := pixelDiff(actual.NRGBAAt(x, y), expected.NRGBAAt(x, y))
			result.MaxDifference = max(result.MaxDifference, diff)
			if diff <= opts.Tolerance {
				continue
			}
			if opts.FuzzyRadius > 0 && fuzzyMatch(actual, expected, x, y, opts.FuzzyRadius, opts.Tolerance) {
				continue
			}
			result.Match = false
			result.DifferentPixels++
			if diffImg != nil {
				diffImg.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.DifferentPercent() <= opts.MaxDifferentPercent {
		result.Match = true
	}

	if diffImg != nil && !result.Match {
		if err := gg.SavePNG(opts.DiffImagePath, diffImg); err != nil {
			return result, fmt.Errorf("saving diff image: %w", err)
		}
	}
	return result, nil
}

// fuzzyMatch checks if the actual pixel at (x, y) matches any expected pixel within radius
func fuzzyMatch(actual, expected *image.NRGBA, x, y, radius, tolerance int) bool {
	a := actual.NRGBAAt(x, y)
	b := expected.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(b) {
				continue
			}
			if pixelDiff(a, expected.NRGBAAt(p.X, p.Y)) <= tolerance {
				return true
			}
		}
	}
	return false
}

// pixelDiff is the largest per-channel difference.
func pixelDiff(a, b color.NRGBA) int {
	return max(
		absDiff(a.R, b.R),
		absDiff(a.G, b.G),
		absDiff(a.B, b.B),
		absDiff(a.A, b.A),
	)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
