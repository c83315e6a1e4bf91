package render

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// SavePNG writes the canvas as a PNG file.
func (c *Canvas) SavePNG(filename string) error {
	return gg.SavePNG(filename, c.ToImage())
}

// Save writes the canvas to filename in the format implied by its
// extension (png, jpg, gif, bmp, tif), scaled by scale.
func (c *Canvas) Save(filename string, scale float64) error {
	img, err := c.scaled(scale)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, filename); err != nil {
		return fmt.Errorf("unable to save %s: %w", filename, err)
	}
	return nil
}

// Encode writes the canvas to w in the given format, scaled by scale.
func (c *Canvas) Encode(w io.Writer, format imaging.Format, scale float64) error {
	img, err := c.scaled(scale)
	if err != nil {
		return err
	}
	return imaging.Encode(w, img, format)
}

// scaled resizes the canvas image with nearest neighbour sampling so edges
// stay sharp. A scale of 1 returns the canvas unchanged. Neither side of
// the result exceeds MaxCanvasSize.
func (c *Canvas) scaled(scale float64) (image.Image, error) {
	img := c.ToImage()
	if scale == 1 {
		return img, nil
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("invalid output scale %v", scale)
	}
	w := max(int(math.Min(float64(c.Width)*scale, MaxCanvasSize)), 1)
	h := max(int(math.Min(float64(c.Height)*scale, MaxCanvasSize)), 1)
	return imaging.Resize(img, w, h, imaging.NearestNeighbor), nil
}
