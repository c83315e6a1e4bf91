package render

import (
	"context"
	"image"
	"image/color"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/kimtth/jerry-web-render-was/pkg/layout"
)

// MaxCanvasSize bounds each side of a canvas in pixels.
const MaxCanvasSize = 16384

// White is the default initial canvas color.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Canvas is a row-major buffer of straight-alpha RGBA pixels.
type Canvas struct {
	Width  int
	Height int
	Pixels []color.NRGBA
}

// NewCanvas creates a canvas filled with background. Negative sizes give an
// empty canvas; sizes above MaxCanvasSize are clamped.
func NewCanvas(width, height int, background color.NRGBA) *Canvas {
	width = min(max(width, 0), MaxCanvasSize)
	height = min(max(height, 0), MaxCanvasSize)
	pixels := make([]color.NRGBA, width*height)
	for i := range pixels {
		pixels[i] = background
	}
	return &Canvas{Width: width, Height: height, Pixels: pixels}
}

// NewCanvasFor creates a canvas covering bounds, truncated to whole pixels.
func NewCanvasFor(bounds layout.Rect, background color.NRGBA) *Canvas {
	return NewCanvas(canvasSize(bounds.Width), canvasSize(bounds.Height), background)
}

// At returns the pixel at (x, y), or the zero color outside the canvas.
func (c *Canvas) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return color.NRGBA{}
	}
	return c.Pixels[y*c.Width+x]
}

// PaintItem writes a single command, clipped to the canvas.
func (c *Canvas) PaintItem(cmd DisplayCommand) {
	c.paintBand(cmd, 0, c.Height)
}

// Rasterize applies the display list in order. With more than one worker
// the canvas is split into horizontal bands painted concurrently; every band
// sees the commands in list order, so the result does not depend on the
// number of workers. It stops early, returning the context error, if ctx is
// cancelled.
func (c *Canvas) Rasterize(ctx context.Context, list DisplayList, workers int) error {
	workers = min(max(workers, 1), max(c.Height, 1))
	band := (c.Height + workers - 1) / workers
	if band == 0 {
		return ctx.Err()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < c.Height; y0 += band {
		y1 := min(y0+band, c.Height)
		g.Go(func() error {
			for _, cmd := range list {
				if err := ctx.Err(); err != nil {
					return err
				}
				c.paintBand(cmd, y0, y1)
			}
			return nil
		})
	}
	return g.Wait()
}

// paintBand fills the part of cmd that falls inside rows [y0, y1). Pixels
// are overwritten, never blended.
func (c *Canvas) paintBand(cmd DisplayCommand, y0, y1 int) {
	r := cmd.Rect
	x0 := clampCoord(r.X, c.Width)
	x1 := clampCoord(r.X+r.Width, c.Width)
	top := max(clampCoord(r.Y, c.Height), y0)
	bottom := min(clampCoord(r.Y+r.Height, c.Height), y1)

	for y := top; y < bottom; y++ {
		row := c.Pixels[y*c.Width : (y+1)*c.Width]
		for x := x0; x < x1; x++ {
			row[x] = cmd.Color
		}
	}
}

// clampCoord truncates v to a pixel index in [0, limit]. NaN clamps to 0.
func clampCoord(v float64, limit int) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= float64(limit) {
		return limit
	}
	return int(v)
}

// ToImage copies the canvas into an image.NRGBA.
func (c *Canvas) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	for i, p := range c.Pixels {
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img
}

// Options controls painting.
type Options struct {
	Background color.NRGBA
	Workers    int
}

// DefaultOptions paints sequentially onto white.
func DefaultOptions() Options {
	return Options{Background: White, Workers: 1}
}

// Paint paints a box tree onto a new white canvas the size of bounds. A nil
// tree gives the blank canvas.
func Paint(root *layout.Box, bounds layout.Rect) *Canvas {
	canvas, _ := PaintContext(context.Background(), root, bounds, DefaultOptions())
	return canvas
}

// PaintContext is Paint with explicit options and cancellation. The canvas
// is returned even on error, partially painted.
func PaintContext(ctx context.Context, root *layout.Box, bounds layout.Rect, opts Options) (*Canvas, error) {
	canvas := NewCanvasFor(bounds, opts.Background)
	err := canvas.Rasterize(ctx, BuildDisplayList(root), opts.Workers)
	return canvas, err
}

func canvasSize(v float64) int {
	return clampCoord(v, MaxCanvasSize)
}
