package render

import (
	"image/color"

	"github.com/kimtth/jerry-web-render-was/pkg/css"
	"github.com/kimtth/jerry-web-render-was/pkg/layout"
)

// DisplayCommand fills a rectangle with a solid color.
type DisplayCommand struct {
	Rect  layout.Rect
	Color color.NRGBA
}

// DisplayList is the paint order of a box tree: later commands paint over
// earlier ones.
type DisplayList []DisplayCommand

// BuildDisplayList walks the box tree in document order, emitting each
// box's background and borders before those of its children.
func BuildDisplayList(root *layout.Box) DisplayList {
	var list DisplayList
	renderLayoutBox(&list, root)
	return list
}

func renderLayoutBox(list *DisplayList, box *layout.Box) {
	if box == nil {
		return
	}
	renderBackground(list, box)
	renderBorders(list, box)
	for _, child := range box.Children {
		renderLayoutBox(list, child)
	}
}

func renderBackground(list *DisplayList, box *layout.Box) {
	style := boxStyle(box)
	if style == nil {
		return
	}
	if c, ok := style.Color("background-color"); ok {
		*list = append(*list, DisplayCommand{Rect: box.Dimensions.BorderBox(), Color: c})
	}
}

func renderBorders(list *DisplayList, box *layout.Box) {
	style := boxStyle(box)
	if style == nil {
		return
	}
	d := box.Dimensions
	bb := d.BorderBox()

	edges := []struct {
		side  string
		width float64
		rect  layout.Rect
	}{
		{"left", d.Border.Left, layout.Rect{X: bb.X, Y: bb.Y, Width: d.Border.Left, Height: bb.Height}},
		{"right", d.Border.Right, layout.Rect{X: bb.X + bb.Width - d.Border.Right, Y: bb.Y, Width: d.Border.Right, Height: bb.Height}},
		{"top", d.Border.Top, layout.Rect{X: bb.X, Y: bb.Y, Width: bb.Width, Height: d.Border.Top}},
		{"bottom", d.Border.Bottom, layout.Rect{X: bb.X, Y: bb.Y + bb.Height - d.Border.Bottom, Width: bb.Width, Height: d.Border.Bottom}},
	}
	for _, e := range edges {
		if e.width <= 0 {
			continue
		}
		if c, ok := borderSideColor(style, e.side); ok {
			*list = append(*list, DisplayCommand{Rect: e.rect, Color: c})
		}
	}
}

// borderSideColor returns the color for a specific border side. Parsed
// stylesheets always expand border-color into the sides; the border-color
// fallback covers styles built by hand.
func borderSideColor(style *css.Style, side string) (color.NRGBA, bool) {
	if _, ok := style.Get("border-" + side + "-color"); ok {
		return style.Color("border-" + side + "-color")
	}
	return style.Color("border-color")
}

// boxStyle returns nil for anonymous boxes, which never paint.
func boxStyle(box *layout.Box) *css.Style {
	if box.Type == layout.AnonymousBox || box.Style == nil {
		return nil
	}
	return box.Style.Style
}
