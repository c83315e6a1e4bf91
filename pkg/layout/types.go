package layout

import (
	"github.com/kimtth/jerry-web-render-was/pkg/css"
)

// Rect is a rectangle in canvas coordinates. All sizes are in px.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ExpandedBy returns a new Rect grown outward by the given edges.
func (r Rect) ExpandedBy(edge EdgeSizes) Rect {
	return Rect{
		X:      r.X - edge.Left,
		Y:      r.Y - edge.Top,
		Width:  r.Width + edge.Left + edge.Right,
		Height: r.Height + edge.Top + edge.Bottom,
	}
}

// EdgeSizes holds the four sides of a padding, border or margin.
type EdgeSizes struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Dimensions is the CSS box model of a laid out box.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// Viewport returns the initial containing block for a viewport of the
// given size.
func Viewport(width, height float64) Dimensions {
	return Dimensions{Content: Rect{Width: width, Height: height}}
}

// PaddingBox is the content area plus its padding.
func (d Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// BorderBox is the padding box plus borders.
func (d Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// MarginBox is the border box plus margins.
func (d Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// BoxType is the kind of a layout box.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	AnonymousBox
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case AnonymousBox:
		return "anonymous"
	}
	return "unknown"
}

// Box is a node of the layout tree. Style points back at the styled node
// the box was generated from and is nil for anonymous boxes.
type Box struct {
	Type       BoxType
	Dimensions Dimensions
	Style      *css.StyledNode
	Children   []*Box
}

// style returns the resolved properties of the box. Anonymous boxes have
// none, which makes every property take its initial value.
func (b *Box) style() *css.Style {
	if b.Style == nil {
		return nil
	}
	return b.Style.Style
}

// Count returns the number of boxes in the subtree, anonymous ones included.
func (b *Box) Count() int {
	if b == nil {
		return 0
	}
	total := 1
	for _, c := range b.Children {
		total += c.Count()
	}
	return total
}
