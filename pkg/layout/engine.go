package layout

import (
	"github.com/kimtth/jerry-web-render-was/pkg/css"
)

// LayoutEngine lays out style trees against a fixed viewport.
type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
}

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// Viewport returns the initial containing block.
func (le *LayoutEngine) Viewport() Dimensions {
	return Viewport(le.viewport.width, le.viewport.height)
}

// Layout builds and lays out the box tree for root.
func (le *LayoutEngine) Layout(root *css.StyledNode) *Box {
	return Layout(root, le.Viewport())
}

// Layout transforms a style tree into a laid out box tree. Only the content
// width and origin of the containing block are used; its height is the
// cursor for the root and starts at zero. A nil root yields a nil tree.
func Layout(root *css.StyledNode, containing Dimensions) *Box {
	box := BuildLayoutTree(root)
	if box == nil {
		return nil
	}
	containing.Content.Height = 0
	box.layout(containing)
	return box
}
