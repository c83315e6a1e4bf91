package layout

import (
	"github.com/kimtth/jerry-web-render-was/pkg/css"
)

// BuildLayoutTree generates the box tree for a style tree without computing
// any geometry. Block children are appended to their parent directly; runs
// of inline children under a block box are wrapped in one anonymous box.
func BuildLayoutTree(styled *css.StyledNode) *Box {
	if styled == nil {
		return nil
	}

	root := &Box{Type: boxTypeOf(styled), Style: styled}
	for _, child := range styled.Children {
		switch child.Display() {
		case css.DisplayBlock:
			root.Children = append(root.Children, BuildLayoutTree(child))
		case css.DisplayInline:
			container := root.inlineContainer()
			container.Children = append(container.Children, BuildLayoutTree(child))
		}
	}
	return root
}

func boxTypeOf(styled *css.StyledNode) BoxType {
	if styled.Display() == css.DisplayBlock {
		return BlockBox
	}
	return InlineBox
}

// inlineContainer is where a new inline child of b goes.
func (b *Box) inlineContainer() *Box {
	if b.Type != BlockBox {
		return b
	}
	// Keep filling the anonymous box we just generated, if any.
	if n := len(b.Children); n > 0 && b.Children[n-1].Type == AnonymousBox {
		return b.Children[n-1]
	}
	anonymous := &Box{Type: AnonymousBox}
	b.Children = append(b.Children, anonymous)
	return anonymous
}
