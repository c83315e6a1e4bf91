package layout

import (
	"math"
	"strings"

	"github.com/kimtth/jerry-web-render-was/pkg/css"
)

// layout lays out a box and its descendants. Inline and anonymous boxes
// have no line formatting; they are sized and stacked like blocks.
func (b *Box) layout(containing Dimensions) {
	// Child width depends on ours, so compute it before the children.
	b.calculateBlockWidth(containing)
	b.calculateBlockPosition(containing)
	b.layoutBlockChildren()
	// Our height depends on the children, so compute it last.
	b.calculateBlockHeight()
}

// calculateBlockWidth resolves width and horizontal margins of a block in
// normal flow (CSS 2.1 §10.3.3). An overconstrained box adjusts its right
// margin, even when that margin was given explicitly.
func (b *Box) calculateBlockWidth(containing Dimensions) {
	style := b.style()
	cbWidth := containing.Content.Width

	width := nonNegative(style.Length("width", css.Auto))
	marginLeft := style.Length("margin-left", css.Zero)
	marginRight := style.Length("margin-right", css.Zero)

	borderLeft := borderWidth(style, "left")
	borderRight := borderWidth(style, "right")

	paddingLeft := nonNegative(noAuto(style.Length("padding-left", css.Zero)))
	paddingRight := nonNegative(noAuto(style.Length("padding-right", css.Zero)))

	total := 0.0
	for _, l := range []css.Length{marginLeft, marginRight, borderLeft, borderRight, paddingLeft, paddingRight, width} {
		total += l.Resolve(cbWidth)
	}

	// A fixed width wider than the container leaves no room for auto margins.
	if !width.Auto && total > cbWidth {
		if marginLeft.Auto {
			marginLeft = css.Zero
		}
		if marginRight.Auto {
			marginRight = css.Zero
		}
	}

	underflow := cbWidth - total

	switch {
	case !width.Auto && !marginLeft.Auto && !marginRight.Auto:
		marginRight = css.Px(marginRight.Resolve(cbWidth) + underflow)
	case !width.Auto && !marginLeft.Auto && marginRight.Auto:
		marginRight = css.Px(underflow)
	case !width.Auto && marginLeft.Auto && !marginRight.Auto:
		marginLeft = css.Px(underflow)
	case width.Auto:
		if marginLeft.Auto {
			marginLeft = css.Zero
		}
		if marginRight.Auto {
			marginRight = css.Zero
		}
		if underflow >= 0 {
			width = css.Px(underflow)
		} else {
			// Width can't be negative; the right margin takes the overflow.
			width = css.Zero
			marginRight = css.Px(marginRight.Resolve(cbWidth) + underflow)
		}
	default:
		// Both margins auto: center the box.
		marginLeft = css.Px(underflow / 2)
		marginRight = css.Px(underflow / 2)
	}

	d := &b.Dimensions
	d.Content.Width = width.Resolve(cbWidth)

	d.Padding.Left = paddingLeft.Resolve(cbWidth)
	d.Padding.Right = paddingRight.Resolve(cbWidth)

	d.Border.Left = borderLeft.Value
	d.Border.Right = borderRight.Value

	d.Margin.Left = marginLeft.Resolve(cbWidth)
	d.Margin.Right = marginRight.Resolve(cbWidth)
}

// calculateBlockPosition finishes the vertical edges and places the box
// below everything laid out so far in its container.
func (b *Box) calculateBlockPosition(containing Dimensions) {
	style := b.style()
	cbWidth := containing.Content.Width
	d := &b.Dimensions

	// Auto vertical margins are zero.
	d.Margin.Top = style.Length("margin-top", css.Zero).Resolve(cbWidth)
	d.Margin.Bottom = style.Length("margin-bottom", css.Zero).Resolve(cbWidth)

	d.Border.Top = borderWidth(style, "top").Value
	d.Border.Bottom = borderWidth(style, "bottom").Value

	d.Padding.Top = nonNegative(noAuto(style.Length("padding-top", css.Zero))).Resolve(cbWidth)
	d.Padding.Bottom = nonNegative(noAuto(style.Length("padding-bottom", css.Zero))).Resolve(cbWidth)

	d.Content.X = containing.Content.X + d.Margin.Left + d.Border.Left + d.Padding.Left

	// The container's height so far is the cursor for the next child.
	d.Content.Y = containing.Content.Y + containing.Content.Height +
		d.Margin.Top + d.Border.Top + d.Padding.Top
}

// layoutBlockChildren stacks the children vertically inside the content
// area, growing the content height as it goes.
func (b *Box) layoutBlockChildren() {
	d := &b.Dimensions
	d.Content.Height = 0
	for _, child := range b.Children {
		child.layout(*d)
		d.Content.Height += child.Dimensions.MarginBox().Height
	}
}

// calculateBlockHeight applies an explicit height. Auto and percentage
// heights keep the content height of the children.
func (b *Box) calculateBlockHeight() {
	h := b.style().Length("height", css.Auto)
	if h.Auto || h.Percent {
		return
	}
	b.Dimensions.Content.Height = math.Max(0, h.Value)
}

// borderWidth reads the border width of one side. Percentages are not valid
// border widths and count as zero, as does any width under a none or hidden
// line style.
func borderWidth(style *css.Style, side string) css.Length {
	if ls, ok := style.Get("border-" + side + "-style"); ok {
		switch strings.ToLower(strings.TrimSpace(ls)) {
		case "none", "hidden":
			return css.Zero
		}
	}
	l := nonNegative(style.Length("border-"+side+"-width", css.Zero))
	if l.Auto || l.Percent {
		return css.Zero
	}
	return l
}

func noAuto(l css.Length) css.Length {
	if l.Auto {
		return css.Zero
	}
	return l
}

func nonNegative(l css.Length) css.Length {
	if !l.Auto && l.Value < 0 {
		l.Value = 0
	}
	return l
}
