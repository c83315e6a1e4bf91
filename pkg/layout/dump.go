package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/kimtth/jerry-web-render-was/pkg/html"
)

// DumpBoxTree writes the box tree, one box per line with its content rect
// and margin box.
func DumpBoxTree(w io.Writer, b *Box) {
	dumpBox(w, b, 0)
}

func dumpBox(w io.Writer, b *Box, depth int) {
	if b == nil {
		return
	}
	d := b.Dimensions
	mb := d.MarginBox()
	fmt.Fprintf(w, "%s%s%s content=(%g,%g %gx%g) margin-box=(%g,%g %gx%g)\n",
		strings.Repeat("  ", depth), b.Type, boxLabel(b),
		d.Content.X, d.Content.Y, d.Content.Width, d.Content.Height,
		mb.X, mb.Y, mb.Width, mb.Height)
	for _, c := range b.Children {
		dumpBox(w, c, depth+1)
	}
}

func boxLabel(b *Box) string {
	if b.Style == nil || b.Style.Node == nil {
		return ""
	}
	if b.Style.Node.Type == html.TextNode {
		return " #text"
	}
	return " <" + b.Style.Node.TagName + ">"
}
