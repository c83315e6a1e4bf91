package css

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kimtth/jerry-web-render-was/pkg/html"
)

// StyledNode is a document node together with its resolved properties.
// Node is a lookup-only reference into the document tree, which outlives the
// style tree.
type StyledNode struct {
	Node     *html.Node
	Style    *Style
	Children []*StyledNode
}

// Display is the display type of the node. Text nodes are always inline.
func (n *StyledNode) Display() Display {
	if n.Node != nil && n.Node.Type == html.TextNode {
		return DisplayInline
	}
	return n.Style.Display()
}

// Count returns the number of styled nodes in the subtree.
func (n *StyledNode) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Resolve applies a stylesheet to a document tree. Nodes whose resolved
// display is none are left out together with their subtrees; if that is the
// root, Resolve returns nil. Nothing is inherited from ancestors.
func Resolve(root *html.Node, sheet *Stylesheet) *StyledNode {
	if root == nil {
		return nil
	}
	return resolveNode(root, sheet, NewParser(nil))
}

func resolveNode(node *html.Node, sheet *Stylesheet, inline *Parser) *StyledNode {
	styled := &StyledNode{Node: node, Style: NewStyle()}
	if node.Type == html.ElementNode {
		styled.Style = ComputeStyle(node, sheet, inline)
		if styled.Style.Display() == DisplayNone {
			return nil
		}
	}
	for _, child := range node.Children {
		if c := resolveNode(child, sheet, inline); c != nil {
			styled.Children = append(styled.Children, c)
		}
	}
	return styled
}

// ComputeStyle computes the property map of one element: matching rules are
// applied from lowest to highest (origin, specificity, source index), so
// later assignments win. Declarations from the style attribute come last.
func ComputeStyle(node *html.Node, sheet *Stylesheet, inline *Parser) *Style {
	finalStyle := NewStyle()

	matches := FindMatchingRules(node, sheet)
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Rule.Origin != b.Rule.Origin {
			return a.Rule.Origin == OriginUserAgent
		}
		if a.Specificity != b.Specificity {
			return a.Specificity.Less(b.Specificity)
		}
		return a.Rule.SourceIndex < b.Rule.SourceIndex
	})

	for _, m := range matches {
		for _, d := range m.Rule.Declarations {
			finalStyle.Set(d.Property, d.Value)
		}
	}

	if styleAttr, ok := node.GetAttribute("style"); ok && inline != nil {
		for _, d := range inline.ParseInline(styleAttr) {
			finalStyle.Set(d.Property, d.Value)
		}
	}
	return finalStyle
}

// DumpStyleTree writes the style tree with its properties in sorted order.
func DumpStyleTree(w io.Writer, n *StyledNode) {
	dumpStyled(w, n, 0)
}

func dumpStyled(w io.Writer, n *StyledNode, depth int) {
	if n == nil {
		return
	}
	prefix := strings.Repeat("  ", depth)
	switch {
	case n.Node == nil:
		fmt.Fprintf(w, "%s(detached)\n", prefix)
	case n.Node.Type == html.TextNode:
		fmt.Fprintf(w, "%s#text %q\n", prefix, strings.TrimSpace(n.Node.Text))
	default:
		fmt.Fprintf(w, "%s<%s>\n", prefix, n.Node.TagName)
	}

	var names []string
	if n.Style != nil {
		for name := range n.Style.Properties {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s  %s: %s\n", prefix, name, n.Style.Properties[name])
	}
	for _, c := range n.Children {
		dumpStyled(w, c, depth+1)
	}
}
