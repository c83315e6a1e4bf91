package html

import (
	"fmt"
	"io"
	"strings"
)

// Node is one node of the document tree. Element nodes carry a tag name,
// attributes and ordered children; text nodes carry only Text.
// The tree is not modified once the parser returns it.
type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Document is the result of parsing markup: the root element plus the
// text of every <style> element and loaded stylesheet link, in document
// order.
type Document struct {
	Root        *Node
	Stylesheets []string
	LinkErrors  error
}

// NewElement creates an element node owning the given children.
func NewElement(tag string, attrs map[string]string, children ...*Node) *Node {
	return &Node{
		Type:       ElementNode,
		TagName:    tag,
		Attributes: attrs,
		Children:   children,
	}
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// ID returns the value of the id attribute, if any.
func (n *Node) ID() (string, bool) {
	return n.GetAttribute("id")
}

// Classes returns the set of whitespace separated class names.
func (n *Node) Classes() map[string]struct{} {
	attr, ok := n.GetAttribute("class")
	if !ok {
		return nil
	}
	fields := strings.Fields(attr)
	if len(fields) == 0 {
		return nil
	}
	classes := make(map[string]struct{}, len(fields))
	for _, c := range fields {
		classes[c] = struct{}{}
	}
	return classes
}

// AddChild appends child to n's children.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.Children = append(n.Children, NewText(text))
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, n *Node) {
	dumpNode(w, n, 0)
}

func dumpNode(w io.Writer, n *Node, depth int) {
	if n == nil {
		return
	}
	prefix := strings.Repeat("  ", depth)
	if n.Type == TextNode {
		fmt.Fprintf(w, "%s#text %q\n", prefix, shorten(n.Text, 40))
		return
	}
	fmt.Fprintf(w, "%s<%s>\n", prefix, n.TagName)
	for _, c := range n.Children {
		dumpNode(w, c, depth+1)
	}
}

func shorten(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "..."
}
