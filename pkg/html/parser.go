package html

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
	xhtml "golang.org/x/net/html"
)

// CSSFetcher loads the stylesheet an external <link> refers to.
type CSSFetcher func(uri string) (string, error)

// Parse parses markup into a Document. The underlying HTML5 parser always
// synthesizes <html>, <head> and <body>, so Root is the <html> element.
// Comments and doctypes are dropped, as are text nodes holding only
// whitespace.
func Parse(markup string) (*Document, error) {
	return ParseReader(strings.NewReader(markup))
}

// ParseReader is Parse over an io.Reader.
func ParseReader(r io.Reader) (*Document, error) {
	return ParseWithFetcher(r, nil)
}

// ParseWithFetcher parses markup, loading <link rel="stylesheet"> targets
// through fetch. Linked and inline sheets are kept in document order. A link
// that cannot be loaded is skipped and reported in Document.LinkErrors.
func ParseWithFetcher(r io.Reader, fetch CSSFetcher) (*Document, error) {
	top, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	doc := &Document{}
	p := &converter{doc: doc, fetch: fetch}
	for c := top.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xhtml.ElementNode {
			doc.Root = p.convert(c)
			break
		}
	}
	if doc.Root == nil {
		// nothing but comments/doctype
		doc.Root = NewElement("html", nil)
	}
	return doc, nil
}

type converter struct {
	doc   *Document
	fetch CSSFetcher
}

func (p *converter) convert(src *xhtml.Node) *Node {
	node := &Node{
		Type:    ElementNode,
		TagName: src.Data,
	}
	if len(src.Attr) > 0 {
		node.Attributes = make(map[string]string, len(src.Attr))
		for _, a := range src.Attr {
			node.Attributes[a.Key] = a.Val
		}
	}

	if src.Data == "style" {
		var sb strings.Builder
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == xhtml.TextNode {
				sb.WriteString(c.Data)
			}
		}
		p.doc.Stylesheets = append(p.doc.Stylesheets, sb.String())
	}
	if src.Data == "link" {
		p.link(node)
	}

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.ElementNode:
			node.AddChild(p.convert(c))
		case xhtml.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			node.AppendText(c.Data)
		}
	}
	return node
}

func (p *converter) link(node *Node) {
	rel, _ := node.GetAttribute("rel")
	href, ok := node.GetAttribute("href")
	if !ok || p.fetch == nil || !hasToken(rel, "stylesheet") {
		return
	}
	text, err := p.fetch(href)
	if err != nil {
		p.doc.LinkErrors = multierr.Append(p.doc.LinkErrors, fmt.Errorf("stylesheet %q: %w", href, err))
		return
	}
	p.doc.Stylesheets = append(p.doc.Stylesheets, text)
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
