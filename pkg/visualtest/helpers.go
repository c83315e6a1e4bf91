package visualtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kimtth/jerry-web-render-was/pkg/engine"
	"github.com/kimtth/jerry-web-render-was/pkg/html"
)

// RenderToFile renders markup styled by stylesheet and saves the canvas;
// the format follows the extension of outputPath.
func RenderToFile(ctx context.Context, r *engine.Renderer, markup, stylesheet, outputPath string) error {
	res, err := r.Render(ctx, markup, stylesheet)
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := res.Canvas.Save(outputPath, 1); err != nil {
		return fmt.Errorf("save error: %w", err)
	}
	return nil
}

// RenderFile renders an HTML file, with an optional CSS file, to an image
// file.
func RenderFile(ctx context.Context, r *engine.Renderer, htmlPath, cssPath, outputPath string) error {
	markup, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to read HTML file: %w", err)
	}
	var stylesheet []byte
	if cssPath != "" {
		if stylesheet, err = os.ReadFile(cssPath); err != nil {
			return fmt.Errorf("failed to read CSS file: %w", err)
		}
	}
	return RenderToFile(ctx, r, string(markup), string(stylesheet), outputPath)
}

// FindRefLink returns the href of the first <link rel="match"> in markup,
// naming the reference page a reftest is compared against.
func FindRefLink(markup string) string {
	doc, err := html.Parse(markup)
	if err != nil {
		return ""
	}
	return findRefLinkInDOM(doc.Root)
}

func findRefLinkInDOM(node *html.Node) string {
	if node.Type == html.ElementNode && node.TagName == "link" {
		rel, _ := node.GetAttribute("rel")
		if href, ok := node.GetAttribute("href"); ok && strings.EqualFold(strings.TrimSpace(rel), "match") {
			return href
		}
	}
	for _, child := range node.Children {
		if href := findRefLinkInDOM(child); href != "" {
			return href
		}
	}
	return ""
}
