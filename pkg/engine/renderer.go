package engine

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/kimtth/jerry-web-render-was/pkg/config"
	"github.com/kimtth/jerry-web-render-was/pkg/css"
	"github.com/kimtth/jerry-web-render-was/pkg/html"
	"github.com/kimtth/jerry-web-render-was/pkg/layout"
	"github.com/kimtth/jerry-web-render-was/pkg/render"
	"github.com/kimtth/jerry-web-render-was/pkg/resource"
)

// Options controls a render.
type Options struct {
	Width      float64
	Height     float64
	Background color.NRGBA
	Workers    int
	// UserAgent prepends UserAgentStylesheet to the author sheets.
	UserAgent bool
	// FitContent sizes the canvas height to the laid out document.
	FitContent bool
}

// DefaultOptions matches the defaults of the configuration template.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Background: render.White,
		Workers:    1,
		UserAgent:  true,
	}
}

// OptionsFromConfig builds render options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	bg, err := cfg.Render.BackgroundColor()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Width:      cfg.Viewport.Width,
		Height:     cfg.Viewport.Height,
		Background: bg,
		Workers:    cfg.Render.Workers,
		UserAgent:  cfg.Render.UserAgent,
		FitContent: cfg.Render.FitContent,
	}, nil
}

// Result holds every intermediate tree of a render so callers can dump
// them.
type Result struct {
	Document    *html.Document
	Stylesheet  *css.Stylesheet
	Style       *css.StyledNode
	Layout      *layout.Box
	DisplayList render.DisplayList
	Canvas      *render.Canvas
}

// Renderer runs the parse, style, layout and paint pipeline. It keeps no
// state between renders and may be used from several goroutines.
type Renderer struct {
	log     *zap.Logger
	opts    Options
	fetcher resource.Fetcher
}

// NewRenderer creates a renderer. A nil logger discards everything.
func NewRenderer(log *zap.Logger, opts Options) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log.Named("engine"), opts: opts}
}

// SetFetcher configures where <link rel="stylesheet"> targets are loaded
// from. Without a fetcher links are ignored.
func (r *Renderer) SetFetcher(fetcher resource.Fetcher) {
	r.fetcher = fetcher
}

// Render renders markup styled by an author stylesheet. Stylesheets found
// in the document apply after the author sheet.
func (r *Renderer) Render(ctx context.Context, markup, stylesheet string) (*Result, error) {
	var fetch html.CSSFetcher
	if r.fetcher != nil {
		fetch = func(uri string) (string, error) {
			return resource.FetchCSS(r.fetcher, uri)
		}
	}
	doc, err := html.ParseWithFetcher(strings.NewReader(markup), fetch)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if doc.LinkErrors != nil {
		r.log.Warn("Skipped linked stylesheets", zap.Error(doc.LinkErrors))
	}

	res := &Result{Document: doc, Stylesheet: r.stylesheet(stylesheet, doc)}
	if err := res.Stylesheet.Err(); err != nil {
		r.log.Warn("Stylesheet problems, affected rules ignored", zap.Error(err))
	}

	res.Style = css.Resolve(doc.Root, res.Stylesheet)
	res.Layout = layout.NewLayoutEngine(r.opts.Width, r.opts.Height).Layout(res.Style)
	res.DisplayList = render.BuildDisplayList(res.Layout)

	bounds := r.bounds(res.Layout)
	res.Canvas = render.NewCanvasFor(bounds, r.opts.Background)
	if err := res.Canvas.Rasterize(ctx, res.DisplayList, r.opts.Workers); err != nil {
		return nil, fmt.Errorf("painting: %w", err)
	}

	r.log.Debug("Rendered document",
		zap.Int("nodes", doc.Root.Count()),
		zap.Int("rules", len(res.Stylesheet.Rules)),
		zap.Int("styled", res.Style.Count()),
		zap.Int("boxes", res.Layout.Count()),
		zap.Int("commands", len(res.DisplayList)),
		zap.Int("width", res.Canvas.Width),
		zap.Int("height", res.Canvas.Height))
	return res, nil
}

func (r *Renderer) stylesheet(author string, doc *html.Document) *css.Stylesheet {
	parser := css.NewParser(r.log)
	sheets := make([]*css.Stylesheet, 0, len(doc.Stylesheets)+2)
	if r.opts.UserAgent {
		sheets = append(sheets, parser.Parse([]byte(UserAgentStylesheet), "user-agent").WithOrigin(css.OriginUserAgent))
	}
	sheets = append(sheets, parser.Parse([]byte(author), "author"))
	for i, text := range doc.Stylesheets {
		sheets = append(sheets, parser.Parse([]byte(text), fmt.Sprintf("document #%d", i+1)))
	}
	return css.Merge(sheets...)
}

// bounds is the viewport, or with FitContent the viewport width and the
// bottom edge of the root margin box.
func (r *Renderer) bounds(root *layout.Box) layout.Rect {
	bounds := layout.Rect{Width: r.opts.Width, Height: r.opts.Height}
	if r.opts.FitContent && root != nil {
		mb := root.Dimensions.MarginBox()
		bounds.Height = math.Max(0, math.Ceil(mb.Y+mb.Height))
	}
	return bounds
}
