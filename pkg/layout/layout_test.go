package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kimtth/jerry-web-render-was/pkg/css"
	"github.com/kimtth/jerry-web-render-was/pkg/html"
)

// styled builds a style tree node from a property list.
func styled(tag string, props map[string]string, children ...*css.StyledNode) *css.StyledNode {
	s := css.NewStyle()
	for k, v := range props {
		for _, d := range css.ExpandShorthand(k, v) {
			s.Set(d.Property, d.Value)
		}
	}
	return &css.StyledNode{Node: html.NewElement(tag, nil), Style: s, Children: children}
}

func block(props map[string]string, children ...*css.StyledNode) *css.StyledNode {
	if props == nil {
		props = map[string]string{}
	}
	props["display"] = "block"
	return styled("div", props, children...)
}

func text(s string) *css.StyledNode {
	return &css.StyledNode{Node: html.NewText(s), Style: css.NewStyle()}
}

func TestLayoutEngine_AutoWidthFillsContainer(t *testing.T) {
	box := NewLayoutEngine(800, 600).Layout(block(nil))

	if box.Type != BlockBox {
		t.Fatalf("expected block box, got %s", box.Type)
	}
	if box.Dimensions.Content.Width != 800 {
		t.Errorf("expected width 800, got %f", box.Dimensions.Content.Width)
	}
	if box.Dimensions.Content.X != 0 || box.Dimensions.Content.Y != 0 {
		t.Errorf("expected origin (0,0), got (%f,%f)", box.Dimensions.Content.X, box.Dimensions.Content.Y)
	}
}

func TestLayoutEngine_AutoMarginsCenter(t *testing.T) {
	box := Layout(block(map[string]string{
		"width":        "400px",
		"margin-left":  "auto",
		"margin-right": "auto",
	}), Viewport(800, 600))

	d := box.Dimensions
	if d.Margin.Left != 200 || d.Margin.Right != 200 {
		t.Errorf("expected margins 200/200, got %f/%f", d.Margin.Left, d.Margin.Right)
	}
	if d.Content.X != 200 || d.Content.Width != 400 {
		t.Errorf("expected content at x=200 width=400, got x=%f width=%f", d.Content.X, d.Content.Width)
	}
}

func TestLayoutEngine_SingleAutoMargin(t *testing.T) {
	box := Layout(block(map[string]string{
		"width":       "300px",
		"margin-left": "auto",
		"padding":     "0",
	}), Viewport(800, 600))
	if box.Dimensions.Margin.Left != 500 || box.Dimensions.Margin.Right != 0 {
		t.Errorf("expected margin-left 500, got %+v", box.Dimensions.Margin)
	}

	box = Layout(block(map[string]string{
		"width":        "300px",
		"margin-left":  "100px",
		"margin-right": "auto",
	}), Viewport(800, 600))
	if box.Dimensions.Margin.Right != 400 {
		t.Errorf("expected margin-right 400, got %f", box.Dimensions.Margin.Right)
	}
}

func TestLayoutEngine_OverconstrainedAbsorbsIntoMarginRight(t *testing.T) {
	box := Layout(block(map[string]string{
		"width":        "500px",
		"margin-left":  "200px",
		"margin-right": "300px",
	}), Viewport(800, 600))

	d := box.Dimensions
	if d.Content.Width != 500 || d.Margin.Left != 200 {
		t.Errorf("width and left margin must be kept, got %f/%f", d.Content.Width, d.Margin.Left)
	}
	if d.Margin.Right != 100 {
		t.Errorf("expected margin-right 100, got %f", d.Margin.Right)
	}
	if mb := d.MarginBox(); mb.Width != 800 {
		t.Errorf("expected margin box to fill 800, got %f", mb.Width)
	}
}

func TestLayoutEngine_FixedWidthTooWideZeroesAutoMargins(t *testing.T) {
	box := Layout(block(map[string]string{
		"width":        "1000px",
		"margin-left":  "auto",
		"margin-right": "auto",
	}), Viewport(800, 600))

	d := box.Dimensions
	if d.Margin.Left != 0 || d.Margin.Right != -200 {
		t.Errorf("expected margins 0/-200, got %f/%f", d.Margin.Left, d.Margin.Right)
	}
}

func TestLayoutEngine_AutoWidthNeverNegative(t *testing.T) {
	box := Layout(block(map[string]string{"padding": "500px"}), Viewport(800, 600))

	d := box.Dimensions
	if d.Content.Width != 0 {
		t.Errorf("expected width 0, got %f", d.Content.Width)
	}
	if d.Margin.Right != -200 {
		t.Errorf("expected margin-right -200, got %f", d.Margin.Right)
	}
}

func TestLayoutEngine_PercentagesAgainstContainingBlock(t *testing.T) {
	box := Layout(block(map[string]string{
		"width":       "50%",
		"margin-left": "10%",
		"padding":     "5%",
		"height":      "50%",
	}), Viewport(800, 600))

	d := box.Dimensions
	if d.Content.Width != 400 || d.Margin.Left != 80 || d.Padding.Left != 40 || d.Padding.Top != 40 {
		t.Errorf("unexpected resolved percentages: %+v", d)
	}
	if d.Content.Height != 0 {
		t.Errorf("percentage height should behave as auto, got %f", d.Content.Height)
	}
}

func TestLayoutEngine_BoxModel(t *testing.T) {
	box := Layout(block(map[string]string{
		"width":   "100px",
		"height":  "40px",
		"margin":  "10px",
		"border":  "2px solid black",
		"padding": "5px",
	}), Viewport(800, 600))

	d := box.Dimensions
	if d.Content.X != 17 || d.Content.Y != 17 {
		t.Errorf("expected content origin (17,17), got (%f,%f)", d.Content.X, d.Content.Y)
	}
	if bb := d.BorderBox(); bb != (Rect{X: 10, Y: 10, Width: 114, Height: 54}) {
		t.Errorf("unexpected border box %+v", bb)
	}
	if mb := d.MarginBox(); mb.Height != 74 {
		t.Errorf("unexpected margin box height %f", mb.Height)
	}
}

func TestLayoutEngine_NoneBorderStyleHasNoWidth(t *testing.T) {
	box := Layout(block(map[string]string{
		"width":             "100px",
		"border-width":      "4px",
		"border-style":      "solid none",
		"border-left-style": "hidden",
	}), Viewport(800, 600))

	want := EdgeSizes{Top: 4, Bottom: 4}
	if b := box.Dimensions.Border; b != want {
		t.Errorf("expected border %+v, got %+v", want, b)
	}
	if bb := box.Dimensions.BorderBox(); bb.Width != 100 || bb.Height != 8 {
		t.Errorf("unexpected border box %+v", bb)
	}
}

func TestLayoutEngine_HeightIsSumOfChildren(t *testing.T) {
	root := block(nil,
		block(map[string]string{"height": "50px"}),
		block(map[string]string{"height": "60px", "margin-bottom": "10px"}),
	)
	box := Layout(root, Viewport(800, 600))

	if h := box.Dimensions.Content.Height; h != 120 {
		t.Errorf("expected content height 120, got %f", h)
	}
	second := box.Children[1]
	if second.Dimensions.Content.Y != 50 {
		t.Errorf("expected second child at y=50, got %f", second.Dimensions.Content.Y)
	}
}

func TestLayoutEngine_ExplicitHeightWins(t *testing.T) {
	root := block(map[string]string{"height": "30px"},
		block(map[string]string{"height": "50px"}),
	)
	box := Layout(root, Viewport(800, 600))
	if h := box.Dimensions.Content.Height; h != 30 {
		t.Errorf("expected explicit height 30, got %f", h)
	}
}

func TestLayoutEngine_ChildrenInsideParentContent(t *testing.T) {
	root := block(map[string]string{"padding": "10px", "border-left-width": "3px"},
		block(map[string]string{"margin": "5px"}),
	)
	box := Layout(root, Viewport(200, 100))
	child := box.Children[0].Dimensions

	if child.Content.X != 18 || child.Content.Y != 15 {
		t.Errorf("expected child at (18,15), got (%f,%f)", child.Content.X, child.Content.Y)
	}
	if child.Content.Width != 177-10 {
		t.Errorf("expected child width 167, got %f", child.Content.Width)
	}
}

func TestLayoutEngine_MalformedValuesAreZero(t *testing.T) {
	box := Layout(block(map[string]string{
		"width":        "wide",
		"margin-left":  "lots",
		"height":       "tall",
		"padding-left": "-4px",
	}), Viewport(800, 600))

	d := box.Dimensions
	if d.Content.Width != 0 || d.Margin.Left != 0 || d.Content.Height != 0 || d.Padding.Left != 0 {
		t.Errorf("expected zeros, got %+v", d)
	}
}

func TestLayoutEngine_InlineLaidOutLikeBlock(t *testing.T) {
	root := styled("span", map[string]string{"width": "200px"},
		styled("span", map[string]string{"width": "100px", "height": "50px"}),
	)
	box := Layout(root, Viewport(300, 300))

	if box.Type != InlineBox || len(box.Children) != 1 || box.Children[0].Type != InlineBox {
		t.Fatalf("inline parents take inline children directly, got %s with %d children", box.Type, len(box.Children))
	}
	if box.Dimensions.Content.Width != 200 || box.Dimensions.Content.Height != 50 {
		t.Errorf("expected 200x50, got %fx%f", box.Dimensions.Content.Width, box.Dimensions.Content.Height)
	}
}

func TestBuildLayoutTree_AnonymousWrapping(t *testing.T) {
	root := block(nil,
		text("a"),
		styled("span", nil),
		block(nil),
		text("b"),
	)
	box := BuildLayoutTree(root)

	var kinds []string
	for _, c := range box.Children {
		kinds = append(kinds, c.Type.String())
	}
	if got := strings.Join(kinds, ","); got != "anonymous,block,anonymous" {
		t.Fatalf("unexpected children %s", got)
	}
	if n := len(box.Children[0].Children); n != 2 {
		t.Errorf("expected the first run of 2 inline children wrapped together, got %d", n)
	}
	if box.Children[0].Style != nil {
		t.Error("anonymous boxes have no style node")
	}
	if box.Count() != root.Count()+2 {
		t.Errorf("box count %d, styled count %d", box.Count(), root.Count())
	}
}

func TestBuildLayoutTree_NoMixedChildrenUnderBlock(t *testing.T) {
	root := block(nil, block(nil, text("x"), block(nil)), text("y"), text("z"), block(nil))
	var check func(b *Box)
	check = func(b *Box) {
		if b.Type == BlockBox {
			for _, c := range b.Children {
				if c.Type == InlineBox {
					t.Errorf("inline box directly under a block box")
				}
			}
		}
		for _, c := range b.Children {
			check(c)
		}
	}
	check(BuildLayoutTree(root))
}

func TestLayout_DisplayNoneRemovesBoxes(t *testing.T) {
	doc := html.NewElement("div", map[string]string{"class": "root"},
		html.NewElement("div", map[string]string{"class": "gone"},
			html.NewElement("div", nil),
			html.NewElement("div", nil),
		),
		html.NewElement("div", nil),
	)
	sheet := css.ParseStylesheet(`div { display: block } .gone { display: none }`)
	box := Layout(css.Resolve(doc, sheet), Viewport(800, 600))

	if got := box.Count(); got != 2 {
		t.Errorf("expected 2 boxes, got %d", got)
	}
}

func TestLayout_NilRoot(t *testing.T) {
	if Layout(nil, Viewport(800, 600)) != nil {
		t.Error("expected nil box tree")
	}
}

func TestLayout_ContainingBlockNotMutated(t *testing.T) {
	vp := Viewport(800, 600)
	Layout(block(nil, block(map[string]string{"height": "10px"})), vp)
	if vp.Content.Height != 600 {
		t.Errorf("viewport was modified: %+v", vp)
	}
}

func TestDumpBoxTree(t *testing.T) {
	root := block(map[string]string{"width": "100px", "height": "20px"}, text("hi"))
	var buf bytes.Buffer
	DumpBoxTree(&buf, Layout(root, Viewport(800, 600)))

	want := strings.Join([]string{
		"block <div> content=(0,0 100x20) margin-box=(0,0 800x20)",
		"  anonymous content=(0,0 100x0) margin-box=(0,0 100x0)",
		"    inline #text content=(0,0 100x0) margin-box=(0,0 100x0)",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}
}
