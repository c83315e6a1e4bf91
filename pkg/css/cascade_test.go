package css

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kimtth/jerry-web-render-was/pkg/html"
)

func div(attrs map[string]string, children ...*html.Node) *html.Node {
	return html.NewElement("div", attrs, children...)
}

func TestComputeStyle_ElementSelector(t *testing.T) {
	sheet := ParseStylesheet(`div { color: red; }`)
	style := ComputeStyle(div(nil), sheet, nil)

	if color, ok := style.Get("color"); !ok || color != "red" {
		t.Errorf("expected color='red', got '%s'", color)
	}
}

func TestComputeStyle_SpecificityBeatsSourceOrder(t *testing.T) {
	sheet := ParseStylesheet(`
		#header { color: green; }
		.highlight { color: blue; }
		div { color: red; }
	`)
	node := div(map[string]string{"class": "highlight", "id": "header"})

	style := ComputeStyle(node, sheet, nil)
	if color, _ := style.Get("color"); color != "green" {
		t.Errorf("expected color='green' (id outranks class and tag), got '%s'", color)
	}

	style = ComputeStyle(div(map[string]string{"class": "highlight"}), sheet, nil)
	if color, _ := style.Get("color"); color != "blue" {
		t.Errorf("expected color='blue' (class outranks tag), got '%s'", color)
	}
}

func TestComputeStyle_EqualSpecificityLaterWins(t *testing.T) {
	sheet := ParseStylesheet(`
		.a { color: red; width: 1px; }
		.b { color: blue; }
	`)
	style := ComputeStyle(div(map[string]string{"class": "b a"}), sheet, nil)
	if color, _ := style.Get("color"); color != "blue" {
		t.Errorf("expected later rule to win, got '%s'", color)
	}
	if w, _ := style.Get("width"); w != "1px" {
		t.Errorf("expected width from earlier rule to survive, got '%s'", w)
	}
}

func TestComputeStyle_MoreClassesWin(t *testing.T) {
	sheet := ParseStylesheet(`
		.a.b { color: red; }
		.a { color: blue; }
	`)
	style := ComputeStyle(div(map[string]string{"class": "a b"}), sheet, nil)
	if color, _ := style.Get("color"); color != "red" {
		t.Errorf("expected two-class rule to win, got '%s'", color)
	}
}

func TestComputeStyle_GroupUsesBestMatchingSelector(t *testing.T) {
	sheet := ParseStylesheet(`
		#x, span { color: red; }
		.c { color: blue; }
	`)
	style := ComputeStyle(div(map[string]string{"id": "x", "class": "c"}), sheet, nil)
	if color, _ := style.Get("color"); color != "red" {
		t.Errorf("expected id selector of the group to rank, got '%s'", color)
	}
}

func TestComputeStyle_InlineStyleOverridesAll(t *testing.T) {
	sheet := ParseStylesheet(`#header { color: green; }`)
	node := div(map[string]string{"id": "header", "style": "color: purple"})

	style := ComputeStyle(node, sheet, NewParser(nil))
	if color, _ := style.Get("color"); color != "purple" {
		t.Errorf("expected inline style to win, got '%s'", color)
	}
}

func TestComputeStyle_BorderColorOverridesBorderShorthand(t *testing.T) {
	sheet := ParseStylesheet(`div { border: 2px solid black } .x { border-color: red }`)
	style := ComputeStyle(div(map[string]string{"class": "x"}), sheet, nil)

	for _, side := range []string{"top", "right", "bottom", "left"} {
		if c, _ := style.Get("border-" + side + "-color"); c != "red" {
			t.Errorf("border-%s-color = %q, want red", side, c)
		}
		if w, _ := style.Get("border-" + side + "-width"); w != "2px" {
			t.Errorf("border-%s-width = %q, want 2px", side, w)
		}
	}
}

func TestComputeStyle_BackgroundShorthandCompetesWithLonghand(t *testing.T) {
	sheet := ParseStylesheet(`div { background-color: blue } .x { background: red url(x.png) no-repeat } .y { background: none }`)

	style := ComputeStyle(div(map[string]string{"class": "x"}), sheet, nil)
	if c, _ := style.Get("background-color"); c != "red" {
		t.Errorf("background-color = %q, want red", c)
	}
	if _, ok := style.Get("background"); ok {
		t.Error("background shorthand must not survive expansion")
	}

	style = ComputeStyle(div(map[string]string{"class": "y"}), sheet, nil)
	if c, _ := style.Get("background-color"); c != "transparent" {
		t.Errorf("background without a color = %q, want transparent", c)
	}
}

func TestComputeStyle_UserAgentRulesRankBelowAuthor(t *testing.T) {
	sheet := Merge(
		ParseStylesheet(`#u { display: block; color: red }`).WithOrigin(OriginUserAgent),
		ParseStylesheet(`* { display: none }`),
	)
	style := ComputeStyle(div(map[string]string{"id": "u"}), sheet, nil)
	if d := style.Display(); d != DisplayNone {
		t.Errorf("expected author universal rule to beat user agent id rule, got %s", d)
	}
	if c, _ := style.Get("color"); c != "red" {
		t.Errorf("user agent declarations without competition must survive, got %q", c)
	}
}

func TestComputeStyle_NoMatch(t *testing.T) {
	sheet := ParseStylesheet(`p { color: red; }`)
	style := ComputeStyle(div(nil), sheet, nil)
	if style.Len() != 0 {
		t.Errorf("expected empty property map, got %v", style.Properties)
	}
}

func TestResolve_MirrorsTree(t *testing.T) {
	root := div(nil,
		html.NewElement("p", nil, html.NewText("hi")),
		html.NewElement("span", nil),
	)
	styled := Resolve(root, ParseStylesheet(`p { display: block; }`))

	if styled.Count() != root.Count() {
		t.Fatalf("expected %d styled nodes, got %d", root.Count(), styled.Count())
	}
	p := styled.Children[0]
	if p.Node != root.Children[0] {
		t.Error("styled node must reference its source node")
	}
	if p.Display() != DisplayBlock {
		t.Errorf("expected p to be block, got %s", p.Display())
	}
	text := p.Children[0]
	if text.Style.Len() != 0 || text.Display() != DisplayInline {
		t.Error("text nodes get an empty map and are inline")
	}
}

func TestResolve_DisplayNonePrunesSubtree(t *testing.T) {
	root := div(nil,
		div(map[string]string{"class": "gone"}, div(nil), div(nil)),
		div(nil),
	)
	styled := Resolve(root, ParseStylesheet(`.gone { display: none; }`))

	if got := styled.Count(); got != 2 {
		t.Errorf("expected 2 styled nodes, got %d", got)
	}
	if len(styled.Children) != 1 {
		t.Errorf("expected 1 surviving child, got %d", len(styled.Children))
	}
}

func TestResolve_RootDisplayNone(t *testing.T) {
	if styled := Resolve(div(nil), ParseStylesheet(`div { display: none }`)); styled != nil {
		t.Errorf("expected nil tree, got %+v", styled)
	}
	if Resolve(nil, nil) != nil {
		t.Error("expected nil for nil root")
	}
}

func TestResolve_NoInheritance(t *testing.T) {
	root := div(map[string]string{"class": "a"}, html.NewElement("span", nil))
	styled := Resolve(root, ParseStylesheet(`.a { background-color: red; }`))
	if _, ok := styled.Children[0].Style.Get("background-color"); ok {
		t.Error("properties must not be inherited")
	}
}

func TestResolve_Deterministic(t *testing.T) {
	root := div(map[string]string{"class": "a b", "id": "z"},
		html.NewElement("p", map[string]string{"class": "b"}, html.NewText("x")))
	sheet := ParseStylesheet(`.a { width: 1px; height: 2px } .b { width: 3px } #z { margin: 1px } p { color: red }`)

	var first, second bytes.Buffer
	DumpStyleTree(&first, Resolve(root, sheet))
	DumpStyleTree(&second, Resolve(root, sheet))
	if first.String() != second.String() {
		t.Errorf("resolution is not deterministic:\n%s\n---\n%s", first.String(), second.String())
	}
}

func TestDumpStyleTree(t *testing.T) {
	root := div(map[string]string{"class": "a"}, html.NewText("hello"))
	var buf bytes.Buffer
	DumpStyleTree(&buf, Resolve(root, ParseStylesheet(`.a { width: 1px; color: red }`)))

	want := strings.Join([]string{
		"<div>",
		"  color: red",
		"  width: 1px",
		`  #text "hello"`,
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}
}
