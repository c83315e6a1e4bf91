package css

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Style is the resolved property map of a single node. Values are kept as
// written in the stylesheet and interpreted on demand.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	if s == nil {
		return "", false
	}
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// Len returns the number of distinct properties.
func (s *Style) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Properties)
}

// Length is a parsed length value.
type Length struct {
	Value   float64
	Percent bool // Value is a percentage of the containing block width
	Auto    bool
}

var (
	Auto = Length{Auto: true}
	Zero = Length{}
)

// Px returns a pixel length.
func Px(v float64) Length {
	return Length{Value: v}
}

// Resolve converts the length to pixels against a reference size. Auto
// resolves to 0.
func (l Length) Resolve(reference float64) float64 {
	switch {
	case l.Auto:
		return 0
	case l.Percent:
		return l.Value * reference / 100
	}
	return l.Value
}

// ParseLength parses "auto", "12px", "12pt", "12%" or a bare number. The
// boolean is false for anything else, including non-finite numbers.
func ParseLength(val string) (Length, bool) {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == "auto" {
		return Auto, true
	}

	scale, percent := 1.0, false
	switch {
	case strings.HasSuffix(val, "px"):
		val = strings.TrimSuffix(val, "px")
	case strings.HasSuffix(val, "pt"):
		val = strings.TrimSuffix(val, "pt")
		scale = 4.0 / 3.0
	case strings.HasSuffix(val, "%"):
		val = strings.TrimSuffix(val, "%")
		percent = true
	}

	num, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return Zero, false
	}
	return Length{Value: num * scale, Percent: percent}, true
}

// Length returns the named property as a length. Unset and malformed values
// yield def and Zero respectively.
func (s *Style) Length(property string, def Length) Length {
	val, ok := s.Get(property)
	if !ok {
		return def
	}
	l, ok := ParseLength(val)
	if !ok {
		return Zero
	}
	return l
}

// Display is the value of the display property.
type Display string

const (
	DisplayInline Display = "inline"
	DisplayBlock  Display = "block"
	DisplayNone   Display = "none"
)

// Display returns the display type, defaulting to inline.
func (s *Style) Display() Display {
	if val, ok := s.Get("display"); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "block":
			return DisplayBlock
		case "none":
			return DisplayNone
		}
	}
	return DisplayInline
}

// Color returns the named property as a color. Missing, malformed and fully
// transparent values all report false.
func (s *Style) Color(property string) (color.NRGBA, bool) {
	val, ok := s.Get(property)
	if !ok {
		return color.NRGBA{}, false
	}
	c, ok := ParseColor(val)
	if !ok || c.A == 0 {
		return color.NRGBA{}, false
	}
	return c, true
}
