package css

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Transparent is the zero color; painting it has no effect.
var Transparent = color.NRGBA{}

// ParseColor parses #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba(), the
// keyword transparent and the CSS named colors. Channels are straight (not
// premultiplied) alpha.
func ParseColor(colorStr string) (color.NRGBA, bool) {
	colorStr = strings.ToLower(strings.TrimSpace(colorStr))
	switch {
	case colorStr == "":
		return Transparent, false
	case colorStr == "transparent":
		return Transparent, true
	case strings.HasPrefix(colorStr, "#"):
		return parseHexColor(colorStr[1:])
	case strings.HasPrefix(colorStr, "rgb(") || strings.HasPrefix(colorStr, "rgba("):
		return parseRGBFunc(colorStr)
	}
	if c, ok := colornames.Map[colorStr]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return Transparent, false
}

func parseHexColor(hex string) (color.NRGBA, bool) {
	// expand short forms to rrggbbaa
	switch len(hex) {
	case 3, 4:
		var sb strings.Builder
		for _, ch := range hex {
			sb.WriteRune(ch)
			sb.WriteRune(ch)
		}
		hex = sb.String()
	}
	switch len(hex) {
	case 6:
		hex += "ff"
	case 8:
	default:
		return Transparent, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Transparent, false
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, true
}

func parseRGBFunc(s string) (color.NRGBA, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Transparent, false
	}
	body := s[open+1 : len(s)-1]
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	args := strings.Fields(body)
	if len(args) != 3 && len(args) != 4 {
		return Transparent, false
	}

	var ch [3]uint8
	for i := range ch {
		v, ok := parseChannel(args[i])
		if !ok {
			return Transparent, false
		}
		ch[i] = v
	}
	alpha := uint8(255)
	if len(args) == 4 {
		a, ok := parseAlpha(args[3])
		if !ok {
			return Transparent, false
		}
		alpha = a
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, true
}

func parseChannel(arg string) (uint8, bool) {
	if strings.HasSuffix(arg, "%") {
		v, ok := parseFinite(strings.TrimSuffix(arg, "%"))
		if !ok {
			return 0, false
		}
		return clampByte(v * 255 / 100), true
	}
	v, ok := parseFinite(arg)
	if !ok {
		return 0, false
	}
	return clampByte(v), true
}

func parseAlpha(arg string) (uint8, bool) {
	if strings.HasSuffix(arg, "%") {
		v, ok := parseFinite(strings.TrimSuffix(arg, "%"))
		if !ok {
			return 0, false
		}
		return clampByte(v * 255 / 100), true
	}
	v, ok := parseFinite(arg)
	if !ok {
		return 0, false
	}
	return clampByte(v * 255), true
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func clampByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
