package css

import "strings"

var sides = [4]string{"top", "right", "bottom", "left"}

// ExpandShorthand turns a declaration into the longhand declarations it
// stands for, in a fixed order. Declarations that are not shorthands are
// returned unchanged.
func ExpandShorthand(property, value string) []Declaration {
	switch property {
	case "margin", "padding":
		return expandBoxProperty(property+"-%s", value)
	case "border-width":
		return expandBoxProperty("border-%s-width", value)
	case "border-style":
		return expandBoxProperty("border-%s-style", value)
	case "border-color":
		return expandBoxProperty("border-%s-color", value)
	case "background":
		return expandBackground(value)
	case "border":
		var decls []Declaration
		for _, side := range sides {
			decls = append(decls, expandBorderSide("border-"+side, value)...)
		}
		return decls
	case "border-top", "border-right", "border-bottom", "border-left":
		return expandBorderSide(property, value)
	}
	return []Declaration{{Property: property, Value: value}}
}

// expandBoxProperty expands margin/padding style shorthands.
// Supports: "10px" (all), "10px 20px" (vertical horizontal),
// "10px 20px 30px" (top h bottom), "10px 20px 30px 40px" (t r b l)
func expandBoxProperty(pattern, value string) []Declaration {
	parts := fields(value)

	var vals [4]string // top, right, bottom, left
	switch len(parts) {
	case 1:
		vals = [4]string{parts[0], parts[0], parts[0], parts[0]}
	case 2:
		vals = [4]string{parts[0], parts[1], parts[0], parts[1]}
	case 3:
		vals = [4]string{parts[0], parts[1], parts[2], parts[1]}
	case 4:
		vals = [4]string{parts[0], parts[1], parts[2], parts[3]}
	default:
		return nil
	}

	decls := make([]Declaration, 0, 4)
	for i, side := range sides {
		decls = append(decls, Declaration{
			Property: strings.Replace(pattern, "%s", side, 1),
			Value:    vals[i],
		})
	}
	return decls
}

// expandBorderSide expands "1px solid black" for one side. The line style
// is recorded but every border is painted solid.
func expandBorderSide(prefix, value string) []Declaration {
	var decls []Declaration
	for _, part := range fields(value) {
		switch part {
		case "none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
			decls = append(decls, Declaration{Property: prefix + "-style", Value: part})
			continue
		case "thin":
			part = "1px"
		case "medium":
			part = "3px"
		case "thick":
			part = "5px"
		}
		if l, ok := ParseLength(part); ok && !l.Auto && !l.Percent {
			decls = append(decls, Declaration{Property: prefix + "-width", Value: part})
		} else {
			decls = append(decls, Declaration{Property: prefix + "-color", Value: part})
		}
	}
	return decls
}

// expandBackground keeps only the color layer of the background shorthand.
// A shorthand without a color resets it to transparent.
func expandBackground(value string) []Declaration {
	bg := "transparent"
	for _, part := range fields(value) {
		if _, ok := ParseColor(part); ok {
			bg = part
			break
		}
	}
	return []Declaration{{Property: "background-color", Value: bg}}
}

// fields splits a value on whitespace outside parentheses, so that
// "rgb(1, 2, 3)" stays a single component.
func fields(value string) []string {
	var (
		parts []string
		depth int
		start = -1
	)
	for i, r := range value {
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'):
			if start >= 0 {
				parts = append(parts, value[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, value[start:])
	}
	return parts
}
