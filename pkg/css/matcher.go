package css

import (
	"github.com/kimtth/jerry-web-render-was/pkg/html"
)

// Matches reports whether a simple selector matches an element: tag
// equality (or no tag), id equality when the selector has one, and every
// selector class present on the element.
func Matches(node *html.Node, sel Selector) bool {
	if node.Type != html.ElementNode {
		return false
	}
	if sel.Tag != "" && sel.Tag != node.TagName {
		return false
	}
	if sel.ID != "" {
		if id, ok := node.ID(); !ok || id != sel.ID {
			return false
		}
	}
	if len(sel.Classes) > 0 {
		classes := node.Classes()
		for _, c := range sel.Classes {
			if _, ok := classes[c]; !ok {
				return false
			}
		}
	}
	return true
}

// MatchedRule pairs a rule with the highest specificity among its selectors
// that matched.
type MatchedRule struct {
	Specificity Specificity
	Rule        *Rule
}

// FindMatchingRules returns all rules with at least one selector matching
// the node, in stylesheet order.
func FindMatchingRules(node *html.Node, sheet *Stylesheet) []MatchedRule {
	if sheet == nil {
		return nil
	}
	var matches []MatchedRule
	for i := range sheet.Rules {
		rule := &sheet.Rules[i]
		var (
			best    Specificity
			matched bool
		)
		for _, sel := range rule.Selectors {
			if !Matches(node, sel) {
				continue
			}
			if spec := sel.Specificity(); !matched || best.Less(spec) {
				best = spec
			}
			matched = true
		}
		if matched {
			matches = append(matches, MatchedRule{Specificity: best, Rule: rule})
		}
	}
	return matches
}
