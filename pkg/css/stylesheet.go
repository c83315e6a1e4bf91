package css

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// Selector is a simple selector: an optional tag, an optional id and a set
// of classes, all of which must match. A selector with none of them is the
// universal selector.
type Selector struct {
	Tag     string
	ID      string
	Classes []string
}

// Specificity ranks selectors as (ids, classes, tags), compared
// lexicographically.
type Specificity [3]int

// Less reports whether s ranks strictly below o.
func (s Specificity) Less(o Specificity) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

func (s Selector) Specificity() Specificity {
	var spec Specificity
	if s.ID != "" {
		spec[0] = 1
	}
	spec[1] = len(s.Classes)
	if s.Tag != "" {
		spec[2] = 1
	}
	return spec
}

// String renders the selector back into CSS syntax.
func (s Selector) String() string {
	var sb strings.Builder
	sb.WriteString(s.Tag)
	if s.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(s.ID)
	}
	for _, c := range s.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Declaration is a single property: value pair.
type Declaration struct {
	Property string
	Value    string
}

// Origin is the cascade origin of a rule. User agent rules rank below
// author rules regardless of specificity.
type Origin int

const (
	OriginAuthor Origin = iota
	OriginUserAgent
)

func (o Origin) String() string {
	if o == OriginUserAgent {
		return "user-agent"
	}
	return "author"
}

// Rule is a group of selectors sharing an ordered declaration block.
// SourceIndex is the position of the rule in its stylesheet and breaks
// specificity ties.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
	SourceIndex  int
	Origin       Origin
}

// Stylesheet is an ordered list of rules plus whatever the parser had to
// skip along the way.
type Stylesheet struct {
	Rules    []Rule
	Warnings []string
}

// Add appends a rule, assigning it the next source index.
func (s *Stylesheet) Add(selectors []Selector, decls []Declaration) {
	s.Rules = append(s.Rules, Rule{
		Selectors:    selectors,
		Declarations: decls,
		SourceIndex:  len(s.Rules),
	})
}

// WithOrigin stamps every rule of the sheet with origin o.
func (s *Stylesheet) WithOrigin(o Origin) *Stylesheet {
	for i := range s.Rules {
		s.Rules[i].Origin = o
	}
	return s
}

// Err folds parser warnings into a single error, or nil when there were
// none.
func (s *Stylesheet) Err() error {
	var err error
	for _, w := range s.Warnings {
		err = multierr.Append(err, errors.New(w))
	}
	return err
}

// Merge concatenates stylesheets in order, renumbering source indexes so
// rules from later sheets win specificity ties against earlier ones.
func Merge(sheets ...*Stylesheet) *Stylesheet {
	merged := &Stylesheet{}
	for _, s := range sheets {
		if s == nil {
			continue
		}
		rules := slices.Clone(s.Rules)
		sort.SliceStable(rules, func(i, j int) bool {
			return rules[i].SourceIndex < rules[j].SourceIndex
		})
		for _, r := range rules {
			r.SourceIndex = len(merged.Rules)
			merged.Rules = append(merged.Rules, r)
		}
		merged.Warnings = append(merged.Warnings, s.Warnings...)
	}
	return merged
}

// DumpStylesheet writes one line per rule with its source index, origin,
// selectors and declarations.
func DumpStylesheet(w io.Writer, s *Stylesheet) {
	if s == nil {
		return
	}
	for _, r := range s.Rules {
		sels := make([]string, len(r.Selectors))
		for i, sel := range r.Selectors {
			sels[i] = sel.String()
		}
		fmt.Fprintf(w, "%d [%s] %s {", r.SourceIndex, r.Origin, strings.Join(sels, ", "))
		for _, d := range r.Declarations {
			fmt.Fprintf(w, " %s: %s;", d.Property, d.Value)
		}
		fmt.Fprintln(w, " }")
	}
}
