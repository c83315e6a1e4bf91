package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Parser parses CSS stylesheets into rules. Only simple selectors
// (tag#id.class) are supported; rules with nothing but unsupported
// selectors are dropped with a warning, @-rules are skipped.
// A Parser is not safe for concurrent use.
type Parser struct {
	log   *zap.Logger
	lower cases.Caser
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		log:   log.Named("css-parser"),
		lower: cases.Lower(language.Und),
	}
}

// ParseStylesheet parses CSS text with a silent parser.
func ParseStylesheet(text string) *Stylesheet {
	return NewParser(nil).Parse([]byte(text))
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	lastErr := -1
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); !atEOF(err) && !stuck(parser, &lastErr) {
				p.warn(sheet, "syntax error: %v", err)
				continue
			}
			p.log.Debug("Parsed CSS", zap.Int("rules", len(sheet.Rules)), zap.Int("warnings", len(sheet.Warnings)))
			return sheet

		case css.BeginAtRuleGrammar:
			p.log.Debug("Skipping @-rule block", zap.ByteString("rule", data))
			p.skipAtRuleBlock(parser)

		case css.AtRuleGrammar:
			p.log.Debug("Skipping @-rule", zap.ByteString("rule", data))

		case css.BeginRulesetGrammar:
			selectors := p.parseSelectors(data, parser.Values(), sheet)
			decls := p.parseDeclarations(parser, sheet)
			if len(selectors) == 0 {
				continue
			}
			sheet.Add(selectors, decls)
		}
	}
}

// ParseInline parses the body of a style attribute.
func (p *Parser) ParseInline(text string) []Declaration {
	parser := css.NewParser(parse.NewInput(strings.NewReader(text)), true)
	var decls []Declaration
	lastErr := -1
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if atEOF(parser.Err()) || stuck(parser, &lastErr) {
				return decls
			}
		case css.DeclarationGrammar:
			decls = append(decls, p.declaration(data, parser.Values())...)
		}
	}
}

// parseSelectors splits the prelude of a ruleset on commas and keeps the
// selectors we know how to match.
func (p *Parser) parseSelectors(data []byte, values []css.Token, sheet *Stylesheet) []Selector {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	prelude := strings.TrimSpace(strings.Trim(sb.String(), "{"))

	var selectors []Selector
	for s := range strings.SplitSeq(prelude, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		sel, ok := p.parseSimpleSelector(s)
		if !ok {
			p.warn(sheet, "unsupported selector %q", s)
			continue
		}
		selectors = append(selectors, sel)
	}
	return selectors
}

// parseSimpleSelector parses `type#id.class1.class2`, or `*`.
func (p *Parser) parseSimpleSelector(s string) (Selector, bool) {
	var sel Selector
	if s == "*" {
		return sel, true
	}

	i := 0
	ident := func() string {
		start := i
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		return s[start:i]
	}

	if s[0] == '*' {
		i++
	} else if isIdentChar(s[0]) {
		sel.Tag = p.lower.String(ident())
	}
	for i < len(s) {
		c := s[i]
		i++
		name := ident()
		if name == "" {
			return Selector{}, false
		}
		switch c {
		case '#':
			if sel.ID != "" {
				return Selector{}, false
			}
			sel.ID = name
		case '.':
			sel.Classes = append(sel.Classes, name)
		default:
			return Selector{}, false
		}
	}
	return sel, true
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c >= 0x80
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
// A malformed declaration is skipped; the parser resumes at the next one.
func (p *Parser) parseDeclarations(parser *css.Parser, sheet *Stylesheet) []Declaration {
	var decls []Declaration
	lastErr := -1
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.EndRulesetGrammar:
			return decls

		case css.ErrorGrammar:
			if err := parser.Err(); atEOF(err) || stuck(parser, &lastErr) {
				return decls
			} else {
				p.warn(sheet, "malformed declaration: %v", err)
			}

		case css.DeclarationGrammar:
			decls = append(decls, p.declaration(data, parser.Values())...)

		case css.CustomPropertyGrammar:
			continue
		}
	}
}

// declaration builds the longhand declarations for one property.
func (p *Parser) declaration(name []byte, tokens []css.Token) []Declaration {
	property := p.lower.String(strings.TrimSpace(string(name)))
	value := tokensToString(tokens)
	if property == "" || value == "" {
		return nil
	}
	return ExpandShorthand(property, value)
}

// tokensToString joins value tokens, collapsing whitespace and dropping an
// !important suffix (importance is not part of this cascade).
func tokensToString(tokens []css.Token) string {
	var sb strings.Builder
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.TokenType {
		case css.WhitespaceToken:
			sb.WriteByte(' ')
		case css.DelimToken:
			if string(t.Data) == "!" {
				i = len(tokens)
				continue
			}
			sb.Write(t.Data)
		default:
			sb.Write(t.Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func atEOF(err error) bool {
	return err == nil || errors.Is(err, io.EOF)
}

// stuck reports a second error at the same input offset, which means the
// tokenizer itself has failed and will not advance.
func stuck(parser *css.Parser, last *int) bool {
	off := parser.Offset()
	if off == *last {
		return true
	}
	*last = off
	return false
}

func (p *Parser) warn(sheet *Stylesheet, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	sheet.Warnings = append(sheet.Warnings, msg)
	p.log.Debug("CSS warning", zap.String("warning", msg))
}
