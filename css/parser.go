package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS text into a stylesheet tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	sheet.Rules, _ = p.parseBlock(parser, sheet, true)
	if err := parser.Err(); err != nil && err.Error() != "EOF" {
		p.log.Debug("CSS parse error", zap.Error(err))
	}
	return sheet
}

// parseBlock consumes grammar events until the enclosing block (or the
// input, when top is true) ends, returning nested rules and the block's own
// declarations. At-rule blocks may carry either, so both are collected.
func (p *Parser) parseBlock(parser *css.Parser, sheet *Stylesheet, top bool) ([]Rule, []Declaration) {
	var rules []Rule
	var decls []Declaration
	var pending []string // selector group parts seen before the ruleset opens

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			// end of input, or unparsable region skipped by the tokenizer
			if !top {
				sheet.Warnings = append(sheet.Warnings, "unterminated block")
			}
			return rules, decls

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			return rules, decls

		case css.BeginAtRuleGrammar:
			name := strings.ToLower(strings.TrimPrefix(string(data), "@"))
			prelude := tokensToString(parser.Values())
			child, childDecls := p.parseBlock(parser, sheet, false)
			rule := Rule{AtRule: name, Prelude: prelude, Rules: child, Declarations: childDecls}
			if name == "media" {
				rule.AtRule = ""
				rule.Prelude = ""
				rule.Media = prelude
				p.log.Debug("Parsed @media block", zap.String("query", prelude), zap.Int("rules", len(child)))
			}
			rules = append(rules, rule)

		case css.AtRuleGrammar:
			// at-rule without a block, e.g. @import or @charset
			name := strings.ToLower(strings.TrimPrefix(string(data), "@"))
			rules = append(rules, Rule{AtRule: name, Prelude: tokensToString(parser.Values())})

		case css.QualifiedRuleGrammar:
			// one part of a comma-separated selector group; the ruleset
			// itself follows as BeginRulesetGrammar
			pending = append(pending, p.parseSelectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors := append(pending, p.parseSelectors(data, parser.Values())...)
			pending = nil
			child, childDecls := p.parseBlock(parser, sheet, false)
			rules = append(rules, Rule{Selectors: selectors, Declarations: childDecls, Rules: child})

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, Declaration{
				Property: strings.ToLower(string(data)),
				Value:    tokensToString(parser.Values()),
			})

		case css.CommentGrammar, css.TokenGrammar:
			// dropped; the transform has no use for comments
		}
	}
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for _, s := range strings.Split(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// tokensToString reassembles token data into a single raw string with
// whitespace runs collapsed to single spaces. The tokenizer emits no
// whitespace tokens inside parenthesized component values, so spacing there
// is reconstructed structurally: a single space after every colon and comma
// between parentheses. "(min-width:500px)" and "(min-width: 500px)" tokenize
// identically, both come back as the latter.
func tokensToString(tokens []css.Token) string {
	var sb strings.Builder
	depth := 0
	for _, t := range tokens {
		switch t.TokenType {
		case css.WhitespaceToken:
			if s := sb.String(); len(s) > 0 && s[len(s)-1] != ' ' {
				sb.WriteByte(' ')
			}
			continue
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		}
		sb.Write(t.Data)
		if depth > 0 && (t.TokenType == css.ColonToken || t.TokenType == css.CommaToken) {
			sb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(sb.String())
}
