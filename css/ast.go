package css

// Declaration is a single property/value pair inside a rule.
type Declaration struct {
	Property string // lower-cased property name
	Value    string // raw value text, whitespace-normalized
}

// Rule is a node in the stylesheet tree. Exactly one of the following
// shapes is populated:
//
//   - ruleset: Selectors + Declarations
//   - media block: Media + nested Rules
//   - other at-rule: AtRule (+ Prelude), with Declarations and/or Rules
//     when the at-rule carried a block, neither when it was a statement
//     (e.g. @import)
//
// The breakpoint transform mutates Media strings and filters Declarations
// and Rules in place; it never changes the shape of a node.
type Rule struct {
	Selectors    []string
	Media        string // media query text, without the "@media" keyword
	AtRule       string // at-keyword without "@", e.g. "font-face", "import"
	Prelude      string // at-rule prelude text
	Declarations []Declaration
	Rules        []Rule
}

// IsEmpty reports whether the rule carries nothing worth keeping: no
// declarations, no children and no media or at-rule identity of its own.
func (r *Rule) IsEmpty() bool {
	return len(r.Declarations) == 0 && len(r.Rules) == 0 && r.Media == "" && r.AtRule == ""
}

// Stylesheet is a parsed CSS stylesheet.
type Stylesheet struct {
	Rules    []Rule
	Warnings []string // notes about constructs the parser passed over
}
