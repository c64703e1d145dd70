package css

import (
	"fmt"
	"io"
	"strings"
)

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Declarations keep their source order; the transform must not reorder
// properties it did not touch.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.Rules {
		n, err := writeRule(w, &s.Rules[i], "")
		total += int64(n)
		if err != nil {
			return total, err
		}
		// blank line between top-level rules (except after last)
		if i < len(s.Rules)-1 {
			m, err := fmt.Fprint(w, "\n")
			total += int64(m)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int

	head := ruleHead(rule)
	if rule.AtRule != "" && len(rule.Declarations) == 0 && len(rule.Rules) == 0 {
		// block-less at-rule, e.g. @import url("a.css");
		n, err := fmt.Fprintf(w, "%s%s;\n", indent, head)
		return total + n, err
	}

	n, err := fmt.Fprintf(w, "%s%s {\n", indent, head)
	total += n
	if err != nil {
		return total, err
	}

	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, d.Property, d.Value)
		total += n
		if err != nil {
			return total, err
		}
	}

	for i := range rule.Rules {
		if i > 0 || len(rule.Declarations) > 0 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err = writeRule(w, &rule.Rules[i], indent+"  ")
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprintf(w, "%s}\n", indent)
	return total + n, err
}

func ruleHead(rule *Rule) string {
	switch {
	case rule.Media != "":
		return "@media " + rule.Media
	case rule.AtRule != "":
		if rule.Prelude == "" {
			return "@" + rule.AtRule
		}
		return "@" + rule.AtRule + " " + rule.Prelude
	default:
		return strings.Join(rule.Selectors, ", ")
	}
}
