package rule

import "fmt"

// Violation records one broken rule in one file. Violations are created by
// the checker and never mutated afterwards.
type Violation struct {
	// Rule is the stable label of the violated rule, from Rule.Describe.
	Rule string
	// Line is the 1-indexed source line of the last match, or 0 when the
	// target was never seen (a Require rule with no match has no single
	// point of blame).
	Line int
	// Text is the source line at Line with trailing whitespace trimmed,
	// empty when unavailable.
	Text string
}

// String renders the violation for human consumption.
func (v Violation) String() string {
	if v.Line == 0 {
		return fmt.Sprintf("rule %s not fulfilled", v.Rule)
	}
	if v.Text == "" {
		return fmt.Sprintf("rule %s violated on line %d", v.Rule, v.Line)
	}
	return fmt.Sprintf("rule %s violated on line %d: `%s`", v.Rule, v.Line, v.Text)
}

// FormatAll renders violations in input order.
func FormatAll(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.String())
	}
	return out
}
