// Package checker evaluates policy rules against Python source text.
//
// A single depth-first traversal of the tree-sitter parse tree drives every
// rule at once, so evaluation cost stays linear in tree size regardless of
// how many rules are active, and every rule observes the same tree.
package checker

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/edugrade/shortcheck/rule"
)

// Checker parses Python source and evaluates rule lists against it.
// A Checker owns one tree-sitter parser and must not be shared across
// goroutines; evaluations allocate all per-rule state fresh per call.
type Checker struct {
	parser *sitter.Parser
}

// New creates a checker for Python source.
func New() *Checker {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Checker{parser: p}
}

// ruleState is the per-rule scan state for one evaluation.
type ruleState struct {
	triggered bool
	line      int
}

// Evaluate parses source and returns one Violation for every rule in rules
// the source fails to satisfy, in rule order. A Ban rule is violated when
// its target appears anywhere; a Require rule when it never does. Source
// that does not parse yields no violations: policy compliance of broken
// code is decided upstream, not here.
func (c *Checker) Evaluate(ctx context.Context, source []byte, rules []rule.Rule) ([]rule.Violation, error) {
	tree, err := c.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, nil
	}

	states := make([]ruleState, len(rules))
	walk(root, source, rules, states)

	lines := sourceLines(source)
	var violations []rule.Violation
	for i, r := range rules {
		if satisfied(r, states[i]) {
			continue
		}
		v := rule.Violation{Rule: r.Describe(), Line: states[i].line}
		if v.Line >= 1 && v.Line <= len(lines) {
			v.Text = lines[v.Line-1]
		}
		violations = append(violations, v)
	}
	return violations, nil
}

// walk visits node and every named descendant depth-first in source order.
// Later matches overwrite earlier recorded lines, so a rule ends up blaming
// the last occurrence of its target.
func walk(node *sitter.Node, source []byte, rules []rule.Rule, states []ruleState) {
	for i := range rules {
		if matches(rules[i], node, source) {
			states[i].triggered = true
			states[i].line = int(node.StartPoint().Row) + 1
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		walk(node.NamedChild(i), source, rules, states)
	}
}

// matches applies one rule's predicate to one node. Method rules trigger on
// any attribute access with the target name, whether or not it is invoked:
// the policy intent ("don't touch .join") is conservative on purpose.
func matches(r rule.Rule, node *sitter.Node, source []byte) bool {
	switch r.Kind {
	case rule.Node:
		return node.Type() == r.NodeType()
	case rule.Function:
		if node.Type() != "call" {
			return false
		}
		callee := node.ChildByFieldName("function")
		return callee != nil && callee.Type() == "identifier" && callee.Content(source) == r.Name
	case rule.Method:
		if node.Type() != "attribute" {
			return false
		}
		attr := node.ChildByFieldName("attribute")
		return attr != nil && attr.Content(source) == r.Name
	}
	return false
}

func satisfied(r rule.Rule, s ruleState) bool {
	if r.Polarity == rule.Ban {
		return !s.triggered
	}
	return s.triggered
}

// sourceLines splits source into 1-indexed lines, trailing whitespace trimmed.
func sourceLines(source []byte) []string {
	lines := strings.Split(string(source), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return lines
}
