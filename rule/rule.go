// Package rule defines the policy rule model, the .aup rule-file parser,
// and the violation records produced when a submission breaks a rule.
package rule

import (
	"errors"
	"fmt"
)

// Polarity says whether a rule demands the presence of its target (Require)
// or its absence (Ban).
type Polarity int

const (
	Require Polarity = iota
	Ban
)

func (p Polarity) String() string {
	if p == Ban {
		return "Ban"
	}
	return "Require"
}

// Kind is the category of syntax element a rule targets.
type Kind int

const (
	// Node targets a syntax-tree node category, e.g. While or while_statement.
	Node Kind = iota
	// Function targets a call whose callee is a bare identifier.
	Function
	// Method targets an attribute access by member name, invoked or not.
	Method
)

func (k Kind) String() string {
	switch k {
	case Function:
		return "Function"
	case Method:
		return "Method"
	default:
		return "Node"
	}
}

// Common rule errors.
var (
	// ErrUnknownNodeCategory is returned when a node rule names a category
	// the analyzed grammar does not define.
	ErrUnknownNodeCategory = errors.New("unknown node category")

	// ErrEmptyTarget is returned when a rule is constructed without a target name.
	ErrEmptyTarget = errors.New("empty rule target")
)

// Rule is an immutable policy rule descriptor. Two rules are equal iff
// polarity, kind, and name all match, so values compare with ==.
type Rule struct {
	Polarity Polarity
	Kind     Kind
	Name     string

	// nodeType is the canonical grammar node type for Node rules,
	// resolved once at construction.
	nodeType string
}

// New constructs a Rule. For Node rules the target name must resolve to a
// category of the Python grammar (either a tree-sitter node type or a
// CPython ast alias); otherwise New fails with ErrUnknownNodeCategory.
func New(polarity Polarity, kind Kind, name string) (Rule, error) {
	if name == "" {
		return Rule{}, ErrEmptyTarget
	}
	r := Rule{Polarity: polarity, Kind: kind, Name: name}
	if kind == Node {
		canonical, ok := ResolveCategory(name)
		if !ok {
			return Rule{}, fmt.Errorf("%w: %q", ErrUnknownNodeCategory, name)
		}
		r.nodeType = canonical
	}
	return r, nil
}

// NodeType returns the canonical grammar node type a Node rule matches.
// Empty for Function and Method rules.
func (r Rule) NodeType() string {
	return r.nodeType
}

// Describe returns the stable label <Polarity><Kind>(<name>), e.g.
// BanNode(While) or RequireFunction(factorial). Report text and tests
// depend on this form staying name-stable across runs.
func (r Rule) Describe() string {
	return fmt.Sprintf("%s%s(%s)", r.Polarity, r.Kind, r.Name)
}
