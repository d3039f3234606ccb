package checker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/shortcheck/rule"
)

func mustRule(t *testing.T, polarity rule.Polarity, kind rule.Kind, name string) rule.Rule {
	t.Helper()
	r, err := rule.New(polarity, kind, name)
	require.NoError(t, err)
	return r
}

func evaluate(t *testing.T, source string, rules ...rule.Rule) []rule.Violation {
	t.Helper()
	violations, err := New().Evaluate(context.Background(), []byte(source), rules)
	require.NoError(t, err)
	return violations
}

func TestBanAbsentTargetNoViolation(t *testing.T) {
	source := "x = 1\nprint(x)\n"
	violations := evaluate(t, source, mustRule(t, rule.Ban, rule.Node, "While"))
	assert.Empty(t, violations)
}

func TestRequireAbsentTargetViolationWithoutLine(t *testing.T) {
	source := "x = 1\n"
	violations := evaluate(t, source, mustRule(t, rule.Require, rule.Function, "factorial"))

	require.Len(t, violations, 1)
	assert.Equal(t, "RequireFunction(factorial)", violations[0].Rule)
	assert.Zero(t, violations[0].Line)
	assert.Empty(t, violations[0].Text)
}

func TestBanPresentTargetRecordsLine(t *testing.T) {
	source := "x = 10\nwhile x:\n    x -= 1\n"
	violations := evaluate(t, source, mustRule(t, rule.Ban, rule.Node, "While"))

	require.Len(t, violations, 1)
	assert.Equal(t, 2, violations[0].Line)
	assert.Equal(t, "while x:", violations[0].Text)
}

func TestLastMatchWins(t *testing.T) {
	// Calls to print on lines 3 and 7; the recorded line is the last one.
	source := strings.Join([]string{
		"x = 1",
		"y = 2",
		"print(x)",
		"z = 3",
		"w = 4",
		"v = 5",
		"print(z)",
	}, "\n") + "\n"

	violations := evaluate(t, source, mustRule(t, rule.Ban, rule.Function, "print"))
	require.Len(t, violations, 1)
	assert.Equal(t, 7, violations[0].Line)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	source := "while True:\n    pass\n"
	rules := []rule.Rule{
		mustRule(t, rule.Ban, rule.Node, "While"),
		mustRule(t, rule.Require, rule.Function, "factorial"),
	}

	c := New()
	first, err := c.Evaluate(context.Background(), []byte(source), rules)
	require.NoError(t, err)
	second, err := c.Evaluate(context.Background(), []byte(source), rules)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecursiveFactorialFollowsRules(t *testing.T) {
	source := "def factorial(n): return 1 if n == 0 else n * factorial(n - 1)\n"
	rules := []rule.Rule{
		mustRule(t, rule.Ban, rule.Node, "While"),
		mustRule(t, rule.Require, rule.Function, "factorial"),
	}

	violations := evaluate(t, source, rules...)
	assert.Empty(t, violations)
}

func TestIterativeFactorialBreaksBothRules(t *testing.T) {
	source := strings.Join([]string{
		"def fact(n):",
		"    total = 1",
		"    while n > 1:",
		"        total *= n",
		"        n -= 1",
		"    return total",
	}, "\n") + "\n"
	rules := []rule.Rule{
		mustRule(t, rule.Ban, rule.Node, "While"),
		mustRule(t, rule.Require, rule.Function, "factorial"),
	}

	violations := evaluate(t, source, rules...)
	require.Len(t, violations, 2)

	assert.Equal(t, "BanNode(While)", violations[0].Rule)
	assert.Equal(t, 3, violations[0].Line)

	assert.Equal(t, "RequireFunction(factorial)", violations[1].Rule)
	assert.Zero(t, violations[1].Line)
}

func TestMethodRuleMatchesInvokedCall(t *testing.T) {
	source := `result = sep.join(words)` + "\n"
	violations := evaluate(t, source, mustRule(t, rule.Ban, rule.Method, "join"))

	require.Len(t, violations, 1)
	assert.Equal(t, "BanMethod(join)", violations[0].Rule)
	assert.Equal(t, 1, violations[0].Line)
}

func TestMethodRuleMatchesBareReference(t *testing.T) {
	// Referencing the attribute without calling it still triggers the rule.
	source := "f = sep.join\n"
	violations := evaluate(t, source, mustRule(t, rule.Ban, rule.Method, "join"))

	require.Len(t, violations, 1)
	assert.Equal(t, 1, violations[0].Line)
}

func TestFunctionRuleIgnoresQualifiedCallees(t *testing.T) {
	// obj.helper() is a method-style call, not a bare-identifier call.
	source := "obj.helper()\n"
	violations := evaluate(t, source, mustRule(t, rule.Ban, rule.Function, "helper"))
	assert.Empty(t, violations)
}

func TestUnparsableSourceYieldsNoViolations(t *testing.T) {
	source := "def broken(:\n"
	rules := []rule.Rule{
		mustRule(t, rule.Require, rule.Function, "factorial"),
		mustRule(t, rule.Ban, rule.Node, "While"),
	}

	violations := evaluate(t, source, rules...)
	assert.Empty(t, violations)
}

func TestViolationTextTrimsTrailingWhitespace(t *testing.T) {
	source := "while True:   \n    pass\n"
	violations := evaluate(t, source, mustRule(t, rule.Ban, rule.Node, "While"))

	require.Len(t, violations, 1)
	assert.Equal(t, "while True:", violations[0].Text)
}

func TestViolationOrderFollowsRuleOrder(t *testing.T) {
	source := "lst = [x for x in range(3)]\n"
	rules := []rule.Rule{
		mustRule(t, rule.Ban, rule.Node, "ListComp"),
		mustRule(t, rule.Require, rule.Node, "While"),
		mustRule(t, rule.Require, rule.Function, "print"),
	}

	violations := evaluate(t, source, rules...)
	require.Len(t, violations, 3)
	assert.Equal(t, "BanNode(ListComp)", violations[0].Rule)
	assert.Equal(t, "RequireNode(While)", violations[1].Rule)
	assert.Equal(t, "RequireFunction(print)", violations[2].Rule)
}
