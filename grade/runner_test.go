package grade

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/shortcheck/rule"
)

func writeSubmission(t *testing.T, codeDir, netid, problem, source string) {
	t.Helper()
	dir := filepath.Join(codeDir, netid)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, problem+".py"), []byte(source), 0644))
}

func testBook(t *testing.T, text string) *rule.Book {
	t.Helper()
	book, err := rule.ParseBook(strings.NewReader(text), nil)
	require.NoError(t, err)
	return book
}

func TestRunnerZeroesViolatedScores(t *testing.T) {
	codeDir := t.TempDir()
	writeSubmission(t, codeDir, "alice", "p1", "total = 0\nwhile total < 3:\n    total += 1\n")
	writeSubmission(t, codeDir, "bob", "p1", "total = sum(range(3))\n")

	book := testBook(t, "problem p1\nban node While\n")
	roster := loadSample(t)

	runner := NewRunner(nil)
	violations, err := runner.Run(context.Background(), roster, book, codeDir)
	require.NoError(t, err)

	require.Len(t, violations["alice"]["p1"], 1)
	assert.Equal(t, "BanNode(While)", violations["alice"]["p1"][0].Rule)
	assert.Equal(t, 2, violations["alice"]["p1"][0].Line)
	assert.Empty(t, violations["bob"]["p1"])

	assert.Equal(t, "0", roster.Points("alice", "p1"))
	assert.Equal(t, "4", roster.Points("bob", "p1"))
}

func TestRunnerAppliesUniversalRules(t *testing.T) {
	codeDir := t.TempDir()
	writeSubmission(t, codeDir, "alice", "p2", "out = sep.join(words)\n")

	book := testBook(t, "ban method join\nproblem p2\nrequire function print\n")

	runner := NewRunner(nil)
	violations, err := runner.Run(context.Background(), nil, book, codeDir)
	require.NoError(t, err)

	got := violations["alice"]["p2"]
	require.Len(t, got, 2)
	assert.Equal(t, "BanMethod(join)", got[0].Rule)
	assert.Equal(t, "RequireFunction(print)", got[1].Rule)
}

func TestRunnerUnparsableSubmissionHasNoViolations(t *testing.T) {
	// A submission that does not parse cannot violate any rule; flagging
	// broken code is the grader's job, not the checker's.
	codeDir := t.TempDir()
	writeSubmission(t, codeDir, "alice", "p1", "def broken(:\n")

	book := testBook(t, "problem p1\nrequire node While\n")
	roster := loadSample(t)

	runner := NewRunner(nil)
	violations, err := runner.Run(context.Background(), roster, book, codeDir)
	require.NoError(t, err)

	assert.Empty(t, violations["alice"]["p1"])
	assert.Equal(t, "5", roster.Points("alice", "p1"), "score untouched")
}

func TestRunnerIgnoresNonPythonFiles(t *testing.T) {
	codeDir := t.TempDir()
	writeSubmission(t, codeDir, "alice", "p1", "x = 1\n")
	require.NoError(t, os.WriteFile(filepath.Join(codeDir, "alice", "notes.txt"), []byte("while\n"), 0644))

	book := testBook(t, "ban node While\n")

	runner := NewRunner(nil)
	violations, err := runner.Run(context.Background(), nil, book, codeDir)
	require.NoError(t, err)

	require.Contains(t, violations, "alice")
	assert.Len(t, violations["alice"], 1)
	assert.Contains(t, violations["alice"], "p1")
}

func TestRunnerRunIDsAreUnique(t *testing.T) {
	a := NewRunner(nil)
	b := NewRunner(nil)
	assert.NotEqual(t, a.RunID(), b.RunID())
}
