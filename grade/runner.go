package grade

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/edugrade/shortcheck/checker"
	"github.com/edugrade/shortcheck/rule"
)

// Violations maps netid -> problem -> violations found in that submission.
type Violations map[string]map[string][]rule.Violation

// Runner evaluates every submission in a code directory against a rule book.
// A Runner owns one checker and is not safe for concurrent use.
type Runner struct {
	checker *checker.Checker
	logger  *slog.Logger
	runID   string
}

// NewRunner creates a runner. Each runner carries a fresh run id that is
// threaded through its log output.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		checker: checker.New(),
		logger:  logger,
		runID:   uuid.New().String(),
	}
}

// RunID identifies this grading run in logs.
func (r *Runner) RunID() string {
	return r.runID
}

// Run walks codeDir for <netid>/<problem>.py submissions, evaluates each
// against the book's universal rules plus the problem's own rules, and
// zeroes the roster score of any (student, problem) with violations.
// Submissions are visited in sorted path order so runs are reproducible.
func (r *Runner) Run(ctx context.Context, roster *Roster, book *rule.Book, codeDir string) (Violations, error) {
	paths, err := doublestar.FilepathGlob(filepath.Join(codeDir, "*", "*.py"))
	if err != nil {
		return nil, fmt.Errorf("discover submissions: %w", err)
	}
	sort.Strings(paths)

	found := Violations{}
	for _, path := range paths {
		netid := filepath.Base(filepath.Dir(path))
		problem := strings.TrimSuffix(filepath.Base(path), ".py")

		violations, err := r.CheckFile(ctx, path, book.RulesFor(problem))
		if err != nil {
			return nil, err
		}

		if found[netid] == nil {
			found[netid] = make(map[string][]rule.Violation)
		}
		found[netid][problem] = violations

		if len(violations) == 0 {
			continue
		}
		r.logger.Info("violations found",
			slog.String("run_id", r.runID),
			slog.String("netid", netid),
			slog.String("problem", problem),
			slog.Int("count", len(violations)))
		for _, v := range violations {
			r.logger.Warn(v.String(),
				slog.String("netid", netid),
				slog.String("problem", problem))
		}
		if roster != nil {
			roster.ZeroScore(netid, problem)
		}
	}
	return found, nil
}

// CheckFile evaluates a single submission file against a rule list.
func (r *Runner) CheckFile(ctx context.Context, path string, rules []rule.Rule) ([]rule.Violation, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	violations, err := r.checker.Evaluate(ctx, source, rules)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", path, err)
	}
	return violations, nil
}
