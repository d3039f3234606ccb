package rule

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// Universal is the reserved problem name whose rules apply to every problem.
const Universal = "universal"

// Book maps problem names to their ordered rule lists, as parsed from a
// .aup rule file. Built once per grading run and immutable afterwards.
type Book struct {
	rules map[string][]Rule
}

// ParseBook reads a line-oriented .aup rule file. Each line is one of:
//
//	# comment (or a blank line)
//	problem <name>
//	require|ban node|function|method <target>
//
// Parsing starts in the implicit problem "universal", which is always
// present in the result. Re-entering a problem name appends to its list,
// and rule order within a list follows file order. Unrecognized lines are
// logged as warnings and skipped; ParseBook fails only on a read error or
// on a node rule naming an unknown grammar category (a configuration
// error, fatal by contract).
func ParseBook(r io.Reader, logger *slog.Logger) (*Book, error) {
	if logger == nil {
		logger = slog.Default()
	}

	book := &Book{rules: map[string][]Rule{Universal: {}}}
	current := Universal

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := strings.Fields(line)

		switch {
		case len(fields) == 0 || fields[0] == "#":
			continue

		case len(fields) == 2 && fields[0] == "problem":
			current = fields[1]
			if _, ok := book.rules[current]; !ok {
				book.rules[current] = []Rule{}
			}

		case len(fields) == 3 && isDirective(fields[0], fields[1]):
			parsed, err := New(polarityOf(fields[0]), kindOf(fields[1]), fields[2])
			if err != nil {
				return nil, fmt.Errorf("rule file line %d (%q): %w", lineNum, strings.TrimSpace(line), err)
			}
			book.rules[current] = append(book.rules[current], parsed)

		default:
			logger.Warn("unrecognized rule directive",
				slog.Int("line", lineNum),
				slog.String("text", strings.TrimSpace(line)))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	return book, nil
}

func isDirective(verb, kind string) bool {
	switch verb {
	case "require", "ban":
	default:
		return false
	}
	switch kind {
	case "node", "function", "method":
	default:
		return false
	}
	return true
}

func polarityOf(verb string) Polarity {
	if verb == "ban" {
		return Ban
	}
	return Require
}

func kindOf(word string) Kind {
	switch word {
	case "function":
		return Function
	case "method":
		return Method
	default:
		return Node
	}
}

// Rules returns the rule list registered for a problem, nil when unknown.
// The universal list is not included; see RulesFor.
func (b *Book) Rules(problem string) []Rule {
	return b.rules[problem]
}

// RulesFor returns the universal rules followed by the problem's own rules,
// in the order the checker should evaluate them.
func (b *Book) RulesFor(problem string) []Rule {
	universal := b.rules[Universal]
	specific := b.rules[problem]
	merged := make([]Rule, 0, len(universal)+len(specific))
	merged = append(merged, universal...)
	merged = append(merged, specific...)
	return merged
}

// Problems lists the problem names in sorted order, excluding universal.
func (b *Book) Problems() []string {
	names := make([]string, 0, len(b.rules))
	for name := range b.rules {
		if name != Universal {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Has reports whether the book defines a rule list for problem.
func (b *Book) Has(problem string) bool {
	_, ok := b.rules[problem]
	return ok
}
