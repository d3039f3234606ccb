// Package grade drives a grading run: the score roster, submission
// discovery, and rule evaluation across a directory of student code.
package grade

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Roster holds the score spreadsheet, indexed by student netid. The CSV
// must have a header row with a "netid" column; per-problem scores live in
// "<problem> passed" and "<problem> cases" columns.
type Roster struct {
	header []string
	cols   map[string]int
	rows   [][]string
	byID   map[string]int
	order  []string
}

// LoadRoster reads a CSV roster.
func LoadRoster(r io.Reader) (*Roster, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("roster csv is empty")
	}

	ros := &Roster{
		header: records[0],
		cols:   make(map[string]int, len(records[0])),
		byID:   make(map[string]int),
	}
	for i, name := range ros.header {
		if _, ok := ros.cols[name]; !ok {
			ros.cols[name] = i
		}
	}
	idCol, ok := ros.cols["netid"]
	if !ok {
		return nil, fmt.Errorf("roster csv has no netid column")
	}

	for _, rec := range records[1:] {
		id := rec[idCol]
		ros.byID[id] = len(ros.rows)
		ros.rows = append(ros.rows, rec)
		ros.order = append(ros.order, id)
	}
	return ros, nil
}

// NetIDs returns the student ids in roster order.
func (r *Roster) NetIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Has reports whether netid appears in the roster.
func (r *Roster) Has(netid string) bool {
	_, ok := r.byID[netid]
	return ok
}

// Name returns "Firstname Lastname" for a student, or "" when unknown.
func (r *Roster) Name(netid string) string {
	first, _ := r.cell(netid, "Firstname")
	last, _ := r.cell(netid, "Lastname")
	if first == "" && last == "" {
		return ""
	}
	return first + " " + last
}

// Points returns the earned score cell for (netid, problem), as recorded.
func (r *Roster) Points(netid, problem string) string {
	v, _ := r.cell(netid, problem+" passed")
	return v
}

// MaxPoints returns the total case count for a problem, taken from the
// first roster row (the column holds the same value for every student).
func (r *Roster) MaxPoints(problem string) string {
	if len(r.rows) == 0 {
		return ""
	}
	col, ok := r.cols[problem+" cases"]
	if !ok || col >= len(r.rows[0]) {
		return ""
	}
	return r.rows[0][col]
}

// ZeroScore sets the "<problem> passed" cell for netid to 0. Reports
// whether the cell existed.
func (r *Roster) ZeroScore(netid, problem string) bool {
	row, ok := r.byID[netid]
	if !ok {
		return false
	}
	col, ok := r.cols[problem+" passed"]
	if !ok || col >= len(r.rows[row]) {
		return false
	}
	r.rows[row][col] = "0"
	return true
}

// Save writes the roster, including any zeroed scores, back out as CSV.
func (r *Roster) Save(w io.Writer) error {
	out := csv.NewWriter(w)
	if err := out.Write(r.header); err != nil {
		return fmt.Errorf("write roster csv: %w", err)
	}
	if err := out.WriteAll(r.rows); err != nil {
		return fmt.Errorf("write roster csv: %w", err)
	}
	return nil
}

func (r *Roster) cell(netid, column string) (string, bool) {
	row, ok := r.byID[netid]
	if !ok {
		return "", false
	}
	col, ok := r.cols[column]
	if !ok || col >= len(r.rows[row]) {
		return "", false
	}
	return r.rows[row][col], true
}
