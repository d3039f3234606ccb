// Package report renders grading results as PDF documents: a blank
// per-problem template used to set up the assignment outline, and the full
// per-student report with violated source lines highlighted in red.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/edugrade/shortcheck/config"
	"github.com/edugrade/shortcheck/grade"
	"github.com/edugrade/shortcheck/rule"
)

// Builder renders grading PDFs.
type Builder struct {
	cfg     config.ReportConfig
	names   map[string]string
	ignored map[string]bool
}

// NewBuilder creates a builder. names overrides roster names per netid and
// ignored drops students from the score report entirely; either may be nil.
func NewBuilder(cfg config.ReportConfig, names map[string]string, ignored map[string]bool) *Builder {
	return &Builder{cfg: cfg, names: names, ignored: ignored}
}

func (b *Builder) newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont(b.cfg.Font, "", b.cfg.FontSize)
	return pdf
}

// WriteTemplate writes the template PDF: one blank name/netid page, then a
// blank score page per problem in order.
func (b *Builder) WriteTemplate(roster *grade.Roster, problems []string, path string) error {
	pdf := b.newDoc()

	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(200, 20, "NAME:", "", 1, "L", false, 0, "")
	pdf.CellFormat(200, 20, "NETID:", "", 1, "L", false, 0, "")
	pdf.Line(10, 50, 200, 50)
	pdf.Line(10, 10, 200, 10)

	for _, problem := range problems {
		pdf.AddPage()
		scoreLine := fmt.Sprintf("%s score:   / %s |  XXXXXXXX", problem, roster.MaxPoints(problem))
		pdf.CellFormat(10, 10, scoreLine, "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write template pdf: %w", err)
	}
	return nil
}

// WriteScores writes the full score PDF: for each roster student (skipping
// ignored netids) a name/netid page, then per problem a score line followed
// by the submission's code with violated lines in red and the violation
// messages underneath.
func (b *Builder) WriteScores(roster *grade.Roster, problems []string, violations grade.Violations, codeDir string, path string) error {
	pdf := b.newDoc()

	for _, netid := range roster.NetIDs() {
		if b.ignored[netid] {
			continue
		}

		name := roster.Name(netid)
		if mapped, ok := b.names[netid]; ok {
			name = mapped
		}

		pdf.AddPage()
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(200, 20, "NAME: "+name, "", 1, "L", false, 0, "")
		pdf.CellFormat(200, 20, "NETID: "+netid, "", 1, "L", false, 0, "")
		pdf.Line(10, 50, 200, 50)
		pdf.Line(10, 10, 200, 10)

		for _, problem := range problems {
			pdf.SetTextColor(0, 0, 0)
			pdf.AddPage()

			scoreLine := fmt.Sprintf("%s score: %s / %s |  %s",
				problem, roster.Points(netid, problem), roster.MaxPoints(problem), netid)
			pdf.CellFormat(10, 10, scoreLine, "", 1, "L", false, 0, "")

			codeFile := filepath.Join(codeDir, netid, problem+".py")
			if _, err := os.Stat(codeFile); err != nil {
				continue
			}
			if err := b.addCode(pdf, codeFile, violations[netid][problem]); err != nil {
				return err
			}
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write score pdf: %w", err)
	}
	return nil
}

// addCode renders the submission's lines, violated lines in red, then the
// violation messages in red below the listing.
func (b *Builder) addCode(pdf *fpdf.Fpdf, codeFile string, violations []rule.Violation) error {
	source, err := os.ReadFile(codeFile)
	if err != nil {
		return fmt.Errorf("read submission for report: %w", err)
	}

	violated := make(map[int]bool, len(violations))
	for _, v := range violations {
		if v.Line > 0 {
			violated[v.Line] = true
		}
	}

	lines := strings.Split(strings.TrimRight(string(source), "\n"), "\n")
	if len(lines) > b.cfg.MaxCodeLines {
		lines = lines[:b.cfg.MaxCodeLines]
	}
	for i, line := range lines {
		lineNum := i + 1
		if violated[lineNum] {
			pdf.SetTextColor(255, 0, 0)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.CellFormat(190, 6, fmt.Sprintf("%2d| %s", lineNum, strings.TrimRight(line, " \t\r")), "", 1, "L", false, 0, "")
	}

	pdf.SetTextColor(255, 0, 0)
	for _, v := range violations {
		pdf.CellFormat(190, 6, v.String(), "", 1, "L", false, 0, "")
	}
	return nil
}
