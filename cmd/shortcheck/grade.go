package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/edugrade/shortcheck/grade"
	"github.com/edugrade/shortcheck/report"
)

func gradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grade <directory>",
		Short: "Grade a directory of submissions and render PDFs",
		Long: `Grade looks inside the given directory for a CSV score roster, a .aup
rule file, and a code subdirectory of per-student submission folders.
It zeroes the score of every (student, problem) with rule violations and
writes gradescope_template.pdf and gradescope_output.pdf into the directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(cmd, args[0])
		},
	}
}

func runGrade(cmd *cobra.Command, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	inputs, err := grade.DiscoverInputs(dir)
	if err != nil {
		return err
	}

	book, err := loadBook(inputs.Rules)
	if err != nil {
		return err
	}

	rosterFile, err := os.Open(inputs.Roster)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	roster, err := grade.LoadRoster(rosterFile)
	rosterFile.Close()
	if err != nil {
		return err
	}

	runner := grade.NewRunner(slog.Default())
	slog.Info("Grading run starting",
		slog.String("run_id", runner.RunID()),
		slog.String("dir", dir),
		slog.Int("problems", len(book.Problems())))

	violations, err := runner.Run(cmd.Context(), roster, book, inputs.CodeDir)
	if err != nil {
		return err
	}

	problems := book.Problems()
	builder := report.NewBuilder(cfg.Report, cfg.NameMap, cfg.IgnoredSet())

	templatePath := filepath.Join(dir, "gradescope_template.pdf")
	outputPath := filepath.Join(dir, "gradescope_output.pdf")

	if err := builder.WriteTemplate(roster, problems, templatePath); err != nil {
		return err
	}
	if err := builder.WriteScores(roster, problems, violations, inputs.CodeDir, outputPath); err != nil {
		return err
	}

	slog.Info("Grading run complete",
		slog.String("run_id", runner.RunID()),
		slog.String("template", templatePath),
		slog.String("output", outputPath))
	fmt.Printf("template PDF saved to `%s`\n", templatePath)
	fmt.Printf("output PDF saved to `%s`\n", outputPath)
	return nil
}
