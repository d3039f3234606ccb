package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edugrade/shortcheck/grade"
	"github.com/edugrade/shortcheck/rule"
)

func checkCmd() *cobra.Command {
	var (
		rulesPath string
		problem   string
	)

	cmd := &cobra.Command{
		Use:   "check <file.py>",
		Short: "Check a single submission against a rule file",
		Long: `Check evaluates one Python file against the rules in a .aup file and
prints any violations. The problem name defaults to the file name without
its .py suffix; universal rules always apply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if problem == "" {
				problem = strings.TrimSuffix(filepath.Base(path), ".py")
			}

			book, err := loadBook(rulesPath)
			if err != nil {
				return err
			}

			runner := grade.NewRunner(slog.Default())
			violations, err := runner.CheckFile(cmd.Context(), path, book.RulesFor(problem))
			if err != nil {
				return err
			}

			if len(violations) == 0 {
				fmt.Println("all rules followed.")
				return nil
			}
			for _, line := range rule.FormatAll(violations) {
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Path to the .aup rule file")
	cmd.Flags().StringVarP(&problem, "problem", "p", "", "Problem name (default: file name)")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}
