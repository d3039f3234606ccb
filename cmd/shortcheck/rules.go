package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edugrade/shortcheck/rule"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules <file.aup>",
		Short: "Parse a rule file and list its rules by problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := loadBook(args[0])
			if err != nil {
				return err
			}

			printProblem := func(name string) {
				fmt.Printf("%s:\n", name)
				for _, r := range book.Rules(name) {
					fmt.Printf("  %s\n", r.Describe())
				}
			}

			printProblem(rule.Universal)
			for _, name := range book.Problems() {
				printProblem(name)
			}
			return nil
		},
	}
}
