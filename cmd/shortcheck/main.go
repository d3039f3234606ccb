// Package main provides the shortcheck binary entry point.
// Shortcheck scans student Python submissions for violations of syntax
// policy rules described in .aup files, zeroes the affected scores, and
// renders per-student grading PDFs.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edugrade/shortcheck/config"
	"github.com/edugrade/shortcheck/rule"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "shortcheck"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "shortcheck",
		Short: "Rule-based policy checker for graded Python shorts",
		Long: `Shortcheck grades short Python exercises against syntax policy rules
described in .aup rule files ("require a loop", "ban recursion",
"ban a function call").

It provides:
- Rule evaluation over submission syntax trees
- Score zeroing for submissions with violations
- Gradescope template and per-student report PDFs`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(gradeCmd())
	cmd.AddCommand(checkCmd())
	cmd.AddCommand(rulesCmd())
	cmd.AddCommand(watchCmd())

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func setupLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadConfig resolves the layered configuration for the current directory.
func loadConfig() (*config.Config, error) {
	return config.NewLoader(slog.Default()).Load()
}

// loadBook parses the .aup rule file at path.
func loadBook(path string) (*rule.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()

	book, err := rule.ParseBook(f, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return book, nil
}
