package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edugrade/shortcheck/grade"
)

func watchCmd() *cobra.Command {
	var (
		rulesPath string
		debounce  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <code-directory>",
		Short: "Re-check submissions as they change",
		Long: `Watch monitors a code directory of per-student submission folders and
re-checks each changed .py file against the rule file, printing results as
they come in. Intended for live lab sessions. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := loadBook(rulesPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			watcher, err := grade.NewWatcher(grade.WatcherConfig{
				CodeDir:       args[0],
				Book:          book,
				DebounceDelay: debounce,
				Logger:        slog.Default(),
			})
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer watcher.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case event := <-watcher.Events():
					printWatchEvent(event)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&rulesPath, "rules", "r", "", "Path to the .aup rule file")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Delay before re-checking changed files")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

func printWatchEvent(event grade.WatchEvent) {
	if event.Err != nil {
		fmt.Printf("%s/%s: check failed: %v\n", event.NetID, event.Problem, event.Err)
		return
	}
	if len(event.Violations) == 0 {
		fmt.Printf("%s/%s: all rules followed.\n", event.NetID, event.Problem)
		return
	}
	fmt.Printf("%s/%s:\n", event.NetID, event.Problem)
	for _, v := range event.Violations {
		fmt.Printf("  %s\n", v)
	}
}
