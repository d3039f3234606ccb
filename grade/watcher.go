package grade

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/edugrade/shortcheck/rule"
)

// WatcherConfig configures the submission watcher
type WatcherConfig struct {
	// CodeDir is the directory of per-student submission folders to watch
	CodeDir string

	// Book supplies the rules to evaluate changed submissions against
	Book *rule.Book

	// DebounceDelay is how long to wait for more changes before re-checking
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// WatchEvent reports the re-check of one changed submission
type WatchEvent struct {
	// NetID is the student folder the file lives in
	NetID string

	// Problem is the submission filename without the .py suffix
	Problem string

	// Path is the submission file path
	Path string

	// Violations found by the re-check (nil when the file now passes)
	Violations []rule.Violation

	// Err if reading or checking failed
	Err error
}

// Watcher watches a code directory for submission changes and re-checks
// each changed file against the rule book. Useful during live lab sessions
// where submissions trickle in while grading is open.
type Watcher struct {
	config  WatcherConfig
	runner  *Runner
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]struct{}

	// Output channel
	events chan WatchEvent
}

// NewWatcher creates a new submission watcher
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.DebounceDelay == 0 {
		config.DebounceDelay = 100 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		runner:  NewRunner(logger),
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]struct{}),
		events:  make(chan WatchEvent, 100),
	}, nil
}

// Events returns the channel of watch events
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching the code directory for changes
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.CodeDir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Submission watcher started",
		"code_dir", w.config.CodeDir,
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.events)
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to the code dir and every student folder
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(filepath.Base(path), ".") && path != root {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent processes a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if !strings.HasSuffix(path, ".py") {
		// A new student folder needs its own watch
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.handleNewDirectory(path)
			}
		}
		return
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = struct{}{}
	w.pendingMu.Unlock()

	w.logger.Debug("Submission change detected",
		"path", path,
		"op", event.Op.String())
}

// handleNewDirectory adds a watch to a newly created student folder
func (w *Watcher) handleNewDirectory(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}

	if err := w.watcher.Add(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
	} else {
		w.logger.Debug("Added watch for new directory", "path", path)
	}
}

// flushPending re-checks accumulated changed submissions
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for _, path := range paths {
		netid := filepath.Base(filepath.Dir(path))
		problem := strings.TrimSuffix(filepath.Base(path), ".py")

		violations, err := w.runner.CheckFile(ctx, path, w.config.Book.RulesFor(problem))
		select {
		case w.events <- WatchEvent{
			NetID:      netid,
			Problem:    problem,
			Path:       path,
			Violations: violations,
			Err:        err,
		}:
		case <-ctx.Done():
			return
		}
	}
}
