package grade

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRechecksChangedSubmission(t *testing.T) {
	codeDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(codeDir, "alice"), 0755))

	book := testBook(t, "problem p1\nban node While\n")

	watcher, err := NewWatcher(WatcherConfig{
		CodeDir:       codeDir,
		Book:          book,
		DebounceDelay: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, watcher.Start(ctx))
	t.Cleanup(func() {
		// Let the processing goroutine observe cancellation before the
		// event channel closes.
		cancel()
		time.Sleep(200 * time.Millisecond)
		watcher.Stop()
	})

	path := filepath.Join(codeDir, "alice", "p1.py")
	require.NoError(t, os.WriteFile(path, []byte("while True:\n    pass\n"), 0644))

	select {
	case event := <-watcher.Events():
		require.NoError(t, event.Err)
		assert.Equal(t, "alice", event.NetID)
		assert.Equal(t, "p1", event.Problem)
		require.Len(t, event.Violations, 1)
		assert.Equal(t, "BanNode(While)", event.Violations[0].Rule)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
}

func TestWatcherIgnoresNonPythonFiles(t *testing.T) {
	codeDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(codeDir, "alice"), 0755))

	book := testBook(t, "ban node While\n")

	watcher, err := NewWatcher(WatcherConfig{
		CodeDir:       codeDir,
		Book:          book,
		DebounceDelay: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, watcher.Start(ctx))
	t.Cleanup(func() {
		cancel()
		time.Sleep(200 * time.Millisecond)
		watcher.Stop()
	})

	require.NoError(t, os.WriteFile(filepath.Join(codeDir, "alice", "notes.txt"), []byte("while\n"), 0644))

	select {
	case event := <-watcher.Events():
		t.Fatalf("unexpected event for %s", event.Path)
	case <-time.After(300 * time.Millisecond):
	}
}
