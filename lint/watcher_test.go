package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, events <-chan WatchEvent) WatchEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return WatchEvent{}
	}
}

func TestWatcher_EmitsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "GLOSSARY.md")
	require.NoError(t, os.WriteFile(path, []byte("# v1\n"), 0644))

	cfg := DefaultWatchConfig()
	cfg.DebounceDelay = "50ms"

	w, err := NewWatcher(cfg, dir, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("# v2\n"), 0644))

	ev := waitForEvent(t, w.Events())
	require.Len(t, ev.Paths, 1)
	assert.Equal(t, path, ev.Paths[0])
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultWatchConfig()
	cfg.DebounceDelay = "50ms"

	w, err := NewWatcher(cfg, dir, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event: %v", ev.Paths)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_SuppressesUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("term: X\n"), 0644))

	cfg := DefaultWatchConfig()
	cfg.DebounceDelay = "50ms"

	w, err := NewWatcher(cfg, dir, nil)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	// First write is a change.
	require.NoError(t, os.WriteFile(path, []byte("term: Y\n"), 0644))
	waitForEvent(t, w.Events())

	// Rewriting identical content is suppressed.
	require.NoError(t, os.WriteFile(path, []byte("term: Y\n"), 0644))
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event for unchanged content: %v", ev.Paths)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchConfig_GetDebounceDelay(t *testing.T) {
	cfg := WatchConfig{}
	assert.Equal(t, 500*time.Millisecond, cfg.GetDebounceDelay())

	cfg.DebounceDelay = "2s"
	assert.Equal(t, 2*time.Second, cfg.GetDebounceDelay())

	cfg.DebounceDelay = "bogus"
	assert.Equal(t, 500*time.Millisecond, cfg.GetDebounceDelay())
}
