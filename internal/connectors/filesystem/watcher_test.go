package filesystem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitSignal(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal received")
	}
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := NewWatcher(root, 50*time.Millisecond).Watch(ctx)
	require.NoError(t, err)

	writeFile(t, root, "a.md", "hello")
	awaitSignal(t, changes)
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	debounce := 100 * time.Millisecond
	changes, err := NewWatcher(root, debounce).Watch(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		writeFile(t, root, "a.md", "revision")
		time.Sleep(10 * time.Millisecond)
	}
	awaitSignal(t, changes)

	// The burst settles into at most one pending signal.
	select {
	case <-changes:
	case <-time.After(3 * debounce):
	}
	select {
	case <-changes:
		t.Fatal("burst produced more than two signals")
	case <-time.After(3 * debounce):
	}
}

func TestWatcher_SignalsOnNewSubdirectory(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := NewWatcher(root, 50*time.Millisecond).Watch(ctx)
	require.NoError(t, err)

	writeFile(t, root, "sub/new.md", "hello")
	awaitSignal(t, changes)
}

func TestWatcher_ClosesOnCancel(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := NewWatcher(root, 50*time.Millisecond).Watch(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-changes:
		assert.False(t, ok, "channel should close after cancellation")
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not close after cancellation")
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WalkDir skips unreadable roots, so watching a missing directory
	// degrades to a watcher that never fires rather than an error.
	changes, err := NewWatcher("/nonexistent/corpus", 50*time.Millisecond).Watch(ctx)
	require.NoError(t, err)
	require.NotNil(t, changes)
}
