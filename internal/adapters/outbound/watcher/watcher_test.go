package watcher_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const debounce = 50 * time.Millisecond

type run struct {
	calls atomic.Int32
	done  chan error
}

func start(t *testing.T, root string, onChange func(context.Context) error) (*run, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := watcher.New(root, debounce, nil)
	r := &run{done: make(chan error, 1)}
	go func() {
		r.done <- w.Run(ctx, func(ctx context.Context) error {
			r.calls.Add(1)
			if onChange != nil {
				return onChange(ctx)
			}
			return nil
		})
	}()
	select {
	case <-w.Ready():
	case err := <-r.done:
		t.Fatalf("watcher stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}
	t.Cleanup(cancel)
	return r, cancel
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRun_DebouncesBurst(t *testing.T) {
	root := t.TempDir()
	r, _ := start(t, root, nil)

	for i := 0; i < 5; i++ {
		write(t, filepath.Join(root, "menu.js"), "x")
	}

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(4 * debounce)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestRun_IgnoresUnrelatedFiles(t *testing.T) {
	root := t.TempDir()
	r, _ := start(t, root, nil)

	write(t, filepath.Join(root, "notes.txt"), "x")

	assert.Never(t, func() bool { return r.calls.Load() > 0 }, 6*debounce, 10*time.Millisecond)
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	r, _ := start(t, root, nil)

	sub := filepath.Join(root, "behaviors")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(2 * debounce)
	write(t, filepath.Join(sub, "menu.js"), "x")

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_CallbackErrorStops(t *testing.T) {
	root := t.TempDir()
	boom := errors.New("boom")
	r, _ := start(t, root, func(context.Context) error { return boom })

	write(t, filepath.Join(root, "app.css"), ".a {}")

	select {
	case err := <-r.done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_CancelStops(t *testing.T) {
	root := t.TempDir()
	r, cancel := start(t, root, nil)

	cancel()
	select {
	case err := <-r.done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_MissingRoot(t *testing.T) {
	w := watcher.New(filepath.Join(t.TempDir(), "missing"), debounce, nil)
	err := w.Run(context.Background(), func(context.Context) error { return nil })
	assert.Error(t, err)
}
