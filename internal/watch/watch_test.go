package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
)

func startWatcher(t *testing.T, root string) <-chan []string {
	t.Helper()
	w, err := New(root, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(_ context.Context, changed []string) {
			batches <- changed
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return batches
}

// waitFor collects batches until one contains path.
func waitFor(t *testing.T, batches <-chan []string, path string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case b := <-batches:
			for _, p := range b {
				if p == path {
					return
				}
			}
		case <-deadline:
			t.Fatalf("no batch contained %s", path)
		}
	}
}

func TestRun_BatchesChanges(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root)

	a := filepath.Join(root, "a.md")
	require.NoError(t, os.WriteFile(a, []byte("one"), 0o644))
	waitFor(t, batches, a)
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root)

	dir := filepath.Join(root, "guide")
	require.NoError(t, os.Mkdir(dir, 0o755))
	waitFor(t, batches, dir)

	doc := filepath.Join(dir, "setup.md")
	require.NoError(t, os.WriteFile(doc, []byte("setup"), 0o644))
	waitFor(t, batches, doc)
}

func TestRun_IgnoresSwapFiles(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".a.md.swp"), []byte("x"), 0o644))
	b := filepath.Join(root, "b.md")
	require.NoError(t, os.WriteFile(b, []byte("x"), 0o644))

	select {
	case batch := <-batches:
		assert.NotContains(t, batch, filepath.Join(root, ".a.md.swp"))
		assert.Contains(t, batch, b)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	w, err := New(t.TempDir(), time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx, func(context.Context, []string) {
		t.Error("handler must not run")
	}))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), time.Second)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))

	file := filepath.Join(t.TempDir(), "f.md")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(file, time.Second)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"docs/a.md", false},
		{"docs/.hidden.md", true},
		{"docs/a.md~", true},
		{"docs/.a.md.swp", true},
		{"docs/a.swx", true},
		{"docs/#a.md#", true},
		{"docs/Thumbs.db", true},
		{"docs/#tag.md", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIgnoreEvent(tt.path))
		})
	}
}
