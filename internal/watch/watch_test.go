package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	api := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(api, []byte("title: A\n"), 0o644))

	w, err := New(api)
	require.NoError(t, err)
	w.Debounce = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	calls := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) error {
			calls <- changed
			return nil
		})
	}()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(api, []byte("title: B\n"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case changed := <-calls:
		assert.Contains(t, changed, api)
		for _, p := range changed {
			assert.Equal(t, ".yaml", filepath.Ext(p))
		}
	case <-ctx.Done():
		t.Fatal("callback never ran")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestRelevant(t *testing.T) {
	w := &Watcher{Extensions: DefaultExtensions}
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"yaml write", fsnotify.Event{Name: "/a/api.yaml", Op: fsnotify.Write}, true},
		{"raml create", fsnotify.Event{Name: "/a/lib.RAML", Op: fsnotify.Create}, true},
		{"toml rename", fsnotify.Event{Name: "/a/rmf-codegen.toml", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/a/api.yaml", Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: "/a/out.go", Op: fsnotify.Write}, false},
		{"hidden swap file", fsnotify.Event{Name: "/a/.api.yaml.swp", Op: fsnotify.Write}, false},
		{"backup", fsnotify.Event{Name: "/a/api.yaml~", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.ev))
		})
	}

	all := &Watcher{}
	assert.True(t, all.relevant(fsnotify.Event{Name: "/a/out.go", Op: fsnotify.Write}))
}

func TestNewErrors(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing", "dir"))
	assert.Error(t, err)
}
