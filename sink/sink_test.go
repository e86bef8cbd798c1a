package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/markkovari/rmf-codegen/logging"
)

var (
	_ Sink    = (*FileSink)(nil)
	_ Sink    = (*MemorySink)(nil)
	_ Sink    = (*ConsoleSink)(nil)
	_ Cleaner = (*FileSink)(nil)
	_ Cleaner = (*MemorySink)(nil)
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"src/models/Pet.ts", false},
		{"client.go", false},
		{"a/./b.go", false},
		{"", true},
		{"/etc/passwd", true},
		{"../outside.go", true},
		{"a/../../outside.go", true},
		{"a\\b.go", true},
		{".", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileSink(t *testing.T) {
	t.Run("writes nested files", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		s := NewFileSink(dir)
		require.NoError(t, s.Write(GeneratedFile{Path: "src/models/Pet.ts", Content: []byte("export interface Pet {}\n")}))
		require.NoError(t, s.Write(GeneratedFile{Path: "index.ts", Content: []byte("export {}\n")}))

		got, err := os.ReadFile(filepath.Join(dir, "src", "models", "Pet.ts"))
		require.NoError(t, err)
		assert.Equal(t, "export interface Pet {}\n", string(got))
		assert.Equal(t, []string{"src/models/Pet.ts", "index.ts"}, s.Written())

		info, err := os.Stat(filepath.Join(dir, "index.ts"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

		entries, err := os.ReadDir(filepath.Join(dir, "src", "models"))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temporary files left behind")
	})

	t.Run("rejects escaping paths", func(t *testing.T) {
		s := NewFileSink(t.TempDir())
		assert.Error(t, s.Write(GeneratedFile{Path: "../evil.go"}))
	})

	t.Run("clean wipes previous output", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.go"), []byte("x"), 0o600))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "old", "pkg"), 0o755))

		s := NewFileSink(dir)
		require.NoError(t, s.Clean())
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("clean disabled keeps output", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.go"), []byte("x"), 0o600))
		require.NoError(t, NewFileSink(dir, WithClean(false)).Clean())
		assert.FileExists(t, filepath.Join(dir, "keep.go"))
	})

	t.Run("clean of missing directory", func(t *testing.T) {
		assert.NoError(t, NewFileSink(filepath.Join(t.TempDir(), "missing")).Clean())
	})

	t.Run("post clean removes empty directories", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty", "deeper"), 0o755))
		s := NewFileSink(dir)
		require.NoError(t, s.Write(GeneratedFile{Path: "kept/file.go", Content: []byte("package kept\n")}))
		require.NoError(t, s.PostClean())
		assert.NoDirExists(t, filepath.Join(dir, "empty"))
		assert.FileExists(t, filepath.Join(dir, "kept", "file.go"))
	})

	t.Run("options", func(t *testing.T) {
		s := NewFileSink("out", WithFileDryRun(true), WithFileLogger(nil))
		assert.True(t, s.DryRun())
		assert.Equal(t, "out", s.Dir())
		assert.Equal(t, "file sink out", s.String())
	})
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	assert.False(t, s.DryRun())
	assert.True(t, NewDryRunMemorySink().DryRun())

	require.NoError(t, s.Write(GeneratedFile{Path: "b.go", Content: []byte("b")}))
	require.NoError(t, s.Write(GeneratedFile{Path: "a.go", Content: []byte("a")}))
	require.NoError(t, s.Write(GeneratedFile{Path: "b.go", Content: []byte("b2")}))
	assert.Error(t, s.Write(GeneratedFile{Path: "/abs.go"}))

	assert.Equal(t, 3, s.Writes())
	assert.Equal(t, []string{"a.go", "b.go"}, s.Paths())
	assert.Equal(t, []string{"b.go", "a.go"}, s.Order())
	got, ok := s.Get("b.go")
	require.True(t, ok)
	assert.Equal(t, "b2", string(got))

	files := s.Files()
	files["a.go"][0] = 'z'
	got, _ = s.Get("a.go")
	assert.Equal(t, "a", string(got), "Files returns copies")

	require.NoError(t, s.PostClean())
	assert.Equal(t, 1, s.PostCleans())
	require.NoError(t, s.Clean())
	assert.Equal(t, 1, s.Cleans())
	assert.Empty(t, s.Paths())
}

func TestMemorySinkConcurrentWrites(t *testing.T) {
	s := NewMemorySink()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Write(GeneratedFile{Path: filepath.ToSlash(filepath.Join("f", string(rune('a'+i%26))+".go"))})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Writes())
	assert.Len(t, s.Paths(), 26)
}

func TestConsoleSink(t *testing.T) {
	t.Run("writer", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewConsoleSink(&buf, nil)
		require.NoError(t, s.Write(GeneratedFile{Path: "src/Pet.ts", Content: []byte("export {}")}))
		assert.Contains(t, buf.String(), "file : src/Pet.ts")
		assert.Contains(t, buf.String(), "export {}")
		assert.False(t, s.DryRun())
		assert.NoError(t, s.PostClean())
	})

	t.Run("logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		s := NewConsoleSink(nil, logging.NewZapAdapter(zap.New(core)))
		require.NoError(t, s.Write(GeneratedFile{Path: "a.go", Content: []byte("package a")}))
		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "a.go", entries[0].ContextMap()["path"])
	})
}
