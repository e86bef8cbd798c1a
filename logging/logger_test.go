package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type contextKey string

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	l.Debug("m", "k", "v")
	l.Info("m")
	l.Warn("m")
	l.Error("m")
	_, ok := l.With("k", "v").(NopLogger)
	assert.True(t, ok, "With should return NopLogger")
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, OrNop(nil))
	s := NewSlogAdapter(nil)
	assert.Same(t, s, OrNop(s))
}

func TestSlogAdapter(t *testing.T) {
	t.Run("nil uses default", func(t *testing.T) {
		assert.NotNil(t, NewSlogAdapter(nil).logger)
	})

	t.Run("levels and attributes", func(t *testing.T) {
		var buf bytes.Buffer
		adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

		adapter.Debug("debug message", "foo", "bar")
		adapter.Info("info message", "count", 42)
		adapter.Warn("warn message")
		adapter.Error("error message")

		out := buf.String()
		assert.Contains(t, out, "level=DEBUG")
		assert.Contains(t, out, "foo=bar")
		assert.Contains(t, out, "count=42")
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "level=ERROR")
	})

	t.Run("With prepends attributes", func(t *testing.T) {
		var buf bytes.Buffer
		adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
		adapter.With("plugin", "go").Info("rendered")
		assert.Contains(t, buf.String(), "plugin=go")
	})
}

func TestZapAdapter(t *testing.T) {
	t.Run("nil uses nop", func(t *testing.T) {
		a := NewZapAdapter(nil)
		a.Info("discarded")
		assert.NoError(t, a.Sync())
	})

	t.Run("levels and attributes", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		a := NewZapAdapter(zap.New(core))

		a.Debug("d", "k", 1)
		a.Info("i")
		a.Warn("w")
		a.With("plugin", "ts").Error("e")

		entries := logs.All()
		require.Len(t, entries, 4)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, int64(1), entries[0].ContextMap()["k"])
		assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
		assert.Equal(t, "ts", entries[3].ContextMap()["plugin"])
	})
}

func TestContextLogger(t *testing.T) {
	ctx := context.WithValue(context.Background(), contextKey("run"), "r1")
	var buf bytes.Buffer
	cl := NewContextLogger(ctx, NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil))))

	child := cl.With("k", "v")
	child.Info("hello")
	assert.Contains(t, buf.String(), "k=v")

	ccl, ok := child.(*ContextLogger)
	require.True(t, ok)
	assert.Equal(t, "r1", ccl.Context().Value(contextKey("run")))
}
