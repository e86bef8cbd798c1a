package cliutil

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d files", "Generated", 3)
	assert.Equal(t, "Generated: 3 files", buf.String())
}

func TestWriteError(t *testing.T) {
	t.Run("nil error writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		WriteError(&buf, nil)
		assert.Empty(t, buf.String())
	})

	t.Run("hints are listed", func(t *testing.T) {
		var buf bytes.Buffer
		err := errors.WithHint(errors.New("path collision"), "rename one of the producers")
		WriteError(&buf, err)
		assert.Contains(t, buf.String(), "Error: path collision")
		assert.Contains(t, buf.String(), "  hint: rename one of the producers")
	})
}
