// Package cliutil provides output helpers for the rmf-codegen CLI.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// WriteError writes err followed by any hints attached to it, one per line.
func WriteError(w io.Writer, err error) {
	if err == nil {
		return
	}
	Writef(w, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		for _, line := range strings.Split(hint, "\n") {
			Writef(w, "  hint: %s\n", line)
		}
	}
}
