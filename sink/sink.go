// Package sink receives the files of a successful generation run.
//
// Import path: github.com/markkovari/rmf-codegen/sink
//
// Three implementations satisfy [Sink]: [FileSink] writes below an output
// directory, [MemorySink] keeps files in memory for tests, and
// [ConsoleSink] dumps them for debugging.
package sink

import (
	"fmt"
	"path"
	"strings"
)

// GeneratedFile is one produced output file. Path is slash-separated and
// relative to the sink root.
type GeneratedFile struct {
	Path    string
	Content []byte
}

// Sink persists or inspects generated files.
type Sink interface {
	// Write stores one file.
	Write(file GeneratedFile) error
	// PostClean runs once after every file has been written.
	PostClean() error
	// DryRun reports whether the sink only wants generation checked.
	DryRun() bool
}

// Cleaner is implemented by sinks that wipe previous output before the
// first write of a run.
type Cleaner interface {
	Clean() error
}

// ValidatePath rejects absolute paths and paths leaving the sink root.
func ValidatePath(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("empty output path")
	case strings.HasPrefix(p, "/") || strings.Contains(p, "\\"):
		return fmt.Errorf("output path %q must be relative and slash-separated", p)
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("output path %q escapes the output root", p)
	}
	return nil
}
