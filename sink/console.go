package sink

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/markkovari/rmf-codegen/logging"
)

var consoleRule = strings.Repeat("_", 100)

// ConsoleSink prints every file with a header naming its path. With a nil
// writer, files are logged at Info level instead.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	logger logging.Logger
}

// NewConsoleSink creates a console sink.
func NewConsoleSink(w io.Writer, logger logging.Logger) *ConsoleSink {
	return &ConsoleSink{w: w, logger: logging.OrNop(logger)}
}

// Write implements Sink.
func (s *ConsoleSink) Write(f GeneratedFile) error {
	if s.w == nil {
		s.logger.Info("generated file", "path", f.Path, "content", string(f.Content))
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "%s\nfile : %s\ncontent :\n%s\n\n%s\n\n", consoleRule, f.Path, consoleRule, f.Content)
	return err
}

// PostClean implements Sink.
func (s *ConsoleSink) PostClean() error { return nil }

// DryRun implements Sink.
func (s *ConsoleSink) DryRun() bool { return false }
