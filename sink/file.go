package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	cerrors "github.com/cockroachdb/errors"

	"github.com/markkovari/rmf-codegen/internal/fileutil"
	"github.com/markkovari/rmf-codegen/logging"
)

// FileSink writes files below a directory. Each file is written to a
// temporary sibling and renamed into place.
type FileSink struct {
	dir    string
	clean  bool
	dryRun bool
	logger logging.Logger

	mu      sync.Mutex
	written []string
}

// FileOption configures a FileSink.
type FileOption func(*FileSink)

// WithClean controls whether Clean wipes the directory. Default: true.
func WithClean(enabled bool) FileOption {
	return func(s *FileSink) { s.clean = enabled }
}

// WithFileDryRun marks the sink as dry-run.
func WithFileDryRun(enabled bool) FileOption {
	return func(s *FileSink) { s.dryRun = enabled }
}

// WithFileLogger sets the logger.
func WithFileLogger(l logging.Logger) FileOption {
	return func(s *FileSink) { s.logger = logging.OrNop(l) }
}

// NewFileSink creates a sink rooted at dir.
func NewFileSink(dir string, opts ...FileOption) *FileSink {
	s := &FileSink{dir: dir, clean: true, logger: logging.NopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the output directory.
func (s *FileSink) Dir() string { return s.dir }

// DryRun implements Sink.
func (s *FileSink) DryRun() bool { return s.dryRun }

// Clean removes the contents of the output directory.
func (s *FileSink) Clean() error {
	if !s.clean {
		return nil
	}
	abs, err := filepath.Abs(s.dir)
	if err != nil {
		return cerrors.Wrapf(err, "resolving output directory %s", s.dir)
	}
	if abs == filepath.Dir(abs) {
		return cerrors.WithHint(
			cerrors.Newf("refusing to clean filesystem root %s", abs),
			"choose a dedicated output directory")
	}
	entries, err := os.ReadDir(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return cerrors.Wrapf(err, "reading output directory %s", s.dir)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(abs, e.Name())); err != nil {
			return cerrors.Wrapf(err, "cleaning %s", e.Name())
		}
	}
	s.logger.Debug("cleaned output directory", "path", s.dir, "count", len(entries))
	return nil
}

// Write implements Sink.
func (s *FileSink) Write(f GeneratedFile) error {
	if err := ValidatePath(f.Path); err != nil {
		return err
	}
	target := filepath.Join(s.dir, filepath.FromSlash(f.Path))
	if err := os.MkdirAll(filepath.Dir(target), fileutil.DirReadableByAll); err != nil {
		return cerrors.Wrapf(err, "creating directory for %s", f.Path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".rmf-codegen-*")
	if err != nil {
		return cerrors.Wrapf(err, "writing %s", f.Path)
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(f.Content)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmpName, fileutil.ReadableByAll)
	}
	if werr == nil {
		werr = os.Rename(tmpName, target)
	}
	if werr != nil {
		_ = os.Remove(tmpName)
		return cerrors.Wrapf(werr, "writing %s", f.Path)
	}

	s.mu.Lock()
	s.written = append(s.written, f.Path)
	s.mu.Unlock()
	return nil
}

// PostClean removes directories left empty below the output directory.
func (s *FileSink) PostClean() error {
	var dirs []string
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && p != s.dir {
			dirs = append(dirs, p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return cerrors.Wrap(err, "post-clean")
	}
	// deepest first so parents empty out after their children
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err == nil && len(entries) == 0 {
			if err := os.Remove(d); err != nil {
				return cerrors.Wrapf(err, "removing empty directory %s", d)
			}
		}
	}
	s.logger.Debug("wrote files", "path", s.dir, "count", len(s.Written()))
	return nil
}

// Written returns the paths written so far, in write order.
func (s *FileSink) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.written...)
}

func (s *FileSink) String() string { return fmt.Sprintf("file sink %s", s.dir) }
