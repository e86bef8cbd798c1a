// Package watch reruns a callback when API description files change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/markkovari/rmf-codegen/logging"
)

// DefaultDebounce collapses bursts of editor writes into one run.
const DefaultDebounce = 300 * time.Millisecond

// DefaultExtensions are the file extensions that trigger a run.
var DefaultExtensions = []string{".yaml", ".yml", ".raml", ".toml"}

// Func is called after a debounced change with the paths that changed.
type Func func(ctx context.Context, changed []string) error

// Watcher watches the directories of a set of files.
type Watcher struct {
	// Debounce is the quiet period before Func runs
	Debounce time.Duration
	// Extensions filters events by file extension; empty means all files
	Extensions []string
	Logger     logging.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New watches the directories containing paths. Directories are watched
// rather than files so atomic editor saves (write then rename) are seen.
func New(paths ...string) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, cerrors.New("watch: no paths")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, cerrors.Wrap(err, "failed to create fsnotify watcher")
	}
	seen := make(map[string]bool)
	for _, p := range paths {
		dir, err := filepath.Abs(p)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
			dir = filepath.Dir(dir)
		}
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, cerrors.Wrapf(err, "failed to watch %s", dir)
		}
	}
	return &Watcher{
		Debounce:   DefaultDebounce,
		Extensions: DefaultExtensions,
		Logger:     logging.NopLogger{},
		fsw:        fsw,
		pending:    make(map[string]bool),
	}, nil
}

// Run blocks until ctx is done, calling fn after each debounced burst of
// changes. Errors from fn are logged and watching continues. fn runs on
// the calling goroutine, so calls never overlap.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	defer w.fsw.Close()
	log := logging.OrNop(w.Logger)
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			log.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			w.schedule(ev.Name, fire)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)

		case <-fire:
			changed := w.drain()
			if len(changed) == 0 {
				continue
			}
			if err := fn(ctx, changed); err != nil {
				log.Error("regeneration failed", "error", err, "count", len(changed))
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	if len(w.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range w.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule(path string, fire chan<- struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	sort.Strings(out)
	return out
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
