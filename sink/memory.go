package sink

import (
	"sort"
	"sync"
)

// MemorySink keeps written files in memory. It is safe for concurrent use.
type MemorySink struct {
	mu         sync.Mutex
	files      map[string][]byte
	order      []string
	writes     int
	cleans     int
	postCleans int
	dryRun     bool
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

// NewDryRunMemorySink creates an in-memory sink that reports DryRun.
func NewDryRunMemorySink() *MemorySink {
	s := NewMemorySink()
	s.dryRun = true
	return s
}

// Write implements Sink. A later write to the same path replaces the content.
func (s *MemorySink) Write(f GeneratedFile) error {
	if err := ValidatePath(f.Path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[f.Path]; !ok {
		s.order = append(s.order, f.Path)
	}
	s.files[f.Path] = append([]byte(nil), f.Content...)
	s.writes++
	return nil
}

// Clean drops every stored file.
func (s *MemorySink) Clean() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
	s.order = nil
	s.cleans++
	return nil
}

// PostClean implements Sink.
func (s *MemorySink) PostClean() error {
	s.mu.Lock()
	s.postCleans++
	s.mu.Unlock()
	return nil
}

// DryRun implements Sink.
func (s *MemorySink) DryRun() bool { return s.dryRun }

// Files returns a copy of the stored files keyed by path.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.files))
	for k, v := range s.files {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// Get returns the content stored at path.
func (s *MemorySink) Get(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.files[path]
	return v, ok
}

// Paths returns the stored paths sorted.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.order...)
	sort.Strings(out)
	return out
}

// Order returns the stored paths in first-write order.
func (s *MemorySink) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Writes returns the number of Write calls that succeeded.
func (s *MemorySink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Cleans returns the number of Clean calls.
func (s *MemorySink) Cleans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleans
}

// PostCleans returns the number of PostClean calls.
func (s *MemorySink) PostCleans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.postCleans
}
