package generator

import (
	"sort"
	"time"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/internal/issues"
	"github.com/markkovari/rmf-codegen/internal/severity"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

// GenerateResult contains the outcome of a run.
type GenerateResult struct {
	// Files holds every generated file sorted by path. It is empty when the run failed.
	Files []sink.GeneratedFile
	// Packages is the package configuration used
	Packages types.Packages
	// Plugins lists the plugins that ran
	Plugins []string
	// Issues contains the non-fatal issues of the run
	Issues []issues.Issue
	// InfoCount is the number of info messages
	InfoCount int
	// WarningCount is the number of warnings
	WarningCount int
	// Collisions lists every path collision of a failed run
	Collisions []cgerrors.Collision
	// Tasks is the number of producer invocations scheduled
	Tasks int
	// Written is the number of files handed to the sink
	Written int
	// DryRun reports whether writes were skipped
	DryRun bool
	// Success is true if the run reached the done state
	Success bool
	// CacheStats reports resolver cache activity per plugin
	CacheStats map[string]types.CacheStats
	// GenerateTime is the time spent scheduling and running producers
	GenerateTime time.Duration
	// WriteTime is the time spent in the sink
	WriteTime time.Duration

	caches []namedCache
}

type namedCache struct {
	plugin string
	cache  *types.Cache
}

func (r *GenerateResult) addIssues(list []issues.Issue) {
	for _, i := range list {
		r.Issues = append(r.Issues, i)
		switch i.Severity {
		case severity.SeverityInfo:
			r.InfoCount++
		case severity.SeverityWarning:
			r.WarningCount++
		}
	}
}

func (r *GenerateResult) snapshotCaches() {
	for _, c := range r.caches {
		r.CacheStats[c.plugin] = c.cache.Stats()
	}
}

// HasWarnings returns true if the run reported warnings.
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file at path, or nil.
func (r *GenerateResult) GetFile(path string) *sink.GeneratedFile {
	i := sort.Search(len(r.Files), func(i int) bool { return r.Files[i].Path >= path })
	if i < len(r.Files) && r.Files[i].Path == path {
		return &r.Files[i]
	}
	return nil
}

// Paths returns the generated paths in order.
func (r *GenerateResult) Paths() []string {
	out := make([]string, len(r.Files))
	for i, f := range r.Files {
		out[i] = f.Path
	}
	return out
}
