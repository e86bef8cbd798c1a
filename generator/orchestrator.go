package generator

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/logging"
	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/query"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

// State is the lifecycle state of a Run.
type State int

const (
	// StateIdle is the state of a run that has not started.
	StateIdle State = iota
	// StateGenerating is the state while producers execute.
	StateGenerating
	// StateDone is the terminal state of a successful run.
	StateDone
	// StateFailed is the terminal state of a run that produced no output.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Run is a single generation pass over one API. A Run executes at most once.
type Run struct {
	g   *Generator
	api *model.API

	mu    sync.Mutex
	state State
}

// NewRun prepares a run of g over api. The generator's settings are read
// when Execute is called.
func (g *Generator) NewRun(api *model.API) *Run {
	return &Run{g: g, api: api}
}

// State returns the current state.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Run) transition(from, to State, op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != from {
		return &cgerrors.StateError{Operation: op, State: r.state.String()}
	}
	r.state = to
	return nil
}

func (r *Run) fail() {
	r.mu.Lock()
	r.state = StateFailed
	r.mu.Unlock()
}

// task is one (plugin, producer, target) invocation.
type task struct {
	env      *Env
	plugin   string
	producer Producer
	target   Target
}

func (t task) origin() string {
	return fmt.Sprintf("%s/%s(%s)", t.plugin, t.producer.Name, t.target.ID())
}

// Execute runs every producer, checks the output for path collisions and
// hands the files to the sink. Either every file reaches the sink or none
// does. The returned result is non-nil even on failure.
func (r *Run) Execute(ctx context.Context) (*GenerateResult, error) {
	if err := r.transition(StateIdle, StateGenerating, "execute"); err != nil {
		return nil, err
	}
	result := &GenerateResult{CacheStats: make(map[string]types.CacheStats)}
	if r.api == nil {
		r.fail()
		return result, &cgerrors.ConfigError{Option: "model", Message: "no API model to generate"}
	}

	g := r.g
	logger := logging.OrNop(g.Logger)
	start := time.Now()

	packages, warnings := types.DerivePackages(g.Packages, r.api.BaseURI)
	for _, w := range warnings {
		logger.Warn(w.Message, "field", w.Field, "value", w.Value)
	}
	result.Packages = packages
	result.addIssues(warnings)

	tasks, err := r.schedule(packages, logger, result)
	if err != nil {
		r.fail()
		result.GenerateTime = time.Since(start)
		return result, err
	}
	result.Tasks = len(tasks)

	outputs, err := r.produce(ctx, tasks, logger)
	result.GenerateTime = time.Since(start)
	result.snapshotCaches()
	if err != nil {
		r.fail()
		logger.Error("generation failed", "error", err)
		return result, err
	}

	files, collisions := collect(tasks, outputs)
	if len(collisions) > 0 {
		r.fail()
		result.Collisions = collisions
		err := cerrors.WithHint(
			&cgerrors.CollisionError{Collisions: collisions},
			"give each producer a distinct output path, or disable one of the colliding plugins",
		)
		logger.Error("path collision", "count", len(collisions))
		return result, err
	}
	result.Files = files

	if err := r.commit(files, result, logger); err != nil {
		r.fail()
		return result, err
	}

	r.mu.Lock()
	r.state = StateDone
	r.mu.Unlock()
	result.Success = true
	logger.Info("generation finished",
		"count", len(files),
		"dry_run", result.DryRun,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// schedule builds the task list for every plugin, unit, target and
// producer in that order. Each plugin gets its own resolver and run cache
// because base-type tables differ between languages.
func (r *Run) schedule(packages types.Packages, logger logging.Logger, result *GenerateResult) ([]task, error) {
	g := r.g
	var tasks []task
	for _, p := range g.Plugins {
		if p == nil {
			continue
		}
		cache := types.NewCache()
		resolver := types.NewResolver(
			types.NewPackageResolver(packages),
			p.BaseTypes.Merge(g.BaseTypes),
			g.CustomTypes,
			cache,
		)
		env := &Env{
			Plugin:   p.Name,
			API:      r.api,
			Packages: packages,
			Resolver: resolver,
			Surface:  query.New(r.api, resolver),
			GitHash:  g.GitHash,
			Logger:   logger.With("plugin", p.Name),
		}
		result.Plugins = append(result.Plugins, p.Name)
		result.caches = append(result.caches, namedCache{p.Name, cache})

		for _, u := range p.Units {
			targets, err := domainTargets(u.Domain, env)
			if err != nil {
				return nil, cerrors.Wrapf(err, "plugin %s: %s domain", p.Name, u.Domain)
			}
			for _, t := range targets {
				for _, prod := range u.Producers {
					tasks = append(tasks, task{env: env, plugin: p.Name, producer: prod, target: t})
				}
			}
		}
		logger.Debug("plugin scheduled", "plugin", p.Name, "units", len(p.Units))
	}
	return tasks, nil
}

// produce runs tasks on a bounded pool. The first error cancels the
// remaining tasks; outputs[i] holds the files of tasks[i].
func (r *Run) produce(ctx context.Context, tasks []task, logger logging.Logger) ([][]sink.GeneratedFile, error) {
	limit := r.g.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	outputs := make([][]sink.GeneratedFile, len(tasks))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i := range tasks {
		if gctx.Err() != nil {
			break
		}
		t := tasks[i]
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files, err := t.producer.Produce(gctx, t.env, t.target)
			if err == nil {
				for _, f := range files {
					if perr := sink.ValidatePath(f.Path); perr != nil {
						err = perr
						break
					}
				}
			}
			if err != nil {
				logger.Debug("producer failed", "plugin", t.plugin, "producer", t.producer.Name, "node", t.target.ID())
				return &cgerrors.ProducerError{
					Plugin:   t.plugin,
					Producer: t.producer.Name,
					Node:     t.target.ID(),
					Cause:    err,
				}
			}
			outputs[i] = files
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// the parent context may have been cancelled after the last task started
	if err := ctx.Err(); err != nil {
		return nil, cerrors.Wrap(err, "generation cancelled")
	}
	return outputs, nil
}

// collect flattens outputs, sorts files by path and reports every path
// emitted more than once.
func collect(tasks []task, outputs [][]sink.GeneratedFile) ([]sink.GeneratedFile, []cgerrors.Collision) {
	origins := make(map[string][]string)
	var files []sink.GeneratedFile
	for i, out := range outputs {
		for _, f := range out {
			origins[f.Path] = append(origins[f.Path], tasks[i].origin())
			files = append(files, f)
		}
	}

	var collisions []cgerrors.Collision
	for p, from := range origins {
		if len(from) > 1 {
			collisions = append(collisions, cgerrors.Collision{Path: p, Producers: from})
		}
	}
	sort.Slice(collisions, func(i, j int) bool { return collisions[i].Path < collisions[j].Path })
	if len(collisions) > 0 {
		return nil, collisions
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// commit hands files to the sink: Clean, writes in path order, PostClean.
// Nothing is written in dry-run mode or without a sink.
func (r *Run) commit(files []sink.GeneratedFile, result *GenerateResult, logger logging.Logger) error {
	s := r.g.Sink
	result.DryRun = r.g.DryRun || (s != nil && s.DryRun())
	if s == nil || result.DryRun {
		return nil
	}

	start := time.Now()
	defer func() { result.WriteTime = time.Since(start) }()

	if c, ok := s.(sink.Cleaner); ok {
		if err := c.Clean(); err != nil {
			return cerrors.Wrap(err, "cleaning output")
		}
	}
	for _, f := range files {
		if err := s.Write(f); err != nil {
			return cerrors.Wrapf(err, "writing %s", f.Path)
		}
		result.Written++
	}
	if err := s.PostClean(); err != nil {
		return cerrors.Wrap(err, "post-clean")
	}
	logger.Debug("files written", "count", result.Written)
	return nil
}

// domainTargets lists the targets of d in model order.
func domainTargets(d Domain, env *Env) ([]Target, error) {
	s := env.Surface
	switch d {
	case DomainResources:
		return nodeTargets(env, s.Resources()), nil
	case DomainMethods:
		return nodeTargets(env, s.Methods()), nil
	case DomainTypes:
		return nodeTargets(env, s.AllTypes()), nil
	case DomainObjectTypes:
		return nodeTargets(env, s.ObjectTypes()), nil
	case DomainUnionTypes:
		return nodeTargets(env, s.UnionTypes()), nil
	case DomainEnumTypes:
		return nodeTargets(env, s.EnumStringTypes()), nil
	case DomainPatternTypes:
		return nodeTargets(env, s.PatternStringTypes()), nil
	case DomainScalarTypes:
		return nodeTargets(env, s.NamedScalarTypes()), nil
	case DomainTraits:
		return nodeTargets(env, s.Traits()), nil
	case DomainCollections:
		cols, err := query.Group(env.Resolver, s.Resources())
		if err != nil {
			return nil, err
		}
		out := make([]Target, 0, len(cols))
		for _, c := range cols {
			out = append(out, Target{Node: c.Sample(), Type: c.Type, Collection: c})
		}
		return out, nil
	case DomainAPI:
		return []Target{{Node: env.API, Type: env.Resolve(env.API)}}, nil
	default:
		return nil, &cgerrors.ConfigError{Option: "domain", Value: int(d), Message: "unknown generator domain"}
	}
}

func nodeTargets[N model.Node](env *Env, nodes []N) []Target {
	out := make([]Target, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Target{Node: n, Type: env.Resolve(n)})
	}
	return out
}
