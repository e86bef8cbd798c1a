package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/logging"
	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/query"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

// Domain selects the nodes a generator unit runs over.
type Domain int

const (
	// DomainResources visits every resource of the flattened resource tree.
	DomainResources Domain = iota
	// DomainMethods visits every method of every resource.
	DomainMethods
	// DomainTypes visits every usable declared type.
	DomainTypes
	// DomainObjectTypes visits usable object types.
	DomainObjectTypes
	// DomainUnionTypes visits usable union types.
	DomainUnionTypes
	// DomainEnumTypes visits string types with an enumerated value set.
	DomainEnumTypes
	// DomainPatternTypes visits pattern-constrained string types.
	DomainPatternTypes
	// DomainScalarTypes visits plain named string types.
	DomainScalarTypes
	// DomainTraits visits API and library traits.
	DomainTraits
	// DomainCollections visits one sample per resource collection.
	DomainCollections
	// DomainAPI runs once per run with the API root as its node.
	DomainAPI
)

var domainNames = map[Domain]string{
	DomainResources:    "resources",
	DomainMethods:      "methods",
	DomainTypes:        "types",
	DomainObjectTypes:  "object-types",
	DomainUnionTypes:   "union-types",
	DomainEnumTypes:    "enum-types",
	DomainPatternTypes: "pattern-types",
	DomainScalarTypes:  "scalar-types",
	DomainTraits:       "traits",
	DomainCollections:  "collections",
	DomainAPI:          "api",
}

// String returns the domain name.
func (d Domain) String() string {
	if s, ok := domainNames[d]; ok {
		return s
	}
	return fmt.Sprintf("domain(%d)", int(d))
}

// Target is one node handed to a producer together with its descriptor.
type Target struct {
	Node model.Node
	Type types.Descriptor
	// Collection is set for DomainCollections targets only; Node is then its sample.
	Collection *query.ResourceCollection
}

// ID identifies the target in diagnostics.
func (t Target) ID() string {
	if t.Collection != nil {
		return t.Collection.ID()
	}
	if t.Node == nil {
		return ""
	}
	return t.Node.ID()
}

// ProduceFunc renders the files of one target. It must not retain env or
// mutate the model.
type ProduceFunc func(ctx context.Context, env *Env, target Target) ([]sink.GeneratedFile, error)

// Producer is a named file producer.
type Producer struct {
	Name    string
	Produce ProduceFunc
}

// Unit pairs a domain with the producers run for each of its nodes.
type Unit struct {
	Domain    Domain
	Producers []Producer
}

// Plugin is a target-language module.
type Plugin struct {
	// Name identifies the plugin in the registry and in diagnostics
	Name string
	// BaseTypes is the language base-type table; empty slots use the defaults
	BaseTypes types.BaseTypes
	// Units lists the generator units in run order
	Units []Unit
}

// Env is the read-only context shared by the producers of one plugin.
type Env struct {
	// Plugin is the name of the running plugin
	Plugin string
	// API is the model being generated
	API *model.API
	// Packages is the derived package configuration
	Packages types.Packages
	// Resolver resolves nodes with the plugin's base-type table
	Resolver *types.Resolver
	// Surface answers model queries
	Surface *query.Surface
	// GitHash is the commit of the API description, if known
	GitHash string
	// Logger is scoped to the plugin
	Logger logging.Logger
}

// Resolve is shorthand for env.Resolver.Resolve.
func (e *Env) Resolve(n model.Node) types.Descriptor {
	return e.Resolver.Resolve(n)
}

// Package returns the package of n.
func (e *Env) Package(n model.Node) string {
	return e.Resolver.Packages().Resolve(n)
}

// Registry holds the plugins known to a program, keyed by name.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]*Plugin
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]*Plugin)}
}

// Register adds p. Names must be unique and non-empty.
func (r *Registry) Register(p *Plugin) error {
	if p == nil || p.Name == "" {
		return &cgerrors.ConfigError{Option: "plugin", Message: "plugin must have a name"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.plugins[p.Name]; dup {
		return &cgerrors.ConfigError{Option: "plugin", Value: p.Name, Message: "plugin already registered"}
	}
	r.plugins[p.Name] = p
	r.order = append(r.order, p.Name)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(p *Plugin) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Lookup returns the plugin registered under name.
func (r *Registry) Lookup(name string) (*Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns plugin names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Build returns the named plugins in the given order. With no names every
// registered plugin is returned in registration order.
func (r *Registry) Build(names ...string) ([]*Plugin, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(names))
	out := make([]*Plugin, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		p, ok := r.plugins[name]
		if !ok {
			known := append([]string(nil), r.order...)
			sort.Strings(known)
			return nil, &cgerrors.ConfigError{
				Option:  "language",
				Value:   name,
				Message: "unknown plugin (available: " + strings.Join(known, ", ") + ")",
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// MustBuild is like Build but panics on error.
func (r *Registry) MustBuild(names ...string) []*Plugin {
	out, err := r.Build(names...)
	if err != nil {
		panic(err)
	}
	return out
}
