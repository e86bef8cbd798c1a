// Package plugins wires the built-in render plugins into a registry.
package plugins

import (
	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/plugins/golang"
	"github.com/markkovari/rmf-codegen/plugins/typescript"
)

// Options tunes the built-in plugins.
type Options struct {
	// GoModule prefixes every Go import path, e.g. "example.com/sdk".
	GoModule string
}

// NewRegistry returns a registry holding the built-in plugins.
func NewRegistry(opts Options) *generator.Registry {
	r := generator.NewRegistry()
	r.MustRegister(golang.New(opts.GoModule))
	r.MustRegister(typescript.Plugin())
	return r
}

// Default returns the built-in plugins with default options.
func Default() *generator.Registry {
	return NewRegistry(Options{})
}
