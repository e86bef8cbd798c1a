package generator

import (
	"context"

	"github.com/markkovari/rmf-codegen/internal/options"
	"github.com/markkovari/rmf-codegen/logging"
	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

// Generator holds the run configuration shared by every Run it creates.
type Generator struct {
	// Plugins are run in order
	Plugins []*Plugin
	// Packages overrides package derivation; empty fields are derived
	Packages types.Packages
	// BaseTypes overrides slots of every plugin's base-type table
	BaseTypes types.BaseTypes
	// CustomTypes maps type and class names to hand-written descriptors.
	// Mapped types are not generated.
	CustomTypes map[string]types.Descriptor
	// Sink receives the files of a successful run. Without a sink the files
	// are only returned in the result.
	Sink sink.Sink
	// DryRun runs every producer but writes nothing
	DryRun bool
	// Concurrency bounds parallel producers; 0 means GOMAXPROCS
	Concurrency int
	// GitHash is exposed to producers as Env.GitHash
	GitHash string
	// Logger receives run diagnostics
	Logger logging.Logger
}

// New creates a Generator with default settings.
func New() *Generator {
	return &Generator{
		Logger: logging.NopLogger{},
	}
}

// Generate runs a fresh Run over api.
func (g *Generator) Generate(ctx context.Context, api *model.API) (*GenerateResult, error) {
	return g.NewRun(api).Execute(ctx)
}

// Option is a function that configures a generation operation.
type Option func(*generateConfig) error

type generateConfig struct {
	api       *model.API
	modelFile *string

	generator   *Generator
	loadOptions []model.LoadOption
}

// GenerateWithOptions loads the model if needed and generates code using
// functional options. Exactly one of WithModel or WithModelFile is required.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(ctx,
//		generator.WithModelFile("api.yaml"),
//		generator.WithPlugins(plugins.Default().MustBuild("go")...),
//		generator.WithSink(sink.NewFileSink("out")),
//	)
func GenerateWithOptions(ctx context.Context, opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	api := cfg.api
	if cfg.modelFile != nil {
		loadOpts := append([]model.LoadOption{
			model.WithFilePath(*cfg.modelFile),
			model.WithLogger(cfg.generator.Logger),
		}, cfg.loadOptions...)
		api, err = model.LoadWithOptions(loadOpts...)
		if err != nil {
			return nil, err
		}
	}
	return cfg.generator.Generate(ctx, api)
}

func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{generator: New()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource("model",
		"must specify a model (use WithModel or WithModelFile)",
		"must specify exactly one model source",
		cfg.api != nil, cfg.modelFile != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithModel generates from an already loaded API.
func WithModel(api *model.API) Option {
	return func(cfg *generateConfig) error {
		cfg.api = api
		return nil
	}
}

// WithModelFile loads the API description at path.
func WithModelFile(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.modelFile = &path
		return nil
	}
}

// WithLoadOptions passes extra options to the model loader.
func WithLoadOptions(opts ...model.LoadOption) Option {
	return func(cfg *generateConfig) error {
		cfg.loadOptions = append(cfg.loadOptions, opts...)
		return nil
	}
}

// WithPackages sets the package configuration.
func WithPackages(p types.Packages) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.Packages = p
		return nil
	}
}

// WithPlugins appends plugins to the run.
func WithPlugins(plugins ...*Plugin) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.Plugins = append(cfg.generator.Plugins, plugins...)
		return nil
	}
}

// WithSink sets the output sink.
func WithSink(s sink.Sink) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.Sink = s
		return nil
	}
}

// WithDryRun enables or disables dry-run mode.
func WithDryRun(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.DryRun = enabled
		return nil
	}
}

// WithConcurrency bounds the number of producers running at once.
// 0 uses GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(cfg *generateConfig) error {
		if err := options.ValidateNonNegative("concurrency", n); err != nil {
			return err
		}
		cfg.generator.Concurrency = n
		return nil
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l logging.Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.Logger = logging.OrNop(l)
		return nil
	}
}

// WithBaseTypes overrides base-type slots for every plugin.
func WithBaseTypes(b types.BaseTypes) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.BaseTypes = b
		return nil
	}
}

// WithCustomTypes maps names to hand-written descriptors.
func WithCustomTypes(custom map[string]types.Descriptor) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.CustomTypes = custom
		return nil
	}
}

// WithGitHash sets the commit hash exposed to producers.
func WithGitHash(hash string) Option {
	return func(cfg *generateConfig) error {
		cfg.generator.GitHash = hash
		return nil
	}
}
