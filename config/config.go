// Package config handles rmf-codegen.toml run configuration.
//
// A minimal file:
//
//	api = "api.yaml"
//	output = "sdk"
//	languages = ["go", "typescript"]
//	base_package = "com/example/petstore"
//
//	[custom_types.Money]
//	kind = "object"
//	package = "com/example/money"
//	name = "Money"
//
//	[base_types.datetime]
//	kind = "scalar"
//	name = "Instant"
//
// Relative api and output paths are resolved against the directory holding
// the file.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	cerrors "github.com/cockroachdb/errors"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/types"
)

// FileName is the name Load and FindAndLoad look for.
const FileName = "rmf-codegen.toml"

// Config is a decoded rmf-codegen.toml.
type Config struct {
	API           string   `toml:"api"`
	Output        string   `toml:"output"`
	Languages     []string `toml:"languages"`
	BasePackage   string   `toml:"base_package"`
	ModelPackage  string   `toml:"model_package"`
	ClientPackage string   `toml:"client_package"`
	SharedPackage string   `toml:"shared_package"`
	DryRun        bool     `toml:"dry_run"`
	Concurrency   int      `toml:"concurrency"`
	GoModule      string   `toml:"go_module"`

	CustomTypes map[string]DescriptorSpec `toml:"custom_types"`
	BaseTypes   map[string]DescriptorSpec `toml:"base_types"`

	// Dir is the directory containing the file (set at load time).
	Dir string `toml:"-"`
}

// DescriptorSpec is the table form of a types.Descriptor.
type DescriptorSpec struct {
	// Kind is one of object, enum, scalar, datetime, library, array, any, nil
	Kind      string          `toml:"kind"`
	Package   string          `toml:"package"`
	Name      string          `toml:"name"`
	Primitive string          `toml:"primitive"`
	SubKind   string          `toml:"sub_kind"`
	Item      *DescriptorSpec `toml:"item"`
}

// Load parses rmf-codegen.toml from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.Wrapf(err, "cannot read %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, cerrors.Wrapf(err, "parse error in %s", path)
	}
	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, cerrors.Wrapf(err, "cannot resolve path %s", path)
	}
	return c, nil
}

// Parse decodes and validates a configuration. Dir is left empty.
func Parse(data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, &cgerrors.ConfigError{Option: undecoded[0].String(), Message: "unknown key"}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find rmf-codegen.toml, then loads
// it. It returns nil when no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks value ranges and descriptor tables.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return &cgerrors.ConfigError{Option: "concurrency", Value: c.Concurrency, Message: "must be non-negative"}
	}
	if _, err := c.CustomTypeTable(); err != nil {
		return err
	}
	_, err := c.BaseTypeTable()
	return err
}

// Packages returns the configured package paths. Empty paths are derived
// by the generator.
func (c *Config) Packages() types.Packages {
	return types.Packages{
		Base:   c.BasePackage,
		Model:  c.ModelPackage,
		Client: c.ClientPackage,
		Shared: c.SharedPackage,
	}
}

// APIPath returns the API description path resolved against Dir.
func (c *Config) APIPath() string { return c.resolve(c.API) }

// OutputDir returns the output directory resolved against Dir.
func (c *Config) OutputDir() string { return c.resolve(c.Output) }

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// CustomTypeTable converts [custom_types] into descriptors.
func (c *Config) CustomTypeTable() (map[string]types.Descriptor, error) {
	if len(c.CustomTypes) == 0 {
		return nil, nil
	}
	out := make(map[string]types.Descriptor, len(c.CustomTypes))
	for _, name := range sortedKeys(c.CustomTypes) {
		d, err := c.CustomTypes[name].Descriptor()
		if err != nil {
			return nil, &cgerrors.ConfigError{Option: "custom_types." + name, Message: "invalid descriptor", Cause: err}
		}
		out[name] = d
	}
	return out, nil
}

// BaseTypeTable converts [base_types] into a partial table. Slots left out
// stay nil so a plugin's own table shows through.
func (c *Config) BaseTypeTable() (types.BaseTypes, error) {
	var b types.BaseTypes
	for _, slot := range sortedKeys(c.BaseTypes) {
		d, err := c.BaseTypes[slot].Descriptor()
		if err != nil {
			return b, &cgerrors.ConfigError{Option: "base_types." + slot, Message: "invalid descriptor", Cause: err}
		}
		if err := b.Set(slot, d); err != nil {
			return b, &cgerrors.ConfigError{Option: "base_types." + slot, Message: "unknown slot", Cause: err}
		}
	}
	return b, nil
}

// GeneratorOptions returns the generator options the file configures.
// Plugins and the sink are left to the caller.
func (c *Config) GeneratorOptions() ([]generator.Option, error) {
	custom, err := c.CustomTypeTable()
	if err != nil {
		return nil, err
	}
	base, err := c.BaseTypeTable()
	if err != nil {
		return nil, err
	}
	opts := []generator.Option{
		generator.WithPackages(c.Packages()),
		generator.WithDryRun(c.DryRun),
		generator.WithConcurrency(c.Concurrency),
		generator.WithBaseTypes(base),
		generator.WithCustomTypes(custom),
	}
	if api := c.APIPath(); api != "" {
		opts = append(opts, generator.WithModelFile(api))
	}
	return opts, nil
}

// Descriptor converts the table into a descriptor.
func (s DescriptorSpec) Descriptor() (types.Descriptor, error) {
	named := func() error {
		if s.Name == "" {
			return cerrors.Newf("%s descriptor needs a name", s.Kind)
		}
		return nil
	}
	switch s.Kind {
	case "object":
		return types.Object{Package: s.Package, Name: s.Name}, named()
	case "enum":
		return types.Enum{Package: s.Package, Name: s.Name}, named()
	case "scalar":
		return types.Scalar{Name: s.Name, Primitive: s.Primitive}, named()
	case "library":
		return types.Library{Package: s.Package, Name: s.Name}, named()
	case "datetime":
		k, err := dateKind(s.SubKind)
		if err != nil {
			return nil, err
		}
		return types.DateTime{Package: s.Package, Name: s.Name, SubKind: k}, named()
	case "any":
		return types.Any{BaseName: s.Name}, nil
	case "nil":
		return types.Nil{}, nil
	case "array":
		if s.Item == nil {
			return nil, cerrors.New("array descriptor needs an item table")
		}
		item, err := s.Item.Descriptor()
		if err != nil {
			return nil, cerrors.Wrap(err, "item")
		}
		return types.Array{Item: item}, nil
	case "":
		return nil, cerrors.New("descriptor kind is required")
	default:
		return nil, cerrors.Newf("unknown descriptor kind %q", s.Kind)
	}
}

func dateKind(s string) (types.DateKind, error) {
	switch s {
	case "", "datetime":
		return types.DateKindDateTime, nil
	case "date-only", "date":
		return types.DateKindDate, nil
	case "time-only", "time":
		return types.DateKindTime, nil
	default:
		return 0, cerrors.Newf("unknown date sub_kind %q", s)
	}
}

func sortedKeys(m map[string]DescriptorSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
