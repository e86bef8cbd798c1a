package model

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/internal/options"
	"github.com/markkovari/rmf-codegen/logging"
)

// DefaultMaxFileSize bounds the size of a description or library file.
const DefaultMaxFileSize int64 = 16 << 20

// LoadOption configures LoadWithOptions.
type LoadOption func(*loadConfig) error

type loadConfig struct {
	filePath    *string
	reader      io.Reader
	bytes       []byte
	fsys        fs.FS
	sourceName  string
	logger      logging.Logger
	maxFileSize int64
}

// LoadWithOptions loads an API description using functional options.
// Exactly one of WithFilePath, WithReader or WithBytes must be given.
//
// Libraries named in uses are read relative to the description: from its
// directory when loading a file, otherwise from the filesystem given by
// WithFS (default: the working directory). Library paths may not escape
// that root.
func LoadWithOptions(opts ...LoadOption) (*API, error) {
	cfg, err := applyLoadOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("model: invalid options: %w", err)
	}

	var (
		data   []byte
		source = cfg.sourceName
		root   = "."
	)
	switch {
	case cfg.filePath != nil:
		path := *cfg.filePath
		data, err = readLimited(path, cfg.maxFileSize)
		if err != nil {
			return nil, &cgerrors.ModelError{Path: path, Message: "reading description", Cause: err}
		}
		if source == "" {
			source = path
		}
		if cfg.fsys == nil {
			cfg.fsys = os.DirFS(filepath.Dir(path))
		}
		root = filepath.Base(path)
	case cfg.reader != nil:
		data, err = io.ReadAll(io.LimitReader(cfg.reader, cfg.maxFileSize+1))
		if err != nil {
			return nil, &cgerrors.ModelError{Path: source, Message: "reading description", Cause: err}
		}
	default:
		data = cfg.bytes
	}
	if int64(len(data)) > cfg.maxFileSize {
		return nil, &cgerrors.ModelError{Path: source, Message: fmt.Sprintf("description exceeds %d bytes", cfg.maxFileSize)}
	}
	if cfg.fsys == nil {
		cfg.fsys = os.DirFS(".")
	}

	l := newLoader(cfg)
	return l.load(data, root, source)
}

func applyLoadOptions(opts ...LoadOption) (*loadConfig, error) {
	cfg := &loadConfig{
		logger:      logging.NopLogger{},
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource("input",
		"must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readLimited(path string, limit int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), limit)
	}
	return os.ReadFile(path) //nolint:gosec // path is chosen by the caller
}

// WithFilePath specifies a description file as the input source.
func WithFilePath(path string) LoadOption {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source.
func WithReader(r io.Reader) LoadOption {
	return func(cfg *loadConfig) error {
		if r == nil {
			return &cgerrors.ConfigError{Option: "reader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source.
func WithBytes(data []byte) LoadOption {
	return func(cfg *loadConfig) error {
		if data == nil {
			return &cgerrors.ConfigError{Option: "bytes", Message: "bytes cannot be nil"}
		}
		cfg.bytes = data
		return nil
	}
}

// WithFS sets the filesystem libraries are read from.
func WithFS(fsys fs.FS) LoadOption {
	return func(cfg *loadConfig) error {
		cfg.fsys = fsys
		return nil
	}
}

// WithSourceName sets the source name recorded in API.Source and in errors.
func WithSourceName(name string) LoadOption {
	return func(cfg *loadConfig) error {
		cfg.sourceName = name
		return nil
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(l logging.Logger) LoadOption {
	return func(cfg *loadConfig) error {
		cfg.logger = logging.OrNop(l)
		return nil
	}
}

// WithMaxFileSize bounds the size of each file read. Zero keeps the default.
func WithMaxFileSize(n int64) LoadOption {
	return func(cfg *loadConfig) error {
		if n < 0 {
			return &cgerrors.ConfigError{Option: "max file size", Value: n, Message: "must not be negative"}
		}
		if n > 0 {
			cfg.maxFileSize = n
		}
		return nil
	}
}
