// Package commands provides the cobra commands of the rmf-codegen CLI.
package commands

import (
	"io"
	"os"
	"strings"

	cerrors "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/markkovari/rmf-codegen/config"
	"github.com/markkovari/rmf-codegen/logging"
)

// EnvPrefix prefixes environment overrides, e.g. RMFCODEGEN_OUTPUT.
const EnvPrefix = "RMFCODEGEN"

// app carries the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	file   *config.Config
	logger logging.Logger
	zap    *zap.Logger
}

// NewRootCmd builds the command tree. Each call returns an independent
// tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: logging.NopLogger{}}
	a.v.SetEnvPrefix(EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "rmf-codegen",
		Short: "Generate SDK code from API descriptions",
		Long: `rmf-codegen turns a RAML-like API description into SDK code.

Each language plugin maps model types to classes and resource collections
to request builders. A run is all-or-nothing: if any producer fails or two
producers write the same path, nothing is written.

Settings are read from rmf-codegen.toml (searched upward from the working
directory), then RMFCODEGEN_* environment variables, then flags.

Examples:
  rmf-codegen generate -o sdk api.yaml
  rmf-codegen generate -l go --base-package com/example/petstore -o sdk api.yaml
  rmf-codegen generate --dry-run --console api.yaml
  rmf-codegen types -l typescript api.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.zap != nil {
				_ = a.zap.Sync()
			}
		},
	}
	root.PersistentFlags().String("config", "", "path to rmf-codegen.toml (default: search upward from the working directory)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug output")

	root.AddCommand(newGenerateCmd(a), newTypesCmd(a), newMCPCmd(a), newVersionCmd())
	return root
}

// init binds flags, loads the config file and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	var err error
	if path := a.v.GetString("config"); path != "" {
		a.file, err = config.LoadFile(path)
	} else {
		a.file, err = config.FindAndLoad(".")
	}
	if err != nil {
		return cerrors.WithHint(err, "fix or remove the configuration file, or pass --config")
	}
	if a.file != nil {
		a.applyFileDefaults()
	}

	a.zap = newZapLogger(cmd.ErrOrStderr(), a.v.GetBool("verbose"))
	a.logger = logging.NewZapAdapter(a.zap)
	if a.file != nil {
		a.logger.Debug("loaded configuration", "path", a.file.Dir)
	}
	return nil
}

// applyFileDefaults layers the config file under environment and flags.
func (a *app) applyFileDefaults() {
	c := a.file
	a.v.SetDefault("api", c.APIPath())
	a.v.SetDefault("output", c.OutputDir())
	a.v.SetDefault("language", c.Languages)
	a.v.SetDefault("base-package", c.BasePackage)
	a.v.SetDefault("model-package", c.ModelPackage)
	a.v.SetDefault("client-package", c.ClientPackage)
	a.v.SetDefault("shared-package", c.SharedPackage)
	a.v.SetDefault("dry-run", c.DryRun)
	a.v.SetDefault("concurrency", c.Concurrency)
	a.v.SetDefault("go-module", c.GoModule)
}

// newZapLogger logs to w at info level, or debug level when verbose.
func newZapLogger(w io.Writer, verbose bool) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	if w == nil {
		w = os.Stderr
	}
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level))
}

// apiPath returns the description path from args or configuration.
func (a *app) apiPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if p := a.v.GetString("api"); p != "" {
		return p, nil
	}
	return "", cerrors.WithHint(cerrors.New("an API description is required"),
		"pass it as an argument or set api in rmf-codegen.toml")
}
