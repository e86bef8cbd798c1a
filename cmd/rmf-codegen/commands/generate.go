package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/config"
	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/internal/gitinfo"
	"github.com/markkovari/rmf-codegen/internal/watch"
	"github.com/markkovari/rmf-codegen/plugins"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [api.yaml]",
		Short: "Generate SDK code from an API description",
		Long: `Generate runs every selected language plugin over the API description
and writes the combined file set to the output directory.

Nothing is written when any producer fails or two producers emit the
same path. --dry-run runs every producer and reports the file set
without touching the output directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.apiPath(args)
			if err != nil {
				return err
			}
			if !a.v.GetBool("watch") {
				return a.generate(cmd.Context(), cmd.OutOrStdout(), api)
			}
			return a.watchAndGenerate(cmd.Context(), cmd.OutOrStdout(), api)
		},
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "output directory")
	f.StringSliceP("language", "l", nil, "language plugins to run (default: all)")
	f.String("base-package", "", "base package path (default: derived from baseUri)")
	f.String("model-package", "", "model package path (default: <base>/models)")
	f.String("client-package", "", "client package path (default: <base>/client)")
	f.String("shared-package", "", "shared package path (default: <base>/shared)")
	f.String("go-module", "", "module path prefixed to Go import paths")
	f.Bool("dry-run", false, "run every producer but write nothing")
	f.Bool("console", false, "print generated files to stdout instead of writing them")
	f.Bool("clean", false, "remove the output directory before writing")
	f.Int("concurrency", 0, "maximum concurrent producers (default: number of CPUs)")
	f.Bool("watch", false, "regenerate when the API description or configuration changes")
	return cmd
}

// options assembles generator options from the config file, then the
// flag and environment overrides.
func (a *app) options(w io.Writer, api string) ([]generator.Option, error) {
	var opts []generator.Option
	if a.file != nil {
		fileOpts, err := a.file.GeneratorOptions()
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}

	ps, err := plugins.NewRegistry(plugins.Options{GoModule: a.v.GetString("go-module")}).
		Build(a.v.GetStringSlice("language")...)
	if err != nil {
		return nil, err
	}

	dryRun := a.v.GetBool("dry-run")
	var s sink.Sink
	switch output := a.v.GetString("output"); {
	case a.v.GetBool("console"):
		s = sink.NewConsoleSink(w, a.logger)
	case output != "":
		s = sink.NewFileSink(output, sink.WithClean(a.v.GetBool("clean")), sink.WithFileLogger(a.logger))
	case !dryRun:
		return nil, cerrors.WithHint(&cgerrors.ConfigError{Option: "output", Message: "an output directory is required"},
			"pass -o <dir>, set output in rmf-codegen.toml, or use --dry-run or --console")
	}

	hash, err := gitinfo.Hash(api)
	if err != nil {
		a.logger.Warn("could not read git revision", "path", api, "error", err)
	}

	opts = append(opts,
		generator.WithModelFile(api),
		generator.WithPlugins(ps...),
		generator.WithPackages(types.Packages{
			Base:   a.v.GetString("base-package"),
			Model:  a.v.GetString("model-package"),
			Client: a.v.GetString("client-package"),
			Shared: a.v.GetString("shared-package"),
		}),
		generator.WithDryRun(dryRun),
		generator.WithConcurrency(a.v.GetInt("concurrency")),
		generator.WithLogger(a.logger),
		generator.WithGitHash(hash),
	)
	if s != nil {
		opts = append(opts, generator.WithSink(s))
	}
	return opts, nil
}

func (a *app) generate(ctx context.Context, w io.Writer, api string) error {
	opts, err := a.options(w, api)
	if err != nil {
		return err
	}
	result, err := generator.GenerateWithOptions(ctx, opts...)
	if result != nil {
		printSummary(w, result, a.v.GetString("output"))
	}
	return err
}

// watchAndGenerate regenerates on every change to the description, its
// directory or the config file until ctx is cancelled.
func (a *app) watchAndGenerate(ctx context.Context, w io.Writer, api string) error {
	paths := []string{api}
	if a.file != nil {
		paths = append(paths, filepath.Join(a.file.Dir, config.FileName))
	}
	watcher, err := watch.New(paths...)
	if err != nil {
		return err
	}
	watcher.Logger = a.logger

	run := func() {
		if err := a.generate(ctx, w, api); err != nil {
			pterm.Error.WithWriter(w).Println(err.Error())
		}
	}
	run()
	pterm.Info.WithWriter(w).Printfln("Watching %s for changes (Ctrl+C to stop)", filepath.Dir(api))
	return watcher.Run(ctx, func(context.Context, []string) error {
		run()
		return nil
	})
}

func printSummary(w io.Writer, r *generator.GenerateResult, output string) {
	if !r.Success {
		pterm.Error.WithWriter(w).Printfln("Generation failed after %s", r.GenerateTime.Round(time.Millisecond))
		for _, c := range r.Collisions {
			pterm.Fprintln(w, fmt.Sprintf("  %s <- %v", c.Path, c.Producers))
		}
		return
	}

	verb := "Wrote"
	switch {
	case r.DryRun:
		verb = "Would write"
	case output == "":
		verb = "Printed"
	}
	pterm.Success.WithWriter(w).Printfln("%s %d files (%s) in %s",
		verb, len(r.Files), joinNames(r.Plugins), (r.GenerateTime + r.WriteTime).Round(time.Millisecond))
	pterm.Fprintln(w, fmt.Sprintf("  base package: %s", r.Packages.Base))
	for _, i := range r.Issues {
		pterm.Warning.WithWriter(w).Println(i.String())
	}
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "no plugins"
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}
