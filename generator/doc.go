// Package generator runs render plugins over an API model and hands the
// resulting files to an output sink.
//
// # Quick Start
//
// Generate with functional options:
//
//	result, err := generator.GenerateWithOptions(ctx,
//		generator.WithModelFile("api.yaml"),
//		generator.WithPlugins(golang.Plugin()),
//		generator.WithSink(sink.NewFileSink("./generated")),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d files\n", len(result.Files))
//
// Or use a reusable Generator instance:
//
//	g := generator.New()
//	g.Plugins = []*generator.Plugin{golang.Plugin()}
//	g.Sink = sink.NewMemorySink()
//	result, err := g.Generate(ctx, api)
//
// # Plugins
//
// A [Plugin] is a list of [Unit]s. Each unit selects a [Domain] (resources,
// methods, object types, resource collections and so on) and runs its
// [Producer]s once per node of that domain. Producers receive an [Env] with
// the run's resolver, package configuration and query surface. A [Registry]
// maps plugin names to plugins for command-line selection.
//
// # Runs
//
// A [Run] moves from idle to generating and ends either done or failed.
// Producers run in parallel, bounded by Generator.Concurrency. The first
// producer error cancels the rest and fails the run. After every producer
// has finished, paths are checked for collisions and every collision is
// reported. Only a run without errors reaches the sink: Clean (for sinks
// implementing [sink.Cleaner]), then one Write per file in path order,
// then PostClean. In dry-run mode nothing is written.
//
// Each run owns a fresh resolver cache per plugin, so descriptors are
// computed at most once per node per plugin and never leak across runs.
package generator
