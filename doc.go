// Package rmfcodegen generates client SDK source files for multiple target
// languages from a single declarative API description.
//
// The repository is organised around a shared, language-agnostic core:
//
//   - model: the parsed API graph (resources, methods, types, traits, libraries)
//     and a YAML loader for API descriptions
//   - types: canonical type descriptors, package resolution and the per-run
//     memoizing type resolver
//   - query: deprecation-aware query surface over the model and resource
//     collection grouping
//   - generator: the orchestrator that runs pluggable render plugins in
//     parallel and commits the resulting file set atomically to a sink
//   - sink: output sinks (filesystem, memory, console)
//   - plugins: reference render plugins for Go and TypeScript
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(ctx,
//		generator.WithModelFile("api.yaml"),
//		generator.WithPlugins(golang.New()),
//		generator.WithSink(sink.NewFileSink("./gen")),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(len(result.Files), "files written")
//
// A run either writes every generated file or none of them: producer errors
// and output path collisions abort the run before the sink is touched.
package rmfcodegen
