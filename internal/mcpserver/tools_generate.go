package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

type packagesInput struct {
	Base   string `json:"base,omitempty"   jsonschema:"Base package path; derived from baseUri when empty"`
	Model  string `json:"model,omitempty"  jsonschema:"Model package path; defaults to <base>/models"`
	Client string `json:"client,omitempty" jsonschema:"Client package path; defaults to <base>/client"`
	Shared string `json:"shared,omitempty" jsonschema:"Shared package path; defaults to <base>/shared"`
}

func (p packagesInput) packages() types.Packages {
	return types.Packages{Base: p.Base, Model: p.Model, Client: p.Client, Shared: p.Shared}
}

type generateInput struct {
	API            apiInput      `json:"api"                       jsonschema:"The API description to generate from"`
	Languages      []string      `json:"languages,omitempty"       jsonschema:"Plugins to run (go, typescript). Defaults to all."`
	Packages       packagesInput `json:"packages,omitempty"        jsonschema:"Output package overrides"`
	OutputDir      string        `json:"output_dir,omitempty"      jsonschema:"Directory to write files to. Omit to only report the file set."`
	Clean          bool          `json:"clean,omitempty"           jsonschema:"Remove output_dir before writing"`
	DryRun         bool          `json:"dry_run,omitempty"         jsonschema:"Run every producer but write nothing"`
	IncludeContent bool          `json:"include_content,omitempty" jsonschema:"Return file contents inline"`
	Offset         int           `json:"offset,omitempty"          jsonschema:"Skip the first N files"`
	Limit          int           `json:"limit,omitempty"           jsonschema:"Maximum files to return"`
}

type generatedFile struct {
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Content string `json:"content,omitempty"`
}

type collisionSummary struct {
	Path      string   `json:"path"`
	Producers []string `json:"producers"`
}

type packagesSummary struct {
	Base   string `json:"base"`
	Model  string `json:"model"`
	Client string `json:"client"`
	Shared string `json:"shared"`
}

type generateOutput struct {
	Success    bool               `json:"success"`
	DryRun     bool               `json:"dry_run"`
	Plugins    []string           `json:"plugins"`
	Packages   packagesSummary    `json:"packages"`
	FileCount  int                `json:"file_count"`
	Written    int                `json:"written"`
	Returned   int                `json:"returned"`
	Files      []generatedFile    `json:"files,omitempty"`
	Collisions []collisionSummary `json:"collisions,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	Error      string             `json:"error,omitempty"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	api, err := input.API.load()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}
	ps, err := registry().Build(input.Languages...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	g := generator.New()
	g.Plugins = ps
	g.Packages = input.Packages.packages()
	g.DryRun = input.DryRun || input.OutputDir == ""
	if input.OutputDir != "" {
		g.Sink = sink.NewFileSink(input.OutputDir, sink.WithClean(input.Clean))
	}

	result, err := g.Generate(ctx, api)
	if result == nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:   result.Success,
		DryRun:    result.DryRun,
		Plugins:   result.Plugins,
		FileCount: len(result.Files),
		Written:   result.Written,
		Packages: packagesSummary{
			Base:   result.Packages.Base,
			Model:  result.Packages.Model,
			Client: result.Packages.Client,
			Shared: result.Packages.Shared,
		},
	}
	for _, i := range result.Issues {
		output.Warnings = append(output.Warnings, i.String())
	}
	if err != nil {
		// Collisions are reported structurally; other failures become tool errors.
		var ce *cgerrors.CollisionError
		if !errors.As(err, &ce) {
			return errResult(err), generateOutput{}, nil
		}
		output.Error = sanitizeError(err)
		output.Collisions = makeSlice[collisionSummary](len(ce.Collisions))
		for _, c := range ce.Collisions {
			output.Collisions = append(output.Collisions, collisionSummary{Path: c.Path, Producers: c.Producers})
		}
		return nil, output, nil
	}

	page := paginate(result.Files, input.Offset, input.Limit)
	output.Files = makeSlice[generatedFile](len(page))
	for _, f := range page {
		gf := generatedFile{Path: f.Path, Size: len(f.Content)}
		if input.IncludeContent {
			gf.Content = string(f.Content)
		}
		output.Files = append(output.Files, gf)
	}
	output.Returned = len(output.Files)
	return nil, output, nil
}
