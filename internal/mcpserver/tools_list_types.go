package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/query"
	"github.com/markkovari/rmf-codegen/types"
)

var typeKinds = []string{"object", "union", "enum", "pattern", "scalar"}

type listTypesInput struct {
	API      apiInput      `json:"api"                jsonschema:"The API description to inspect"`
	Language string        `json:"language,omitempty" jsonschema:"Resolve built-in types with this plugin's base types (go, typescript)"`
	Packages packagesInput `json:"packages,omitempty" jsonschema:"Output package overrides"`
	Kind     string        `json:"kind,omitempty"     jsonschema:"Filter by kind: object, union, enum, pattern, scalar"`
	Name     string        `json:"name,omitempty"     jsonschema:"Filter by case-insensitive name substring"`
	GroupBy  string        `json:"group_by,omitempty" jsonschema:"Return counts grouped by kind or package instead of types"`
	Offset   int           `json:"offset,omitempty"   jsonschema:"Skip the first N results"`
	Limit    int           `json:"limit,omitempty"    jsonschema:"Maximum results to return"`
}

type typeSummary struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Descriptor string `json:"descriptor"`
	Package    string `json:"package,omitempty"`
	Properties int    `json:"properties,omitempty"`
	Library    string `json:"library,omitempty"`
}

type listTypesOutput struct {
	Total    int           `json:"total"`
	Returned int           `json:"returned"`
	Types    []typeSummary `json:"types,omitempty"`
	Groups   []groupCount  `json:"groups,omitempty"`
}

func handleListTypes(_ context.Context, _ *mcp.CallToolRequest, input listTypesInput) (*mcp.CallToolResult, listTypesOutput, error) {
	if err := validateChoice("kind", input.Kind, typeKinds); err != nil {
		return errResult(err), listTypesOutput{}, nil
	}
	if err := validateChoice("group_by", input.GroupBy, []string{"kind", "package"}); err != nil {
		return errResult(err), listTypesOutput{}, nil
	}
	api, err := input.API.load()
	if err != nil {
		return errResult(err), listTypesOutput{}, nil
	}
	resolver, err := newResolver(api, input.Language, input.Packages)
	if err != nil {
		return errResult(err), listTypesOutput{}, nil
	}
	surface := query.New(api, resolver)

	kinds := []struct {
		name  string
		types []*model.Type
	}{
		{"object", surface.ObjectTypes()},
		{"union", surface.UnionTypes()},
		{"enum", surface.EnumStringTypes()},
		{"pattern", surface.PatternStringTypes()},
		{"scalar", surface.NamedScalarTypes()},
	}
	name := strings.ToLower(input.Name)
	var all []typeSummary
	for _, k := range kinds {
		if input.Kind != "" && !strings.EqualFold(input.Kind, k.name) {
			continue
		}
		for _, t := range k.types {
			if name != "" && !strings.Contains(strings.ToLower(t.Name), name) {
				continue
			}
			d := resolver.Resolve(t)
			s := typeSummary{
				Name:       t.Name,
				Kind:       k.name,
				Descriptor: d.String(),
				Package:    types.Package(d),
				Properties: len(t.Properties),
			}
			if lib, ok := t.Parent().(*model.Library); ok {
				s.Library = lib.Name
			}
			all = append(all, s)
		}
	}

	output := listTypesOutput{Total: len(all)}
	if input.GroupBy != "" {
		output.Groups = groupAndSort(all, func(s typeSummary) string {
			if strings.EqualFold(input.GroupBy, "package") {
				return s.Package
			}
			return s.Kind
		})
		return nil, output, nil
	}
	output.Types = paginate(all, input.Offset, input.Limit)
	output.Returned = len(output.Types)
	return nil, output, nil
}

// newResolver builds a standalone resolver the way a generation run does
// for one plugin. An empty language uses the neutral base types.
func newResolver(api *model.API, language string, p packagesInput) (*types.Resolver, error) {
	base := types.DefaultBaseTypes()
	if language != "" {
		ps, err := registry().Build(language)
		if err != nil {
			return nil, err
		}
		base = ps[0].BaseTypes
	}
	packages, _ := types.DerivePackages(p.packages(), api.BaseURI)
	return types.NewResolver(types.NewPackageResolver(packages), base, nil, types.NewCache()), nil
}
