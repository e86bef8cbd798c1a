package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/query"
	"github.com/markkovari/rmf-codegen/types"
)

type listResourcesInput struct {
	API      apiInput      `json:"api"                jsonschema:"The API description to inspect"`
	Packages packagesInput `json:"packages,omitempty" jsonschema:"Output package overrides"`
	Path     string        `json:"path,omitempty"     jsonschema:"Only include resources whose URI starts with this prefix"`
	Method   string        `json:"method,omitempty"   jsonschema:"Only include this HTTP method (case-insensitive)"`
	Offset   int           `json:"offset,omitempty"   jsonschema:"Skip the first N collections"`
	Limit    int           `json:"limit,omitempty"    jsonschema:"Maximum collections to return"`
}

type methodSummary struct {
	Method      string   `json:"method"`
	URI         string   `json:"uri"`
	RequestName string   `json:"request_name"`
	Traits      []string `json:"traits,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
}

type collectionSummary struct {
	Name      string          `json:"name"`
	Package   string          `json:"package"`
	Resources []string        `json:"resources"`
	Methods   []methodSummary `json:"methods,omitempty"`
}

type listResourcesOutput struct {
	Total       int                 `json:"total"`
	Returned    int                 `json:"returned"`
	Collections []collectionSummary `json:"collections,omitempty"`
}

func handleListResources(_ context.Context, _ *mcp.CallToolRequest, input listResourcesInput) (*mcp.CallToolResult, listResourcesOutput, error) {
	api, err := input.API.load()
	if err != nil {
		return errResult(err), listResourcesOutput{}, nil
	}
	resolver, err := newResolver(api, "", input.Packages)
	if err != nil {
		return errResult(err), listResourcesOutput{}, nil
	}

	var resources []*model.Resource
	for _, r := range query.New(api, resolver).Resources() {
		if input.Path == "" || strings.HasPrefix(r.FullURI(), input.Path) {
			resources = append(resources, r)
		}
	}
	cols, err := query.Group(resolver, resources)
	if err != nil {
		return errResult(err), listResourcesOutput{}, nil
	}

	all := make([]collectionSummary, 0, len(cols))
	for _, c := range cols {
		s := collectionSummary{Name: c.Type.Name, Package: c.Type.Package}
		for _, r := range c.Resources {
			s.Resources = append(s.Resources, r.FullURI())
			for _, m := range r.Methods {
				if input.Method != "" && !strings.EqualFold(input.Method, m.Method) {
					continue
				}
				ms := methodSummary{
					Method:      strings.ToUpper(m.Method),
					URI:         r.FullURI(),
					RequestName: types.MethodName(m),
					Deprecated:  model.IsDeprecated(m),
				}
				for _, tr := range m.Is {
					ms.Traits = append(ms.Traits, tr.Name)
				}
				s.Methods = append(s.Methods, ms)
			}
		}
		if input.Method != "" && len(s.Methods) == 0 {
			continue
		}
		all = append(all, s)
	}

	output := listResourcesOutput{Total: len(all)}
	output.Collections = paginate(all, input.Offset, input.Limit)
	output.Returned = len(output.Collections)
	return nil, output, nil
}
