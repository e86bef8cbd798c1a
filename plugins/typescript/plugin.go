// Package typescript is the TypeScript render plugin. Models become
// interfaces and type aliases under src/, resource collections become
// request builder classes and the API root gets a fetch based client and
// an index module.
package typescript

import (
	"embed"

	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/plugins/render"
	"github.com/markkovari/rmf-codegen/types"
)

// Name is the registry name of the plugin.
const Name = "typescript"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = render.MustParse(templateFS, "templates/*.tmpl")

// BaseTypes is the TypeScript base-type table.
func BaseTypes() types.BaseTypes {
	return types.BaseTypes{
		Any:      types.Any{BaseName: "any"},
		Object:   types.Scalar{Name: "object"},
		Integer:  types.Scalar{Name: "number", Primitive: "integer"},
		Long:     types.Scalar{Name: "number", Primitive: "long"},
		Double:   types.Scalar{Name: "number"},
		String:   types.Scalar{Name: "string"},
		Boolean:  types.Scalar{Name: "boolean"},
		DateTime: types.Scalar{Name: "string", Primitive: "datetime"},
		DateOnly: types.Scalar{Name: "string", Primitive: "date-only"},
		TimeOnly: types.Scalar{Name: "string", Primitive: "time-only"},
		File:     types.Scalar{Name: "Blob", Primitive: "file"},
	}
}

type plugin struct {
	base types.BaseTypes
}

// Plugin returns the TypeScript plugin.
func Plugin() *generator.Plugin {
	p := &plugin{base: BaseTypes()}
	return &generator.Plugin{
		Name:      Name,
		BaseTypes: p.base,
		Units: []generator.Unit{
			{Domain: generator.DomainObjectTypes, Producers: []generator.Producer{{Name: "interface", Produce: p.produceInterface}}},
			{Domain: generator.DomainUnionTypes, Producers: []generator.Producer{{Name: "union", Produce: p.produceUnion}}},
			{Domain: generator.DomainEnumTypes, Producers: []generator.Producer{{Name: "enum", Produce: p.produceEnum}}},
			{Domain: generator.DomainPatternTypes, Producers: []generator.Producer{{Name: "pattern", Produce: p.produceScalar}}},
			{Domain: generator.DomainScalarTypes, Producers: []generator.Producer{{Name: "scalar", Produce: p.produceScalar}}},
			{Domain: generator.DomainTypes, Producers: []generator.Producer{{Name: "date", Produce: p.produceDateAlias}}},
			{Domain: generator.DomainCollections, Producers: []generator.Producer{{Name: "request-builder", Produce: p.produceBuilder}}},
			{Domain: generator.DomainAPI, Producers: []generator.Producer{
				{Name: "client", Produce: p.produceClient},
				{Name: "index", Produce: p.produceIndex},
			}},
		},
	}
}
