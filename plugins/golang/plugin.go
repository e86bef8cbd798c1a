// Package golang is the Go render plugin. It emits one file per model
// type (structs, enums, unions, named scalars and date aliases), one
// request builder per resource collection and a client scaffold. Output is
// formatted with goimports.
package golang

import (
	"embed"

	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/plugins/render"
	"github.com/markkovari/rmf-codegen/types"
)

// Name is the registry name of the plugin.
const Name = "go"

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = render.MustParse(templateFS, "templates/*.tmpl")

// BaseTypes is the Go base-type table.
func BaseTypes() types.BaseTypes {
	return types.BaseTypes{
		Any:      types.Any{BaseName: "any"},
		Object:   types.Scalar{Name: "map[string]any", Primitive: "object"},
		Integer:  types.Scalar{Name: "int", Primitive: "integer"},
		Long:     types.Scalar{Name: "int64", Primitive: "long"},
		Double:   types.Scalar{Name: "float64", Primitive: "number"},
		String:   types.Scalar{Name: "string"},
		Boolean:  types.Scalar{Name: "bool", Primitive: "boolean"},
		DateTime: types.Scalar{Name: "time.Time", Primitive: "datetime"},
		DateOnly: types.Scalar{Name: "string", Primitive: "date-only"},
		TimeOnly: types.Scalar{Name: "string", Primitive: "time-only"},
		File:     types.Scalar{Name: "io.Reader", Primitive: "file"},
	}
}

type plugin struct {
	module string
	base   types.BaseTypes
}

// Plugin returns the Go plugin with package paths used as import paths.
func Plugin() *generator.Plugin {
	return New("")
}

// New returns the Go plugin. module prefixes every import path of the
// generated packages.
func New(module string) *generator.Plugin {
	g := &plugin{module: module, base: BaseTypes()}
	return &generator.Plugin{
		Name:      Name,
		BaseTypes: g.base,
		Units: []generator.Unit{
			{Domain: generator.DomainObjectTypes, Producers: []generator.Producer{{Name: "struct", Produce: g.produceStruct}}},
			{Domain: generator.DomainEnumTypes, Producers: []generator.Producer{{Name: "enum", Produce: g.produceEnum}}},
			{Domain: generator.DomainUnionTypes, Producers: []generator.Producer{{Name: "union", Produce: g.produceUnion}}},
			{Domain: generator.DomainPatternTypes, Producers: []generator.Producer{{Name: "pattern", Produce: g.produceScalar}}},
			{Domain: generator.DomainScalarTypes, Producers: []generator.Producer{{Name: "scalar", Produce: g.produceScalar}}},
			{Domain: generator.DomainTypes, Producers: []generator.Producer{{Name: "date", Produce: g.produceDateAlias}}},
			{Domain: generator.DomainCollections, Producers: []generator.Producer{{Name: "request-builder", Produce: g.produceBuilder}}},
			{Domain: generator.DomainAPI, Producers: []generator.Producer{{Name: "client", Produce: g.produceClient}}},
		},
	}
}
