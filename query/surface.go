// Package query derives the generation domain from a loaded API: filtered
// type lists, the flattened resource tree, methods, traits and resource
// collections.
package query

import (
	"github.com/markkovari/rmf-codegen/model"
)

// CustomTypes reports names the SDK developer implements by hand.
// *types.Resolver satisfies it.
type CustomTypes interface {
	IsCustom(name string) bool
}

// Surface answers queries over one API. Every query is independent of the
// others and excludes deprecated types.
type Surface struct {
	api    *model.API
	custom CustomTypes
}

// New creates a surface over api. custom may be nil.
func New(api *model.API, custom CustomTypes) *Surface {
	return &Surface{api: api, custom: custom}
}

// API returns the underlying API.
func (s *Surface) API() *model.API { return s.api }

// Libraries returns every library reachable from the API.
func (s *Surface) Libraries() []*model.Library { return s.api.Libraries() }

// AllTypes returns the declared types of the API followed by those of its
// libraries, without deprecated or custom-mapped types.
func (s *Surface) AllTypes() []*model.Type {
	var out []*model.Type
	add := func(ts []*model.Type) {
		for _, t := range ts {
			if model.IsDeprecated(t) {
				continue
			}
			if s.custom != nil && s.custom.IsCustom(t.Name) {
				continue
			}
			out = append(out, t)
		}
	}
	add(s.api.Types)
	for _, lib := range s.api.Libraries() {
		add(lib.Types)
	}
	return out
}

// ObjectTypes returns the usable object types.
func (s *Surface) ObjectTypes() []*model.Type {
	return s.filter(func(t *model.Type) bool { return t.TypeKind == model.TypeObject })
}

// UnionTypes returns the usable union types.
func (s *Surface) UnionTypes() []*model.Type {
	return s.filter(func(t *model.Type) bool { return t.TypeKind == model.TypeUnion })
}

// EnumStringTypes returns string types with a non-empty enum.
func (s *Surface) EnumStringTypes() []*model.Type {
	return s.filter(func(t *model.Type) bool {
		return t.TypeKind == model.TypeString && len(t.Enum) > 0
	})
}

// PatternStringTypes returns string types without an enum that carry a pattern.
func (s *Surface) PatternStringTypes() []*model.Type {
	return s.filter(func(t *model.Type) bool {
		return t.TypeKind == model.TypeString && len(t.Enum) == 0 && t.Pattern != ""
	})
}

// NamedScalarTypes returns string types with neither an enum nor a pattern.
func (s *Surface) NamedScalarTypes() []*model.Type {
	return s.filter(func(t *model.Type) bool {
		return t.TypeKind == model.TypeString && len(t.Enum) == 0 && t.Pattern == ""
	})
}

func (s *Surface) filter(keep func(*model.Type) bool) []*model.Type {
	var out []*model.Type
	for _, t := range s.AllTypes() {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Resources returns the resource tree flattened in pre-order.
func (s *Surface) Resources() []*model.Resource {
	var out []*model.Resource
	model.Walk(s.api.Resources, func(r *model.Resource) {
		out = append(out, r)
	})
	return out
}

// Methods returns every method of every resource, in resource order.
func (s *Surface) Methods() []*model.Method {
	var out []*model.Method
	model.Walk(s.api.Resources, func(r *model.Resource) {
		out = append(out, r.Methods...)
	})
	return out
}

// Traits returns the API traits followed by the traits of its libraries.
func (s *Surface) Traits() []*model.Trait {
	out := append([]*model.Trait(nil), s.api.Traits...)
	for _, lib := range s.api.Libraries() {
		out = append(out, lib.Traits...)
	}
	return out
}
