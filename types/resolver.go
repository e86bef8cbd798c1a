package types

import (
	"github.com/markkovari/rmf-codegen/model"
)

// Resolver maps model nodes to descriptors.
type Resolver struct {
	packages *PackageResolver
	base     BaseTypes
	custom   map[string]Descriptor
	cache    *Cache
}

// NewResolver creates a resolver. Nil slots of base fall back to
// DefaultBaseTypes. custom maps declared type names and generated class
// names to hand-written descriptors; a nil cache gets a fresh one.
func NewResolver(packages *PackageResolver, base BaseTypes, custom map[string]Descriptor, cache *Cache) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	c := make(map[string]Descriptor, len(custom))
	for k, v := range custom {
		c[k] = v
	}
	return &Resolver{packages: packages, base: base.withDefaults(), custom: c, cache: cache}
}

// Packages returns the package resolver.
func (r *Resolver) Packages() *PackageResolver { return r.packages }

// Cache returns the run cache.
func (r *Resolver) Cache() *Cache { return r.cache }

// IsCustom reports whether name is mapped to a hand-written descriptor.
func (r *Resolver) IsCustom(name string) bool {
	_, ok := r.custom[name]
	return ok
}

// Resolve returns the descriptor of n. It is total and memoized: resolving
// the same node again returns an equal descriptor.
func (r *Resolver) Resolve(n model.Node) Descriptor {
	if n == nil {
		return Nil{}
	}
	return r.cache.getOrCompute(n, func() Descriptor {
		return r.compute(n, 0)
	})
}

// compute is the uncached dispatch. Nested resolutions call it directly
// so that self-referential types cannot re-enter a cache entry.
func (r *Resolver) compute(n model.Node, depth int) Descriptor {
	if depth > MaxWalkDepth {
		return r.base.Any
	}
	switch v := n.(type) {
	case *model.Type:
		return r.resolveType(v, depth)
	case *model.Resource:
		return r.named(ResourceName(v), Object{Package: r.packages.Resolve(v), Name: ResourceName(v)})
	case *model.Method:
		return r.named(MethodName(v), Object{Package: r.packages.Resolve(v), Name: MethodName(v)})
	case *model.Library:
		return Library{Package: r.packages.Resolve(v), Name: pascal(v.Name)}
	case *model.Trait:
		return Object{Package: r.packages.Resolve(v), Name: pascal(v.Name)}
	case *model.API:
		return Object{Package: r.packages.Resolve(v), Name: "ApiRoot"}
	default:
		return r.base.Any
	}
}

func (r *Resolver) named(name string, d Descriptor) Descriptor {
	if c, ok := r.custom[name]; ok {
		return c
	}
	return d
}

func (r *Resolver) resolveType(t *model.Type, depth int) Descriptor {
	if t.Declared() {
		if c, ok := r.custom[t.Name]; ok {
			return c
		}
	}
	if t.Builtin() {
		return r.builtin(t)
	}

	switch t.TypeKind {
	case model.TypeObject:
		if t.Declared() {
			return Object{Package: r.packages.Resolve(t), Name: t.Name}
		}
		// inline objects take their nearest declared supertype
		for _, s := range t.Supertypes(MaxWalkDepth)[1:] {
			if s.Declared() {
				return r.compute(s, depth+1)
			}
		}
		return r.base.Object
	case model.TypeString:
		if t.Declared() && len(t.Enum) > 0 {
			return Enum{Package: r.packages.Resolve(t), Name: t.Name}
		}
		return r.base.String
	case model.TypeNumber, model.TypeInteger:
		return r.number(t)
	case model.TypeDateTime, model.TypeDateOnly, model.TypeTimeOnly:
		if t.Declared() {
			return DateTime{Package: r.packages.Resolve(t), Name: t.Name, SubKind: dateKind(t.TypeKind)}
		}
		return r.dateSlot(t.TypeKind)
	case model.TypeArray:
		return r.array(t, depth)
	case model.TypeUnion:
		if t.Declared() {
			return Object{Package: r.packages.Resolve(t), Name: t.Name}
		}
		var single *model.Type
		count := 0
		for _, m := range t.EffectiveMembers() {
			if m.TypeKind == model.TypeNil {
				continue
			}
			single = m
			count++
		}
		if count == 1 {
			return r.compute(single, depth+1)
		}
		return r.base.Object
	case model.TypeBoolean:
		return r.base.Boolean
	case model.TypeFile:
		return r.base.File
	case model.TypeNil:
		return Nil{}
	default:
		return r.base.Any
	}
}

func (r *Resolver) builtin(t *model.Type) Descriptor {
	switch t.TypeKind {
	case model.TypeObject:
		return r.base.Object
	case model.TypeString:
		return r.base.String
	case model.TypeNumber:
		return r.base.Double
	case model.TypeInteger:
		return r.base.Integer
	case model.TypeBoolean:
		return r.base.Boolean
	case model.TypeDateTime, model.TypeDateOnly, model.TypeTimeOnly:
		return r.dateSlot(t.TypeKind)
	case model.TypeFile:
		return r.base.File
	case model.TypeNil:
		return Nil{}
	case model.TypeArray:
		return Array{Item: r.base.Object}
	default:
		return r.base.Any
	}
}

func (r *Resolver) number(t *model.Type) Descriptor {
	switch t.EffectiveFormat() {
	case "int64", "long":
		return r.base.Long
	case "int", "int8", "int16", "int32":
		return r.base.Integer
	case "float", "double":
		return r.base.Double
	}
	if t.TypeKind == model.TypeInteger {
		return r.base.Integer
	}
	return r.base.Double
}

func (r *Resolver) dateSlot(k model.TypeKind) Descriptor {
	switch k {
	case model.TypeDateOnly:
		return r.base.DateOnly
	case model.TypeTimeOnly:
		return r.base.TimeOnly
	default:
		return r.base.DateTime
	}
}

// array unwraps nested array levels iteratively and wraps the resolved
// leaf once per level.
func (r *Resolver) array(t *model.Type, depth int) Descriptor {
	levels := 0
	cur := t
	for cur != nil && cur.TypeKind == model.TypeArray {
		if levels > 0 && cur.Declared() && r.IsCustom(cur.Name) {
			break
		}
		levels++
		if depth+levels > MaxWalkDepth {
			return r.base.Any
		}
		cur = cur.EffectiveItems()
	}

	var d Descriptor
	if cur == nil {
		d = r.base.Object
	} else {
		d = r.compute(cur, depth+levels)
	}
	for range levels {
		d = Array{Item: d}
	}
	return d
}

func dateKind(k model.TypeKind) DateKind {
	switch k {
	case model.TypeDateOnly:
		return DateKindDate
	case model.TypeTimeOnly:
		return DateKindTime
	default:
		return DateKindDateTime
	}
}
