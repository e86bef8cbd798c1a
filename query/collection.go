package query

import (
	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/types"
)

// Resolver resolves model nodes to descriptors.
type Resolver interface {
	Resolve(n model.Node) types.Descriptor
}

// ResourceCollection is a non-empty group of resources sharing one
// generated request builder.
type ResourceCollection struct {
	Type      types.Object
	Resources []*model.Resource
}

// NewResourceCollection creates a collection. It fails when resources is empty.
func NewResourceCollection(d types.Object, resources []*model.Resource) (*ResourceCollection, error) {
	if len(resources) == 0 {
		return nil, &cgerrors.InvariantError{
			Subject:   "resource collection " + d.Name,
			Invariant: "resources must be non-empty",
		}
	}
	return &ResourceCollection{Type: d, Resources: append([]*model.Resource(nil), resources...)}, nil
}

// Sample returns the first resource, the representative for decisions
// shared by the whole collection.
func (c *ResourceCollection) Sample() *model.Resource {
	return c.Resources[0]
}

// ID identifies the collection in diagnostics.
func (c *ResourceCollection) ID() string {
	return "collection:" + c.Type.Name
}

// Group partitions resources by the simple name of their resolved request
// builder. Collections appear in order of first occurrence and keep the
// input order of their resources. A resource that does not resolve to an
// object descriptor is a type mismatch.
func Group(r Resolver, resources []*model.Resource) ([]*ResourceCollection, error) {
	type partition struct {
		d         types.Object
		resources []*model.Resource
	}
	index := make(map[string]int)
	var parts []*partition

	for _, res := range resources {
		d, ok := r.Resolve(res).(types.Object)
		if !ok {
			return nil, &cgerrors.TypeMismatchError{
				Node:     res.ID(),
				Expected: "object",
				Actual:   r.Resolve(res).String(),
			}
		}
		i, seen := index[d.Name]
		if !seen {
			i = len(parts)
			index[d.Name] = i
			parts = append(parts, &partition{d: d})
		}
		parts[i].resources = append(parts[i].resources, res)
	}

	out := make([]*ResourceCollection, 0, len(parts))
	for _, p := range parts {
		c, err := NewResourceCollection(p.d, p.resources)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
