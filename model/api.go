package model

import (
	"strings"
)

// API is the root of a loaded API description.
type API struct {
	annotated

	Title   string
	BaseURI string
	// Source is the path the description was loaded from, if any.
	Source string

	Uses      []*Use
	Types     []*Type
	Traits    []*Trait
	Resources []*Resource
}

// Kind implements Node.
func (a *API) Kind() Kind { return KindAPI }

// Parent implements Node. The API is a root.
func (a *API) Parent() Node { return nil }

// ID implements Node.
func (a *API) ID() string { return "api" }

// Libraries returns every library reachable through uses, transitively,
// in first-appearance order. A library imported under several aliases is
// returned once.
func (a *API) Libraries() []*Library {
	seen := make(map[*Library]bool)
	var out []*Library
	queue := make([]*Use, 0, len(a.Uses))
	queue = append(queue, a.Uses...)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if seen[u.Library] {
			continue
		}
		seen[u.Library] = true
		out = append(out, u.Library)
		queue = append(queue, u.Library.Uses...)
	}
	return out
}

// Use binds a library to a local alias.
type Use struct {
	Alias   string
	Library *Library
}

// Library is a reusable set of types and traits.
type Library struct {
	annotated

	// Name is the library's declared name, or the alias it was first imported under.
	Name string
	// Path is the file the library was loaded from; empty for inline libraries.
	Path string

	Uses   []*Use
	Types  []*Type
	Traits []*Trait
}

// Kind implements Node.
func (l *Library) Kind() Kind { return KindLibrary }

// Parent implements Node. Libraries are roots of their own containment tree.
func (l *Library) Parent() Node { return nil }

// ID implements Node.
func (l *Library) ID() string { return "library:" + l.Name }

// Resource is a node in the resource tree.
type Resource struct {
	annotated

	// RelativeURI is the URI relative to the parent resource, e.g. "/{id}".
	RelativeURI string

	Resources []*Resource
	Methods   []*Method

	parent Node
}

// Kind implements Node.
func (r *Resource) Kind() Kind { return KindResource }

// Parent implements Node. The parent is the API or an enclosing resource.
func (r *Resource) Parent() Node { return r.parent }

// ID implements Node.
func (r *Resource) ID() string { return "resource:" + r.FullURI() }

// FullURI returns the resource URI relative to the API base URI.
func (r *Resource) FullURI() string {
	var parts []string
	for n := Node(r); n != nil; n = n.Parent() {
		res, ok := n.(*Resource)
		if !ok {
			break
		}
		parts = append(parts, res.RelativeURI)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
	}
	return b.String()
}

// Segments returns the non-empty path segments of the full URI.
func (r *Resource) Segments() []string {
	var out []string
	for _, s := range strings.Split(r.FullURI(), "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParentResource returns the enclosing resource, or nil for top-level resources.
func (r *Resource) ParentResource() *Resource {
	p, _ := r.parent.(*Resource)
	return p
}

// Response is a method response body keyed by status code.
type Response struct {
	Status string
	Body   *Type
}

// Method is an HTTP method on a resource.
type Method struct {
	annotated

	// Method is the lower-case HTTP method name.
	Method string
	// Is lists the traits applied to the method.
	Is        []*Trait
	Body      *Type
	Responses []*Response

	resource *Resource
}

// Kind implements Node.
func (m *Method) Kind() Kind { return KindMethod }

// Parent implements Node.
func (m *Method) Parent() Node { return m.resource }

// ID implements Node.
func (m *Method) ID() string {
	return "method:" + strings.ToUpper(m.Method) + " " + m.resource.FullURI()
}

// Resource returns the resource the method is defined on.
func (m *Method) Resource() *Resource { return m.resource }

// SuccessBody returns the body of the first 2xx response, or nil.
func (m *Method) SuccessBody() *Type {
	for _, r := range m.Responses {
		if strings.HasPrefix(r.Status, "2") {
			return r.Body
		}
	}
	return nil
}

// Trait is a reusable method trait.
type Trait struct {
	annotated

	Name        string
	Description string

	parent Node
}

// Kind implements Node.
func (t *Trait) Kind() Kind { return KindTrait }

// Parent implements Node. The parent is the declaring API or library.
func (t *Trait) Parent() Node { return t.parent }

// ID implements Node.
func (t *Trait) ID() string {
	if lib, ok := t.parent.(*Library); ok {
		return "trait:" + lib.Name + "." + t.Name
	}
	return "trait:" + t.Name
}

// Walk visits every resource of the tree in pre-order.
func Walk(resources []*Resource, fn func(*Resource)) {
	stack := make([]*Resource, 0, len(resources))
	for i := len(resources) - 1; i >= 0; i-- {
		stack = append(stack, resources[i])
	}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(r)
		for i := len(r.Resources) - 1; i >= 0; i-- {
			stack = append(stack, r.Resources[i])
		}
	}
}
