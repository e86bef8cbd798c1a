package model

import (
	"fmt"
	"strconv"
)

// Kind is the closed set of node kinds in an API graph.
type Kind int

const (
	// KindAPI is the root API description.
	KindAPI Kind = iota
	// KindLibrary is a type library imported through uses.
	KindLibrary
	// KindResource is a node of the resource tree.
	KindResource
	// KindMethod is an HTTP method on a resource.
	KindMethod
	// KindTrait is a reusable method trait.
	KindTrait
	// KindType is a declared, inline or built-in type.
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindLibrary:
		return "library"
	case KindResource:
		return "resource"
	case KindMethod:
		return "method"
	case KindTrait:
		return "trait"
	case KindType:
		return "type"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is a handle into the API graph.
type Node interface {
	// Kind returns the node kind.
	Kind() Kind
	// Parent returns the containing node, or nil for roots and built-in types.
	Parent() Node
	// Annotation returns the annotation applied directly to this node.
	Annotation(name string) (*Annotation, bool)
	// ID returns a human-readable identity used in diagnostics.
	ID() string
}

// Annotation is a named annotation application. Value is nil when the
// annotation was applied without a value.
type Annotation struct {
	Name  string
	Value any
}

// String returns the annotation value rendered as a string.
// It reports false when the annotation carries no scalar value.
func (a *Annotation) String() (string, bool) {
	if a == nil {
		return "", false
	}
	switch v := a.Value.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// Bool returns the annotation value as a boolean.
// It reports false when the value is not a boolean.
func (a *Annotation) Bool() (value, ok bool) {
	if a == nil {
		return false, false
	}
	b, ok := a.Value.(bool)
	return b, ok
}

// annotated is embedded by every node kind that carries annotations.
type annotated struct {
	annotations []*Annotation
}

// Annotation implements Node.
func (a *annotated) Annotation(name string) (*Annotation, bool) {
	for _, an := range a.annotations {
		if an.Name == name {
			return an, true
		}
	}
	return nil, false
}

// Annotations returns every annotation applied to the node in declaration order.
func (a *annotated) Annotations() []*Annotation {
	return a.annotations
}

// Ancestors returns the containment chain above n, nearest first.
// The walk stops after maxDepth steps.
func Ancestors(n Node, maxDepth int) []Node {
	var out []Node
	for p := n.Parent(); p != nil && len(out) < maxDepth; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// IsDeprecated reports whether n carries a boolean deprecated annotation set to true.
func IsDeprecated(n Node) bool {
	a, ok := n.Annotation(AnnotationDeprecated)
	if !ok {
		return false
	}
	v, ok := a.Bool()
	return ok && v
}

// Well-known annotation names.
const (
	AnnotationPackage      = "package"
	AnnotationDeprecated   = "deprecated"
	AnnotationResourceName = "resourceName"
)
