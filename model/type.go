package model

import "fmt"

// TypeKind is the closed set of structural type kinds.
type TypeKind int

const (
	TypeAny TypeKind = iota
	TypeObject
	TypeString
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeDateTime
	TypeDateOnly
	TypeTimeOnly
	TypeFile
	TypeNil
	TypeArray
	TypeUnion
)

var typeKindNames = [...]string{
	TypeAny:      "any",
	TypeObject:   "object",
	TypeString:   "string",
	TypeNumber:   "number",
	TypeInteger:  "integer",
	TypeBoolean:  "boolean",
	TypeDateTime: "datetime",
	TypeDateOnly: "date-only",
	TypeTimeOnly: "time-only",
	TypeFile:     "file",
	TypeNil:      "nil",
	TypeArray:    "array",
	TypeUnion:    "union",
}

func (k TypeKind) String() string {
	if int(k) >= 0 && int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return fmt.Sprintf("typekind(%d)", int(k))
}

// Property is a named member of an object type.
type Property struct {
	Name     string
	Type     *Type
	Required bool
}

// Type is a declared, inline or built-in type.
type Type struct {
	annotated

	// Name is the declared name; empty for inline types.
	Name string
	// TypeKind is the structural kind, inherited through Base.
	TypeKind TypeKind
	// Base is the supertype; nil for built-in types, arrays and unions.
	Base *Type
	// Items is the element type of array types.
	Items *Type
	// Members are the alternatives of union types.
	Members []*Type

	Enum               []string
	Pattern            string
	Format             string
	Properties         []*Property
	Discriminator      string
	DiscriminatorValue string
	Description        string

	builtin bool
	parent  Node
}

// Kind implements Node.
func (t *Type) Kind() Kind { return KindType }

// Parent implements Node. Declared types are contained by their API or
// library, inline types by the node that defines them.
func (t *Type) Parent() Node {
	if t.parent == nil {
		return nil
	}
	return t.parent
}

// ID implements Node.
func (t *Type) ID() string {
	switch {
	case t.builtin:
		return "type:" + t.Name
	case t.Name == "":
		return "type:<inline " + t.TypeKind.String() + ">"
	}
	if lib, ok := t.parent.(*Library); ok {
		return "type:" + lib.Name + "." + t.Name
	}
	return "type:" + t.Name
}

// Builtin reports whether t is one of the predefined types.
func (t *Type) Builtin() bool { return t.builtin }

// Declared reports whether t has a user-declared name.
func (t *Type) Declared() bool { return t.Name != "" && !t.builtin }

// Supertypes returns t followed by its supertype chain, stopping after maxDepth entries.
func (t *Type) Supertypes(maxDepth int) []*Type {
	var out []*Type
	for c := t; c != nil && len(out) < maxDepth; c = c.Base {
		out = append(out, c)
	}
	return out
}

// EffectiveFormat returns the nearest format facet along the supertype chain.
func (t *Type) EffectiveFormat() string {
	for _, c := range t.Supertypes(maxChainDepth) {
		if c.Format != "" {
			return c.Format
		}
	}
	return ""
}

// Property returns the named property, searching supertypes.
func (t *Type) Property(name string) (*Property, bool) {
	for _, c := range t.Supertypes(maxChainDepth) {
		for _, p := range c.Properties {
			if p.Name == name {
				return p, true
			}
		}
	}
	return nil, false
}

// maxChainDepth bounds supertype and containment walks.
const maxChainDepth = 64

var builtinTypes = func() map[string]*Type {
	m := make(map[string]*Type)
	for k := TypeAny; k <= TypeArray; k++ {
		m[k.String()] = &Type{Name: k.String(), TypeKind: k, builtin: true}
	}
	m["datetime-only"] = &Type{Name: "datetime-only", TypeKind: TypeDateTime, builtin: true}
	return m
}()

// Builtin returns the predefined type with the given name.
func Builtin(name string) (*Type, bool) {
	t, ok := builtinTypes[name]
	return t, ok
}
