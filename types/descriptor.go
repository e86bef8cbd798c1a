package types

import "fmt"

// Descriptor is a canonical type descriptor. Implementations are comparable
// values, so descriptors can be compared with == and used as map keys.
type Descriptor interface {
	// SimpleName returns the unqualified name of the described type.
	SimpleName() string
	// String returns a diagnostic rendering, e.g. "object(io/vrap/models.Pet)".
	String() string

	descriptor()
}

// DateKind distinguishes the date and time descriptor variants.
type DateKind int

const (
	DateKindDateTime DateKind = iota
	DateKindDate
	DateKindTime
)

func (k DateKind) String() string {
	switch k {
	case DateKindDate:
		return "date"
	case DateKindTime:
		return "time"
	default:
		return "datetime"
	}
}

// Object describes a generated class: a declared object type, a named
// union, a resource request builder or a method request.
type Object struct {
	Package string
	Name    string
}

func (o Object) SimpleName() string { return o.Name }
func (o Object) String() string     { return "object(" + qualify(o.Package, o.Name) + ")" }
func (Object) descriptor()          {}

// Enum describes a declared string type with an enumerated value set.
type Enum struct {
	Package string
	Name    string
}

func (e Enum) SimpleName() string { return e.Name }
func (e Enum) String() string     { return "enum(" + qualify(e.Package, e.Name) + ")" }
func (Enum) descriptor()          {}

// Scalar describes a language primitive taken from the base type table.
type Scalar struct {
	Name      string
	Primitive string
}

func (s Scalar) SimpleName() string { return s.Name }
func (s Scalar) String() string {
	if s.Primitive == "" || s.Primitive == s.Name {
		return "scalar(" + s.Name + ")"
	}
	return "scalar(" + s.Name + ":" + s.Primitive + ")"
}
func (Scalar) descriptor() {}

// Array describes a list of Item.
type Array struct {
	Item Descriptor
}

func (a Array) SimpleName() string {
	if a.Item == nil {
		return "[]"
	}
	return a.Item.SimpleName() + "[]"
}
func (a Array) String() string {
	if a.Item == nil {
		return "array()"
	}
	return "array(" + a.Item.String() + ")"
}
func (Array) descriptor() {}

// Nil describes the absence of a value (void).
type Nil struct{}

func (Nil) SimpleName() string { return "void" }
func (Nil) String() string     { return "nil" }
func (Nil) descriptor()        {}

// Any describes an opaque value of a language base type.
type Any struct {
	BaseName string
}

func (a Any) SimpleName() string { return a.BaseName }
func (a Any) String() string     { return "any(" + a.BaseName + ")" }
func (Any) descriptor()          {}

// DateTime describes a declared date or time type.
type DateTime struct {
	Package string
	Name    string
	SubKind DateKind
}

func (d DateTime) SimpleName() string { return d.Name }
func (d DateTime) String() string {
	return fmt.Sprintf("%s(%s)", d.SubKind, qualify(d.Package, d.Name))
}
func (DateTime) descriptor() {}

// Library describes a type library.
type Library struct {
	Package string
	Name    string
}

func (l Library) SimpleName() string { return l.Name }
func (l Library) String() string     { return "library(" + qualify(l.Package, l.Name) + ")" }
func (Library) descriptor()          {}

// Package returns the package of d, or "" for variants without one.
func Package(d Descriptor) string {
	switch v := d.(type) {
	case Object:
		return v.Package
	case Enum:
		return v.Package
	case DateTime:
		return v.Package
	case Library:
		return v.Package
	default:
		return ""
	}
}

// QualifiedName returns "package.Name" for packaged descriptors and the
// simple name otherwise.
func QualifiedName(d Descriptor) string {
	return qualify(Package(d), d.SimpleName())
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
