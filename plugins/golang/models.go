package golang

import (
	"context"
	"fmt"
	"strings"

	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/internal/naming"
	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/plugins/render"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

// fileData is the part of every template context rendered by "header".
type fileData struct {
	Header  string
	Package string
	Imports []importSpec
}

type fieldData struct {
	Name string
	Type string
	JSON string
	Doc  string
}

type structData struct {
	fileData
	Name               string
	Doc                string
	Discriminator      string
	DiscriminatorValue string
	Fields             []fieldData
}

type enumValue struct {
	Const string
	Value string
}

type enumData struct {
	fileData
	Name   string
	Doc    string
	Values []enumValue
}

type unionMember struct {
	Field string
	Type  string
}

type unionData struct {
	fileData
	Name    string
	Doc     string
	Members []unionMember
}

type scalarData struct {
	fileData
	Name    string
	Doc     string
	Base    string
	Pattern string
	Alias   bool
}

// modelTarget returns the declared type and descriptor of a type target.
func modelTarget(t generator.Target) (*model.Type, error) {
	mt, ok := t.Node.(*model.Type)
	if !ok || !mt.Declared() {
		return nil, fmt.Errorf("expected a declared type, got %s", t.ID())
	}
	return mt, nil
}

func (g *plugin) header(env *generator.Env) string {
	h := "// Code generated by rmf-codegen. DO NOT EDIT."
	if env.GitHash != "" {
		h += "\n// Source commit: " + env.GitHash
	}
	return h
}

// renderFile executes a template, formats the result and wraps it into a
// generated file at pkg/snake(name).go.
func (g *plugin) renderFile(tmpl, pkg, name string, data any, members int) ([]sink.GeneratedFile, error) {
	filename := naming.ToSnakeCase(name) + ".go"
	src, err := render.Execute(templates, tmpl, data, members)
	if err != nil {
		return nil, err
	}
	out, err := render.FormatGo(filename, src)
	if err != nil {
		return nil, err
	}
	return []sink.GeneratedFile{{Path: render.FilePath(pkg, filename), Content: out}}, nil
}

func (g *plugin) newFile(env *generator.Env, pkg string) (*imports, fileData) {
	return newImports(g.module, pkg), fileData{Header: g.header(env), Package: packageName(pkg)}
}

// produceStruct renders an object type as a struct carrying its own and
// inherited properties.
func (g *plugin) produceStruct(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	mt, err := modelTarget(t)
	if err != nil {
		return nil, err
	}
	obj, ok := t.Type.(types.Object)
	if !ok {
		return nil, fmt.Errorf("object type %s resolved to %s", mt.Name, t.Type)
	}
	im, fd := g.newFile(env, obj.Package)

	data := structData{
		Name:               identifier(obj.Name),
		Doc:                mt.Description,
		Discriminator:      mt.Discriminator,
		DiscriminatorValue: mt.DiscriminatorValue,
	}
	for _, p := range flattenProperties(mt) {
		typ := im.goType(env.Resolve(p.Type))
		tag := p.Name
		if !p.Required {
			tag += ",omitempty"
			if !nilable(typ) {
				typ = "*" + typ
			}
		}
		field := fieldData{Name: identifier(p.Name), Type: typ, JSON: tag}
		if !p.Type.Declared() {
			field.Doc = p.Type.Description
		}
		data.Fields = append(data.Fields, field)
	}
	fd.Imports = im.specs()
	data.fileData = fd
	return g.renderFile("struct.go.tmpl", obj.Package, obj.Name, data, len(data.Fields))
}

// flattenProperties returns the properties of t and its supertypes, base
// type first. A redeclared property keeps its position and takes the
// subtype's definition.
func flattenProperties(t *model.Type) []*model.Property {
	chain := t.Supertypes(types.MaxWalkDepth)
	index := make(map[string]int)
	var out []*model.Property
	for i := len(chain) - 1; i >= 0; i-- {
		for _, p := range chain[i].Properties {
			if at, ok := index[p.Name]; ok {
				out[at] = p
				continue
			}
			index[p.Name] = len(out)
			out = append(out, p)
		}
	}
	return out
}

func (g *plugin) produceEnum(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	mt, err := modelTarget(t)
	if err != nil {
		return nil, err
	}
	e, ok := t.Type.(types.Enum)
	if !ok {
		return nil, fmt.Errorf("enum type %s resolved to %s", mt.Name, t.Type)
	}
	_, fd := g.newFile(env, e.Package)

	data := enumData{fileData: fd, Name: identifier(e.Name), Doc: mt.Description}
	seen := make(map[string]bool)
	for _, v := range mt.Enum {
		c := data.Name + identifier(v)
		for base, i := c, 2; seen[c]; i++ {
			c = fmt.Sprintf("%s%d", base, i)
		}
		seen[c] = true
		data.Values = append(data.Values, enumValue{Const: c, Value: v})
	}
	return g.renderFile("enum.go.tmpl", e.Package, e.Name, data, len(data.Values))
}

func (g *plugin) produceUnion(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	mt, err := modelTarget(t)
	if err != nil {
		return nil, err
	}
	obj, ok := t.Type.(types.Object)
	if !ok {
		return nil, fmt.Errorf("union type %s resolved to %s", mt.Name, t.Type)
	}
	im, fd := g.newFile(env, obj.Package)

	data := unionData{Name: identifier(obj.Name), Doc: mt.Description}
	seen := make(map[string]bool)
	for _, m := range mt.EffectiveMembers() {
		if m.TypeKind == model.TypeNil {
			continue
		}
		typ := im.goType(env.Resolve(m))
		field := memberField(typ)
		for base, i := field, 2; seen[field]; i++ {
			field = fmt.Sprintf("%s%d", base, i)
		}
		seen[field] = true
		if !nilable(typ) {
			typ = "*" + typ
		}
		data.Members = append(data.Members, unionMember{Field: field, Type: typ})
	}
	fd.Imports = im.specs()
	data.fileData = fd
	return g.renderFile("union.go.tmpl", obj.Package, obj.Name, data, len(data.Members))
}

// memberField names the union field holding a member of Go type typ.
func memberField(typ string) string {
	suffix := ""
	for strings.HasPrefix(typ, "[]") {
		typ = typ[2:]
		suffix += "List"
	}
	if i := strings.LastIndex(typ, "."); i >= 0 {
		typ = typ[i+1:]
	}
	return identifier(typ) + suffix
}

// produceScalar renders pattern and plain string types as named types.
func (g *plugin) produceScalar(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	mt, err := modelTarget(t)
	if err != nil {
		return nil, err
	}
	pkg := env.Package(mt)
	im, fd := g.newFile(env, pkg)
	data := scalarData{
		Name:    identifier(mt.Name),
		Doc:     mt.Description,
		Base:    im.goType(t.Type),
		Pattern: mt.Pattern,
	}
	if data.Pattern != "" {
		im.std("regexp")
	}
	fd.Imports = im.specs()
	data.fileData = fd
	return g.renderFile("scalar.go.tmpl", pkg, mt.Name, data, 1)
}

// produceDateAlias renders declared date and time types as aliases of the
// base date type. Other types are skipped.
func (g *plugin) produceDateAlias(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	d, ok := t.Type.(types.DateTime)
	if !ok {
		return nil, nil
	}
	mt, err := modelTarget(t)
	if err != nil {
		return nil, err
	}
	var slot types.Descriptor
	switch d.SubKind {
	case types.DateKindDate:
		slot = g.base.DateOnly
	case types.DateKindTime:
		slot = g.base.TimeOnly
	default:
		slot = g.base.DateTime
	}
	im, fd := g.newFile(env, d.Package)
	data := scalarData{
		Name:  identifier(d.Name),
		Doc:   mt.Description,
		Base:  im.goType(slot),
		Alias: true,
	}
	fd.Imports = im.specs()
	data.fileData = fd
	return g.renderFile("scalar.go.tmpl", d.Package, d.Name, data, 1)
}
