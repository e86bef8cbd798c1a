package typescript

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	rmfcodegen "github.com/markkovari/rmf-codegen"
	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/internal/naming"
	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/plugins/render"
	"github.com/markkovari/rmf-codegen/query"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

var uriParam = regexp.MustCompile(`\{([^}]+)\}`)

type fileData struct {
	Header  string
	Imports []importLine
}

type propertyData struct {
	Name     string
	Type     string
	Optional bool
}

type interfaceData struct {
	fileData
	Name       string
	Doc        string
	Extends    string
	Properties []propertyData
}

type aliasData struct {
	fileData
	Name    string
	Doc     string
	Type    string
	Values  []string
	Pattern string
}

type methodData struct {
	Name       string
	Verb       string
	URI        string
	Params     []string
	Path       string
	BodyType   string
	ResultType string
	Deprecated bool
}

type builderData struct {
	fileData
	Name    string
	URIs    []string
	Methods []methodData
}

type clientData struct {
	fileData
	Title     string
	BaseURI   string
	UserAgent string
	Builders  []builderAccessor
}

type builderAccessor struct {
	Name     string
	Accessor string
}

type indexData struct {
	fileData
	Exports []string
}

func header(env *generator.Env) string {
	h := "// " + rmfcodegen.GeneratedBy()
	if env.GitHash != "" {
		h += "\n// Source commit: " + env.GitHash
	}
	return h
}

func declared(t generator.Target) (*model.Type, error) {
	mt, ok := t.Node.(*model.Type)
	if !ok || !mt.Declared() {
		return nil, fmt.Errorf("expected a declared type, got %s", t.ID())
	}
	return mt, nil
}

func renderTS(tmpl, file string, data any, members int) ([]sink.GeneratedFile, error) {
	out, err := render.Execute(templates, tmpl, data, members)
	if err != nil {
		return nil, err
	}
	return []sink.GeneratedFile{{Path: file, Content: out}}, nil
}

func (p *plugin) layout(env *generator.Env) layout {
	return layout{base: env.Packages.Base}
}

// produceInterface renders an object type as an interface extending its
// declared supertype.
func (p *plugin) produceInterface(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	mt, err := declared(t)
	if err != nil {
		return nil, err
	}
	obj, ok := t.Type.(types.Object)
	if !ok {
		return nil, fmt.Errorf("object type %s resolved to %s", mt.Name, t.Type)
	}
	l := p.layout(env)
	file := l.file(obj.Package, obj.Name)
	im := newImports(l, file)

	data := interfaceData{Name: obj.Name, Doc: mt.Description}
	if mt.Base != nil && mt.Base.Declared() {
		if base, ok := env.Resolve(mt.Base).(types.Object); ok {
			data.Extends = im.tsType(base)
		}
	}
	for _, prop := range mt.Properties {
		data.Properties = append(data.Properties, propertyData{
			Name:     propertyName(prop.Name),
			Type:     im.tsType(env.Resolve(prop.Type)),
			Optional: !prop.Required,
		})
	}
	data.fileData = fileData{Header: header(env), Imports: im.lines()}
	return renderTS("interface.ts.tmpl", file, data, len(data.Properties))
}

// propertyName quotes names that are not valid identifiers.
func propertyName(name string) string {
	for i, r := range name {
		ok := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !ok {
			return strconv.Quote(name)
		}
	}
	if name == "" {
		return `""`
	}
	return name
}

func (p *plugin) produceUnion(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	mt, err := declared(t)
	if err != nil {
		return nil, err
	}
	obj, ok := t.Type.(types.Object)
	if !ok {
		return nil, fmt.Errorf("union type %s resolved to %s", mt.Name, t.Type)
	}
	l := p.layout(env)
	file := l.file(obj.Package, obj.Name)
	im := newImports(l, file)

	var members []string
	for _, m := range mt.EffectiveMembers() {
		members = append(members, im.tsType(env.Resolve(m)))
	}
	data := aliasData{Name: obj.Name, Doc: mt.Description, Type: strings.Join(members, " | ")}
	data.fileData = fileData{Header: header(env), Imports: im.lines()}
	return renderTS("alias.ts.tmpl", file, data, len(members))
}

func (p *plugin) produceEnum(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	mt, err := declared(t)
	if err != nil {
		return nil, err
	}
	e, ok := t.Type.(types.Enum)
	if !ok {
		return nil, fmt.Errorf("enum type %s resolved to %s", mt.Name, t.Type)
	}
	quoted := make([]string, len(mt.Enum))
	for i, v := range mt.Enum {
		quoted[i] = strconv.Quote(v)
	}
	data := aliasData{
		fileData: fileData{Header: header(env)},
		Name:     e.Name,
		Doc:      mt.Description,
		Type:     strings.Join(quoted, " | "),
		Values:   quoted,
	}
	return renderTS("alias.ts.tmpl", p.layout(env).file(e.Package, e.Name), data, len(quoted))
}

// produceScalar renders pattern, plain string and declared date types as
// aliases of their base type.
func (p *plugin) produceScalar(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	mt, err := declared(t)
	if err != nil {
		return nil, err
	}
	base := t.Type
	if d, ok := t.Type.(types.DateTime); ok {
		switch d.SubKind {
		case types.DateKindDate:
			base = p.base.DateOnly
		case types.DateKindTime:
			base = p.base.TimeOnly
		default:
			base = p.base.DateTime
		}
	}
	pkg := env.Package(mt)
	l := p.layout(env)
	file := l.file(pkg, mt.Name)
	im := newImports(l, file)
	data := aliasData{
		Name:    mt.Name,
		Doc:     mt.Description,
		Type:    im.tsType(base),
		Pattern: mt.Pattern,
	}
	data.fileData = fileData{Header: header(env), Imports: im.lines()}
	return renderTS("alias.ts.tmpl", file, data, 1)
}

// produceDateAlias limits produceScalar to declared date and time types.
func (p *plugin) produceDateAlias(ctx context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	if _, ok := t.Type.(types.DateTime); !ok {
		return nil, nil
	}
	return p.produceScalar(ctx, env, t)
}

// produceBuilder renders one request builder class per resource collection.
func (p *plugin) produceBuilder(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	c := t.Collection
	if c == nil {
		return nil, fmt.Errorf("request builder target %s has no collection", t.ID())
	}
	l := p.layout(env)
	file := l.file(c.Type.Package, c.Type.Name)
	im := newImports(l, file)
	im.add(l.file(env.Packages.Client, "Client"), "Client")

	data := builderData{Name: c.Type.Name}
	for _, r := range c.Resources {
		data.URIs = append(data.URIs, r.FullURI())
		for _, m := range r.Methods {
			d, ok := env.Resolve(m).(types.Object)
			if !ok {
				return nil, fmt.Errorf("method %s did not resolve to an object", m.ID())
			}
			md := methodData{
				Name:       naming.ToCamelCase(d.Name),
				Verb:       strings.ToUpper(m.Method),
				URI:        r.FullURI(),
				Deprecated: model.IsDeprecated(m),
				ResultType: "void",
			}
			md.Path, md.Params = templatePath(r.FullURI())
			if m.Body != nil {
				md.BodyType = im.tsType(env.Resolve(m.Body))
			}
			if body := m.SuccessBody(); body != nil {
				md.ResultType = im.tsType(env.Resolve(body))
			}
			data.Methods = append(data.Methods, md)
		}
	}
	data.fileData = fileData{Header: header(env), Imports: im.lines()}
	return renderTS("builder.ts.tmpl", file, data, len(data.Methods))
}

// templatePath turns a URI into a template literal with every {param}
// interpolated and encoded.
func templatePath(uri string) (string, []string) {
	var params []string
	seen := make(map[string]bool)
	out := uriParam.ReplaceAllStringFunc(uri, func(m string) string {
		name := naming.ToCamelCase(m[1 : len(m)-1])
		if !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
		return "${encodeURIComponent(" + name + ")}"
	})
	return "`" + out + "`", params
}

// produceClient renders the client class with one accessor per builder.
func (p *plugin) produceClient(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	api, ok := t.Node.(*model.API)
	if !ok {
		return nil, fmt.Errorf("client target %s is not the API root", t.ID())
	}
	cols, err := query.Group(env.Resolver, env.Surface.Resources())
	if err != nil {
		return nil, err
	}
	l := p.layout(env)
	file := l.file(env.Packages.Client, "Client")
	im := newImports(l, file)

	data := clientData{Title: api.Title, BaseURI: api.BaseURI, UserAgent: rmfcodegen.UserAgent()}
	for _, c := range cols {
		im.add(l.file(c.Type.Package, c.Type.Name), c.Type.Name)
		name := strings.TrimSuffix(c.Type.Name, types.RequestBuilderSuffix)
		if name == "" {
			name = c.Type.Name
		}
		data.Builders = append(data.Builders, builderAccessor{Name: c.Type.Name, Accessor: naming.ToCamelCase(name)})
	}
	data.fileData = fileData{Header: header(env), Imports: im.lines()}
	return renderTS("client.ts.tmpl", file, data, len(data.Builders))
}

// produceIndex renders src/index.ts re-exporting every generated module.
func (p *plugin) produceIndex(_ context.Context, env *generator.Env, _ generator.Target) ([]sink.GeneratedFile, error) {
	l := p.layout(env)
	file := "src/index.ts"
	seen := make(map[string]bool)
	var exports []string
	add := func(target string) {
		m := relModule("src", target)
		if !seen[m] {
			seen[m] = true
			exports = append(exports, m)
		}
	}

	s := env.Surface
	for _, group := range [][]*model.Type{s.ObjectTypes(), s.UnionTypes(), s.EnumStringTypes(), s.PatternStringTypes(), s.NamedScalarTypes()} {
		for _, mt := range group {
			add(l.file(env.Package(mt), mt.Name))
		}
	}
	for _, mt := range s.AllTypes() {
		if _, ok := env.Resolve(mt).(types.DateTime); ok {
			add(l.file(env.Package(mt), mt.Name))
		}
	}
	cols, err := query.Group(env.Resolver, s.Resources())
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		add(l.file(c.Type.Package, c.Type.Name))
	}
	add(l.file(env.Packages.Client, "Client"))

	data := indexData{fileData: fileData{Header: header(env)}, Exports: exports}
	return renderTS("index.ts.tmpl", file, data, len(exports))
}
