package golang

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	rmfcodegen "github.com/markkovari/rmf-codegen"
	"github.com/markkovari/rmf-codegen/generator"
	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/query"
	"github.com/markkovari/rmf-codegen/sink"
	"github.com/markkovari/rmf-codegen/types"
)

var uriParam = regexp.MustCompile(`\{([^}]+)\}`)

type methodData struct {
	Name          string
	Verb          string
	URI           string
	Params        []string
	PathExpr      string
	BodyType      string
	ResultType    string
	ResultElem    string
	ResultPointer bool
	Deprecated    bool
}

type builderData struct {
	fileData
	Name     string
	Accessor string
	URIs     []string
	Methods  []methodData
}

type clientData struct {
	fileData
	Title     string
	BaseURI   string
	UserAgent string
	Builders  []builderData
}

// produceBuilder renders the request builder of a resource collection with
// one method per HTTP method of every resource in it.
func (g *plugin) produceBuilder(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	c := t.Collection
	if c == nil {
		return nil, fmt.Errorf("request builder target %s has no collection", t.ID())
	}
	im, fd := g.newFile(env, c.Type.Package)
	im.std("context")

	data := builderData{Name: identifier(c.Type.Name), Accessor: accessor(c)}
	for _, r := range c.Resources {
		data.URIs = append(data.URIs, r.FullURI())
		for _, m := range r.Methods {
			md, err := g.method(env, im, m)
			if err != nil {
				return nil, err
			}
			data.Methods = append(data.Methods, md)
		}
	}
	fd.Imports = im.specs()
	data.fileData = fd
	return g.renderFile("builder.go.tmpl", c.Type.Package, c.Type.Name, data, len(data.Methods))
}

func (g *plugin) method(env *generator.Env, im *imports, m *model.Method) (methodData, error) {
	d, ok := env.Resolve(m).(types.Object)
	if !ok {
		return methodData{}, fmt.Errorf("method %s did not resolve to an object", m.ID())
	}
	uri := m.Resource().FullURI()
	md := methodData{
		Name:       identifier(d.Name),
		Verb:       strings.ToUpper(m.Method),
		URI:        uri,
		Deprecated: model.IsDeprecated(m),
	}
	md.PathExpr, md.Params = pathExpr(uri)
	if len(md.Params) > 0 {
		im.std("net/url")
	}
	if m.Body != nil {
		md.BodyType = im.goType(env.Resolve(m.Body))
	}
	if body := m.SuccessBody(); body != nil {
		if _, isNil := env.Resolve(body).(types.Nil); !isNil {
			elem := im.goType(env.Resolve(body))
			md.ResultElem = elem
			md.ResultType = elem
			if !nilable(elem) {
				md.ResultType = "*" + elem
				md.ResultPointer = true
			}
		}
	}
	return md, nil
}

// pathExpr builds a Go string expression for uri with every {param}
// replaced by its escaped argument.
func pathExpr(uri string) (string, []string) {
	var parts, params []string
	seen := make(map[string]bool)
	last := 0
	for _, loc := range uriParam.FindAllStringSubmatchIndex(uri, -1) {
		if loc[0] > last {
			parts = append(parts, strconv.Quote(uri[last:loc[0]]))
		}
		p := param(uri[loc[2]:loc[3]])
		for base, i := p, 2; seen[p]; i++ {
			p = base + strconv.Itoa(i)
		}
		seen[p] = true
		params = append(params, p)
		parts = append(parts, "url.PathEscape("+p+")")
		last = loc[1]
	}
	if last < len(uri) || len(parts) == 0 {
		parts = append(parts, strconv.Quote(uri[last:]))
	}
	return strings.Join(parts, " + "), params
}

// accessor names the Client method returning a collection's builder.
func accessor(c *query.ResourceCollection) string {
	name := strings.TrimSuffix(c.Type.Name, types.RequestBuilderSuffix)
	if name == "" {
		name = c.Type.Name
	}
	return identifier(name)
}

// produceClient renders the client scaffold with one accessor per
// resource collection.
func (g *plugin) produceClient(_ context.Context, env *generator.Env, t generator.Target) ([]sink.GeneratedFile, error) {
	api, ok := t.Node.(*model.API)
	if !ok {
		return nil, fmt.Errorf("client target %s is not the API root", t.ID())
	}
	cols, err := query.Group(env.Resolver, env.Surface.Resources())
	if err != nil {
		return nil, err
	}
	pkg := env.Packages.Client
	_, fd := g.newFile(env, pkg)
	data := clientData{
		fileData:  fd,
		Title:     api.Title,
		BaseURI:   api.BaseURI,
		UserAgent: rmfcodegen.UserAgent(),
	}
	for _, c := range cols {
		if c.Type.Package != pkg {
			continue
		}
		data.Builders = append(data.Builders, builderData{
			Name:     identifier(c.Type.Name),
			Accessor: accessor(c),
			URIs:     collectionURIs(c),
		})
	}
	return g.renderFile("client.go.tmpl", pkg, "client", data, len(data.Builders))
}

func collectionURIs(c *query.ResourceCollection) []string {
	out := make([]string, 0, len(c.Resources))
	for _, r := range c.Resources {
		out = append(out, r.FullURI())
	}
	return out
}
