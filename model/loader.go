package model

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/logging"
)

var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"patch": true, "head": true, "options": true,
}

// unit is one declaration scope: the API document or a library.
type unit struct {
	path   string
	source string
	node   Node

	types    map[string]*Type
	typeDefs []typeDef
	traits   map[string]*Trait
	uses     map[string]*unit

	// resource definitions are built after every unit is declared
	resourceDefs []pair
}

type typeDef struct {
	t   *Type
	def *yaml.Node
}

type loader struct {
	fsys        fs.FS
	logger      logging.Logger
	maxFileSize int64

	files   map[string]*unit
	loading map[string]bool
	units   []*unit
	types   []*Type
}

func newLoader(cfg *loadConfig) *loader {
	return &loader{
		fsys:        cfg.fsys,
		logger:      cfg.logger,
		maxFileSize: cfg.maxFileSize,
		files:       make(map[string]*unit),
		loading:     make(map[string]bool),
	}
}

// load runs both phases: declare every unit reachable from the root, then
// link type expressions, resources and supertype kinds.
func (l *loader) load(data []byte, rootPath, source string) (*API, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}

	api := &API{Source: source}
	root := l.newUnit(rootPath, source, api)
	l.loading[rootPath] = true
	if err := l.declare(root, doc); err != nil {
		return nil, err
	}
	delete(l.loading, rootPath)

	for _, u := range l.units {
		for _, td := range u.typeDefs {
			if err := l.linkType(u, td.t, td.def); err != nil {
				return nil, err
			}
		}
	}

	for _, rd := range root.resourceDefs {
		r, err := l.buildResource(root, api, rd.key, rd.value)
		if err != nil {
			return nil, err
		}
		api.Resources = append(api.Resources, r)
	}

	for _, t := range l.types {
		if err := finalizeKind(t); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("loaded API description",
		"source", source,
		"types", len(api.Types),
		"libraries", len(api.Libraries()),
		"resources", len(api.Resources))
	return api, nil
}

func (l *loader) newUnit(p, source string, n Node) *unit {
	u := &unit{
		path:   p,
		source: source,
		node:   n,
		types:  make(map[string]*Type),
		traits: make(map[string]*Trait),
		uses:   make(map[string]*unit),
	}
	l.units = append(l.units, u)
	return u
}

func parseDocument(data []byte, source string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &cgerrors.ModelError{Path: source, Message: "decoding YAML", Cause: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &cgerrors.ModelError{Path: source, Message: "empty description"}
	}
	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, &cgerrors.ModelError{Path: source, Message: fmt.Sprintf("line %d: document root must be a mapping", root.Line)}
	}
	return root, nil
}

// declare registers the names a unit defines without resolving references.
func (l *loader) declare(u *unit, doc *yaml.Node) error {
	api, isAPI := u.node.(*API)
	lib, _ := u.node.(*Library)

	for _, p := range pairs(doc) {
		switch {
		case isAnnotationKey(p.key) || p.key == "annotations":
			anns, err := l.annotations(u, p)
			if err != nil {
				return err
			}
			addAnnotations(u.node, anns)
		case p.key == "title" && isAPI:
			api.Title = p.value.Value
		case p.key == "baseUri" && isAPI:
			api.BaseURI = p.value.Value
		case p.key == "name" && !isAPI:
			lib.Name = p.value.Value
		case p.key == "uses":
			if err := l.declareUses(u, p.value); err != nil {
				return err
			}
		case p.key == "types":
			if err := l.declareTypes(u, p.value); err != nil {
				return err
			}
		case p.key == "traits":
			if err := l.declareTraits(u, p.value); err != nil {
				return err
			}
		case strings.HasPrefix(p.key, "/") && isAPI:
			u.resourceDefs = append(u.resourceDefs, p)
		case p.key == "description" || p.key == "version" || p.key == "usage":
		default:
			l.logger.Warn("ignoring unknown key", "source", u.source, "key", p.key, "line", p.value.Line)
		}
	}
	return nil
}

func (l *loader) declareUses(u *unit, n *yaml.Node) error {
	for _, p := range pairs(n) {
		var (
			lu  *unit
			err error
		)
		if p.value.Kind == yaml.MappingNode {
			lu, err = l.declareInlineLibrary(u, p.key, p.value)
		} else {
			lu, err = l.loadLibrary(u, p.key, p.value.Value)
		}
		if err != nil {
			return err
		}
		u.uses[p.key] = lu
		use := &Use{Alias: p.key, Library: lu.node.(*Library)}
		switch owner := u.node.(type) {
		case *API:
			owner.Uses = append(owner.Uses, use)
		case *Library:
			owner.Uses = append(owner.Uses, use)
		}
	}
	return nil
}

func (l *loader) declareInlineLibrary(u *unit, alias string, n *yaml.Node) (*unit, error) {
	lib := &Library{Name: alias}
	lu := l.newUnit("", u.source, lib)
	lu.path = u.path
	if err := l.declare(lu, n); err != nil {
		return nil, err
	}
	return lu, nil
}

func (l *loader) loadLibrary(u *unit, alias, ref string) (*unit, error) {
	dir := "."
	if u.path != "" {
		dir = path.Dir(u.path)
	}
	p := path.Clean(path.Join(dir, ref))
	if strings.HasPrefix(ref, "/") || !fs.ValidPath(p) {
		return nil, &cgerrors.ReferenceError{Ref: ref, From: u.node.ID(), IsPathTraversal: true, Message: "library path escapes the description directory"}
	}
	if l.loading[p] {
		return nil, &cgerrors.ReferenceError{Ref: ref, From: u.node.ID(), IsCycle: true, Message: "library imports itself"}
	}
	if existing, ok := l.files[p]; ok {
		return existing, nil
	}

	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, &cgerrors.ModelError{Path: p, Message: "reading library " + alias, Cause: err}
	}
	if int64(len(data)) > l.maxFileSize {
		return nil, &cgerrors.ModelError{Path: p, Message: fmt.Sprintf("library exceeds %d bytes", l.maxFileSize)}
	}
	doc, err := parseDocument(data, p)
	if err != nil {
		return nil, err
	}

	lib := &Library{Name: alias, Path: p}
	lu := l.newUnit(p, p, lib)
	l.files[p] = lu
	l.loading[p] = true
	defer delete(l.loading, p)
	if err := l.declare(lu, doc); err != nil {
		return nil, err
	}
	l.logger.Debug("loaded library", "alias", alias, "path", p, "types", len(lib.Types))
	return lu, nil
}

func (l *loader) declareTypes(u *unit, n *yaml.Node) error {
	for _, p := range pairs(n) {
		if _, ok := builtinTypes[p.key]; ok {
			return &cgerrors.ModelError{Path: u.source, Message: fmt.Sprintf("line %d: type %q shadows a built-in type", p.value.Line, p.key)}
		}
		if _, dup := u.types[p.key]; dup {
			return &cgerrors.ModelError{Path: u.source, Message: fmt.Sprintf("line %d: duplicate type %q", p.value.Line, p.key)}
		}
		t := &Type{Name: p.key, parent: u.node}
		u.types[p.key] = t
		u.typeDefs = append(u.typeDefs, typeDef{t: t, def: p.value})
		l.types = append(l.types, t)
		switch owner := u.node.(type) {
		case *API:
			owner.Types = append(owner.Types, t)
		case *Library:
			owner.Types = append(owner.Types, t)
		}
	}
	return nil
}

func (l *loader) declareTraits(u *unit, n *yaml.Node) error {
	for _, p := range pairs(n) {
		tr := &Trait{Name: p.key, parent: u.node}
		for _, f := range pairs(p.value) {
			switch {
			case f.key == "description":
				tr.Description = f.value.Value
			case isAnnotationKey(f.key) || f.key == "annotations":
				anns, err := l.annotations(u, f)
				if err != nil {
					return err
				}
				tr.annotations = append(tr.annotations, anns...)
			}
		}
		u.traits[p.key] = tr
		switch owner := u.node.(type) {
		case *API:
			owner.Traits = append(owner.Traits, tr)
		case *Library:
			owner.Traits = append(owner.Traits, tr)
		}
	}
	return nil
}

func (l *loader) buildResource(u *unit, parent Node, uri string, def *yaml.Node) (*Resource, error) {
	r := &Resource{RelativeURI: uri, parent: parent}
	for _, p := range pairs(def) {
		switch {
		case strings.HasPrefix(p.key, "/"):
			child, err := l.buildResource(u, r, p.key, p.value)
			if err != nil {
				return nil, err
			}
			r.Resources = append(r.Resources, child)
		case httpMethods[p.key]:
			m, err := l.buildMethod(u, r, p.key, p.value)
			if err != nil {
				return nil, err
			}
			r.Methods = append(r.Methods, m)
		case isAnnotationKey(p.key) || p.key == "annotations":
			anns, err := l.annotations(u, p)
			if err != nil {
				return nil, err
			}
			r.annotations = append(r.annotations, anns...)
		case p.key == "description" || p.key == "displayName" || p.key == "uriParameters":
		default:
			l.logger.Warn("ignoring unknown resource key", "resource", r.ID(), "key", p.key)
		}
	}
	return r, nil
}

func (l *loader) buildMethod(u *unit, r *Resource, name string, def *yaml.Node) (*Method, error) {
	m := &Method{Method: name, resource: r}
	for _, p := range pairs(def) {
		switch {
		case p.key == "is":
			for _, ref := range sequence(p.value) {
				tr, err := l.lookupTrait(u, ref.Value, m)
				if err != nil {
					return nil, err
				}
				m.Is = append(m.Is, tr)
			}
		case p.key == "body":
			t, err := l.typeRef(u, p.value, m)
			if err != nil {
				return nil, err
			}
			m.Body = t
		case p.key == "response":
			t, err := l.typeRef(u, p.value, m)
			if err != nil {
				return nil, err
			}
			m.Responses = append(m.Responses, &Response{Status: "200", Body: t})
		case p.key == "responses":
			for _, rp := range pairs(p.value) {
				resp := &Response{Status: rp.key}
				if !isNull(rp.value) {
					t, err := l.typeRef(u, rp.value, m)
					if err != nil {
						return nil, err
					}
					resp.Body = t
				}
				m.Responses = append(m.Responses, resp)
			}
		case isAnnotationKey(p.key) || p.key == "annotations":
			anns, err := l.annotations(u, p)
			if err != nil {
				return nil, err
			}
			m.annotations = append(m.annotations, anns...)
		case p.key == "description" || p.key == "displayName" || p.key == "queryParameters" || p.key == "headers":
		default:
			l.logger.Warn("ignoring unknown method key", "method", m.ID(), "key", p.key)
		}
	}
	return m, nil
}

func (l *loader) lookupTrait(u *unit, ref string, from Node) (*Trait, error) {
	scope, name, err := l.scopeFor(u, ref, from)
	if err != nil {
		return nil, err
	}
	tr, ok := scope.traits[name]
	if !ok {
		return nil, &cgerrors.ReferenceError{Ref: ref, From: from.ID(), Message: "unknown trait"}
	}
	return tr, nil
}

// scopeFor splits an optionally alias-qualified reference and returns the unit it names.
func (l *loader) scopeFor(u *unit, ref string, from Node) (*unit, string, error) {
	alias, name, qualified := strings.Cut(ref, ".")
	if !qualified {
		return u, ref, nil
	}
	lu, ok := u.uses[alias]
	if !ok {
		return nil, "", &cgerrors.ReferenceError{Ref: ref, From: from.ID(), Message: fmt.Sprintf("unknown library alias %q", alias)}
	}
	return lu, name, nil
}
