package golang

import (
	"go/token"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/markkovari/rmf-codegen/internal/naming"
	"github.com/markkovari/rmf-codegen/types"
)

// stdQualifiers maps qualifiers used in base-type names to their import paths.
var stdQualifiers = map[string]string{
	"time": "time",
	"io":   "io",
	"json": "encoding/json",
}

// importSpec is one line of an import block.
type importSpec struct {
	Alias string
	Path  string
}

// imports collects the imports of one generated file. Non-standard
// imports always get an explicit alias so formatting never has to look
// packages up.
type imports struct {
	module string
	self   string
	byPath map[string]string
	used   map[string]bool
}

func newImports(module, selfPkg string) *imports {
	im := &imports{
		module: module,
		self:   selfPkg,
		byPath: make(map[string]string),
		used:   map[string]bool{packageName(selfPkg): true},
	}
	return im
}

// std records a standard library import.
func (im *imports) std(path string) {
	if _, ok := im.byPath[path]; !ok {
		im.byPath[path] = ""
	}
}

// qualifier returns the alias under which pkg is referenced, adding the
// import when needed. It returns "" for the file's own package.
func (im *imports) qualifier(pkg string) string {
	if pkg == "" || pkg == im.self {
		return ""
	}
	path := importPath(im.module, pkg)
	if alias, ok := im.byPath[path]; ok {
		return alias
	}
	base := packageName(pkg)
	alias := base
	for i := 2; im.used[alias]; i++ {
		alias = base + strconv.Itoa(i)
	}
	im.used[alias] = true
	im.byPath[path] = alias
	return alias
}

// specs returns the imports sorted by path.
func (im *imports) specs() []importSpec {
	out := make([]importSpec, 0, len(im.byPath))
	for p, a := range im.byPath {
		out = append(out, importSpec{Alias: a, Path: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// goType renders d as a Go type expression seen from the file's package.
func (im *imports) goType(d types.Descriptor) string {
	switch v := d.(type) {
	case types.Object:
		return im.ref(v.Package, v.Name)
	case types.Enum:
		return im.ref(v.Package, v.Name)
	case types.DateTime:
		return im.ref(v.Package, v.Name)
	case types.Library:
		return im.ref(v.Package, v.Name)
	case types.Array:
		if v.Item == nil {
			return "[]any"
		}
		return "[]" + im.goType(v.Item)
	case types.Scalar:
		if q, _, ok := strings.Cut(v.Name, "."); ok {
			if p, known := stdQualifiers[q]; known {
				im.std(p)
			}
		}
		return v.Name
	case types.Any:
		if v.BaseName != "" && v.BaseName != "any" {
			return v.BaseName
		}
		return "any"
	default:
		return "any"
	}
}

func (im *imports) ref(pkg, name string) string {
	if q := im.qualifier(pkg); q != "" {
		return q + "." + name
	}
	return name
}

// nilable reports whether the zero value of the Go type expression is nil.
func nilable(expr string) bool {
	return strings.HasPrefix(expr, "[]") ||
		strings.HasPrefix(expr, "map[") ||
		strings.HasPrefix(expr, "*") ||
		expr == "any" || expr == "io.Reader"
}

// importPath maps a package path to its Go import path.
func importPath(module, pkg string) string {
	if module == "" {
		return pkg
	}
	return strings.TrimRight(module, "/") + "/" + pkg
}

// packageName derives a valid package clause from a package path.
func packageName(pkg string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(naming.LastSegment(pkg)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "pkg" + name
	}
	if token.IsKeyword(name) {
		name += "_"
	}
	return name
}

// identifier turns a model name into an exported Go identifier.
func identifier(s string) string {
	id := naming.ToPascalCase(s)
	var b strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	id = b.String()
	if id == "" {
		return "X"
	}
	if unicode.IsDigit(rune(id[0])) {
		id = "X" + id
	}
	return id
}

// param turns a URI parameter into an unexported Go identifier.
func param(s string) string {
	id := naming.ToCamelCase(identifier(s))
	if token.IsKeyword(id) {
		id += "Param"
	}
	return id
}
