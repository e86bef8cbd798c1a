package typescript

import (
	"path"
	"sort"
	"strings"

	"github.com/markkovari/rmf-codegen/types"
)

// importLine is one `import type { ... } from "..."` statement.
type importLine struct {
	Names []string
	From  string
}

// imports collects the named imports of one TypeScript file.
type imports struct {
	layout layout
	self   string
	byFile map[string]map[string]bool
}

func newImports(l layout, selfFile string) *imports {
	return &imports{layout: l, self: selfFile, byFile: make(map[string]map[string]bool)}
}

func (im *imports) add(file, name string) {
	if file == im.self {
		return
	}
	names, ok := im.byFile[file]
	if !ok {
		names = make(map[string]bool)
		im.byFile[file] = names
	}
	names[name] = true
}

// lines returns the import statements sorted by module path.
func (im *imports) lines() []importLine {
	out := make([]importLine, 0, len(im.byFile))
	for file, set := range im.byFile {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		sort.Strings(names)
		out = append(out, importLine{Names: names, From: relModule(path.Dir(im.self), file)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// tsType renders d as a TypeScript type expression.
func (im *imports) tsType(d types.Descriptor) string {
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
			return "unknown[]"
		}
		return im.tsType(v.Item) + "[]"
	case types.Scalar:
		return v.Name
	case types.Any:
		if v.BaseName == "" {
			return "any"
		}
		return v.BaseName
	case types.Nil:
		return "null"
	default:
		return "any"
	}
}

func (im *imports) ref(pkg, name string) string {
	im.add(im.layout.file(pkg, name), name)
	return name
}

// layout places package paths below src/, relative to the base package.
type layout struct {
	base string
}

// dir returns the source directory of pkg.
func (l layout) dir(pkg string) string {
	rel := pkg
	if l.base != "" && strings.HasPrefix(pkg, l.base+"/") {
		rel = strings.TrimPrefix(pkg, l.base+"/")
	} else if pkg == l.base {
		rel = ""
	}
	return path.Join("src", rel)
}

// file returns the path of the module declaring name in pkg.
func (l layout) file(pkg, name string) string {
	return path.Join(l.dir(pkg), name+".ts")
}

// relModule returns the module specifier of file as seen from dir.
func relModule(dir, file string) string {
	from := splitPath(dir)
	to := splitPath(strings.TrimSuffix(file, ".ts"))
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var parts []string
	for range from[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	rel := strings.Join(parts, "/")
	if !strings.HasPrefix(rel, "..") {
		rel = "./" + rel
	}
	return rel
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(path.Clean(p), "/") {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}
