// Package render holds the template plumbing shared by the reference
// render plugins: template parsing with the shared function map, pooled
// execution buffers and Go source formatting.
package render

import (
	"io/fs"
	"path"
	"strconv"
	"strings"
	"text/template"

	cerrors "github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"

	rmfcodegen "github.com/markkovari/rmf-codegen"
	"github.com/markkovari/rmf-codegen/internal/naming"
)

// Funcs returns the function map available to every plugin template.
func Funcs() template.FuncMap {
	funcs := naming.TemplateFuncs()
	funcs["quote"] = strconv.Quote
	funcs["hasPrefix"] = strings.HasPrefix
	funcs["hasSuffix"] = strings.HasSuffix
	funcs["generatedBy"] = rmfcodegen.GeneratedBy
	funcs["comment"] = Comment
	return funcs
}

// MustParse parses the templates matching patterns in fsys and panics on
// error. Plugins call it from package initialization with embedded files.
func MustParse(fsys fs.FS, patterns ...string) *template.Template {
	t, err := template.New("").Funcs(Funcs()).ParseFS(fsys, patterns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Execute renders the named template. members sizes the pooled buffer.
// The returned bytes are owned by the caller.
func Execute(t *template.Template, name string, data any, members int) ([]byte, error) {
	buf := getBuffer(members)
	defer putBuffer(buf, members)

	if err := t.ExecuteTemplate(buf, name, data); err != nil {
		return nil, cerrors.Wrapf(err, "executing template %s", name)
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// FormatGo formats Go source and fixes its imports. Source that does not
// parse is an error, so broken templates fail the run instead of
// producing uncompilable output.
func FormatGo(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, nil)
	if err != nil {
		return nil, cerrors.Wrapf(err, "formatting %s", filename)
	}
	return out, nil
}

// Comment turns text into a line comment block using prefix ("// " for Go
// and TypeScript). Empty text yields an empty string.
func Comment(prefix, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(prefix+strings.TrimSpace(l), " ")
	}
	return strings.Join(lines, "\n") + "\n"
}

// FilePath joins a slash-separated package path and a file name.
func FilePath(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return path.Join(pkg, name)
}
