package types

import (
	"strings"

	"github.com/markkovari/rmf-codegen/internal/naming"
	"github.com/markkovari/rmf-codegen/model"
)

// RequestBuilderSuffix is appended to resource stems.
const RequestBuilderSuffix = "RequestBuilder"

// URIStem derives a class name stem from the full URI of r. Literal
// segments are PascalCased and template parameters become "By<Param>":
// /{projectKey}/customers/email-token/{emailToken} yields
// ByProjectKeyCustomersEmailTokenByEmailToken.
func URIStem(r *model.Resource) string {
	var b strings.Builder
	for _, seg := range r.Segments() {
		writeSegment(&b, seg)
	}
	return b.String()
}

// writeSegment handles mixed segments such as "key={key}".
func writeSegment(b *strings.Builder, seg string) {
	for seg != "" {
		open := strings.IndexByte(seg, '{')
		if open < 0 {
			b.WriteString(naming.ToPascalCase(strings.Trim(seg, "=")))
			return
		}
		if open > 0 {
			b.WriteString(naming.ToPascalCase(strings.Trim(seg[:open], "=")))
		}
		end := strings.IndexByte(seg[open:], '}')
		if end < 0 {
			b.WriteString(naming.ToPascalCase(seg[open+1:]))
			return
		}
		b.WriteString("By")
		b.WriteString(naming.ToPascalCase(seg[open+1 : open+end]))
		seg = seg[open+end+1:]
	}
}

// ResourceStem returns the resourceName annotation value of r when present,
// otherwise its URI stem.
func ResourceStem(r *model.Resource) string {
	if a, ok := r.Annotation(model.AnnotationResourceName); ok {
		if v, ok := a.String(); ok && v != "" {
			return naming.ToPascalCase(v)
		}
	}
	return URIStem(r)
}

// ResourceName returns the canonical request builder name of r.
func ResourceName(r *model.Resource) string {
	stem := ResourceStem(r)
	if stem == "" {
		stem = "Root"
	}
	return stem + RequestBuilderSuffix
}

// MethodName returns the request class name of m: the URI stem of its
// resource followed by the HTTP method, e.g. PetsByIdGet.
func MethodName(m *model.Method) string {
	return URIStem(m.Resource()) + naming.ToPascalCase(m.Method)
}

func pascal(s string) string { return naming.ToPascalCase(s) }
