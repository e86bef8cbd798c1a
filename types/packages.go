package types

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/markkovari/rmf-codegen/internal/issues"
	"github.com/markkovari/rmf-codegen/model"
)

// DefaultBasePackage is used when neither configuration nor the API base
// URI yields a base package.
const DefaultBasePackage = "io/vrap/rmf"

// MaxWalkDepth bounds supertype and containment walks.
const MaxWalkDepth = 64

// Packages holds the output package paths of one run.
type Packages struct {
	Base   string
	Model  string
	Client string
	Shared string
}

var uriTemplateVar = regexp.MustCompile(`\{[^}]*\}`)

// DerivePackages fills the empty paths of p. An empty base package is
// derived from the reversed host of baseURI ("https://api.example.com/v1"
// becomes "com/example/api"); when that fails DefaultBasePackage is used
// and a warning is returned. Model, client and shared default to
// sub-packages of the base package.
func DerivePackages(p Packages, baseURI string) (Packages, []issues.Issue) {
	var warnings []issues.Issue
	if p.Base == "" {
		base, ok := packageFromURI(baseURI)
		if !ok {
			msg := "could not derive a base package from the API base URI, using " + DefaultBasePackage
			if baseURI == "" {
				msg = "no base package configured and the API has no base URI, using " + DefaultBasePackage
			}
			warnings = append(warnings, issues.Warning("basePackage", msg, baseURI))
			base = DefaultBasePackage
		}
		p.Base = base
	}
	if p.Model == "" {
		p.Model = subPackage(p.Base, "models")
	}
	if p.Client == "" {
		p.Client = subPackage(p.Base, "client")
	}
	if p.Shared == "" {
		p.Shared = subPackage(p.Base, "shared")
	}
	return p, warnings
}

func packageFromURI(baseURI string) (string, bool) {
	if strings.TrimSpace(baseURI) == "" {
		return "", false
	}
	u, err := url.Parse(uriTemplateVar.ReplaceAllString(baseURI, ""))
	if err != nil {
		return "", false
	}
	var labels []string
	for _, l := range strings.Split(u.Hostname(), ".") {
		if l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return "", false
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, "/"), true
}

func subPackage(base, name string) string {
	if strings.TrimSpace(base) == "" {
		return name
	}
	return base + "/" + name
}

// PackageResolver maps model nodes to output packages.
type PackageResolver struct {
	packages Packages
}

// NewPackageResolver creates a resolver over fixed package paths.
func NewPackageResolver(p Packages) *PackageResolver {
	return &PackageResolver{packages: p}
}

// Packages returns the configured package paths.
func (r *PackageResolver) Packages() Packages {
	return r.packages
}

// Resolve returns the output package for n. Resources and methods live in
// the client package. Types live in the model package, or in a sub-package
// named by the nearest package annotation found walking the supertype
// chain; at each step the type itself is checked before its containment
// ancestors. Every other node lives in the base package.
func (r *PackageResolver) Resolve(n model.Node) string {
	switch v := n.(type) {
	case *model.Resource, *model.Method:
		return r.packages.Client
	case *model.Type:
		return r.typePackage(v)
	default:
		return r.packages.Base
	}
}

func (r *PackageResolver) typePackage(t *model.Type) string {
	for _, step := range t.Supertypes(MaxWalkDepth) {
		if a, ok := step.Annotation(model.AnnotationPackage); ok {
			return r.modelPackage(a)
		}
		for _, anc := range model.Ancestors(step, MaxWalkDepth) {
			if a, ok := anc.Annotation(model.AnnotationPackage); ok {
				return r.modelPackage(a)
			}
		}
	}
	return r.packages.Model
}

func (r *PackageResolver) modelPackage(a *model.Annotation) string {
	v, ok := a.String()
	if !ok || v == "" {
		return r.packages.Model
	}
	return r.packages.Model + "/" + v
}
