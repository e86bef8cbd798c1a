package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markkovari/rmf-codegen/internal/severity"
	"github.com/markkovari/rmf-codegen/internal/testutil"
)

func TestDerivePackages(t *testing.T) {
	tests := []struct {
		name     string
		in       Packages
		baseURI  string
		want     Packages
		warnings int
	}{
		{
			name:    "configured base",
			in:      Packages{Base: "com/acme"},
			baseURI: "https://ignored.example.com",
			want:    Packages{Base: "com/acme", Model: "com/acme/models", Client: "com/acme/client", Shared: "com/acme/shared"},
		},
		{
			name:    "reversed host",
			baseURI: "https://api.example.com/v1",
			want:    Packages{Base: "com/example/api", Model: "com/example/api/models", Client: "com/example/api/client", Shared: "com/example/api/shared"},
		},
		{
			name:    "templated host and port",
			baseURI: "https://api.{region}.example.com:8443/{version}",
			want:    Packages{Base: "com/example/api", Model: "com/example/api/models", Client: "com/example/api/client", Shared: "com/example/api/shared"},
		},
		{
			name:     "no base uri",
			want:     Packages{Base: DefaultBasePackage, Model: DefaultBasePackage + "/models", Client: DefaultBasePackage + "/client", Shared: DefaultBasePackage + "/shared"},
			warnings: 1,
		},
		{
			name:     "host-less base uri",
			baseURI:  "/relative/only",
			want:     Packages{Base: DefaultBasePackage, Model: DefaultBasePackage + "/models", Client: DefaultBasePackage + "/client", Shared: DefaultBasePackage + "/shared"},
			warnings: 1,
		},
		{
			name:    "explicit sub-packages kept",
			in:      Packages{Base: "b", Model: "m", Client: "c", Shared: "s"},
			want:    Packages{Base: "b", Model: "m", Client: "c", Shared: "s"},
			baseURI: "",
		},
		{
			name: "blank base gives bare names",
			in:   Packages{Base: " "},
			want: Packages{Base: " ", Model: "models", Client: "client", Shared: "shared"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := DerivePackages(tt.in, tt.baseURI)
			assert.Equal(t, tt.want, got)
			require.Len(t, warnings, tt.warnings)
			for _, w := range warnings {
				assert.Equal(t, severity.SeverityWarning, w.Severity)
			}
		})
	}
}

var testPackages = Packages{Base: "io/pet", Model: "io/pet/models", Client: "io/pet/client", Shared: "io/pet/shared"}

func TestPackageResolver(t *testing.T) {
	api := testutil.LoadPetstore(t)
	pr := NewPackageResolver(testPackages)

	t.Run("subtypes inherit the supertype annotation", func(t *testing.T) {
		animal := pr.Resolve(testutil.TypeNamed(t, api, "Animal"))
		assert.Equal(t, "io/pet/models/pets", animal)
		assert.Equal(t, animal, pr.Resolve(testutil.TypeNamed(t, api, "Pet")))
		assert.Equal(t, animal, pr.Resolve(testutil.TypeNamed(t, api, "Dog")))
	})

	t.Run("library annotation applies to its types", func(t *testing.T) {
		assert.Equal(t, "io/pet/models/common", pr.Resolve(testutil.TypeNamed(t, api, "Money")))
	})

	t.Run("unannotated types use the model package", func(t *testing.T) {
		assert.Equal(t, "io/pet/models", pr.Resolve(testutil.TypeNamed(t, api, "Status")))
	})

	t.Run("resources and methods use the client package", func(t *testing.T) {
		r := testutil.ResourceAt(t, api, "/pets/{id}")
		assert.Equal(t, "io/pet/client", pr.Resolve(r))
		assert.Equal(t, "io/pet/client", pr.Resolve(r.Methods[0]))
	})

	t.Run("other nodes use the base package", func(t *testing.T) {
		assert.Equal(t, "io/pet", pr.Resolve(api))
		assert.Equal(t, "io/pet", pr.Resolve(api.Traits[0]))
		assert.Equal(t, "io/pet", pr.Resolve(api.Libraries()[0]))
	})

	assert.Equal(t, testPackages, pr.Packages())
}

func TestPackageResolverAnnotationRules(t *testing.T) {
	src := `
(package): root
uses:
  lib:
    types:
      Inner:
        properties:
          a: string
types:
  Bare:
    (package):
    properties:
      a: string
  Near:
    type: Far
    (package): near
  Far:
    (package): far
    properties:
      a: string
  Owner:
    properties:
      inline:
        properties:
          b: string
`
	api := testutil.LoadAPI(t, src, nil)
	pr := NewPackageResolver(testPackages)

	assert.Equal(t, "io/pet/models", pr.Resolve(testutil.TypeNamed(t, api, "Bare")), "annotation without value")
	assert.Equal(t, "io/pet/models/near", pr.Resolve(testutil.TypeNamed(t, api, "Near")), "closest annotation wins")
	assert.Equal(t, "io/pet/models/root", pr.Resolve(testutil.TypeNamed(t, api, "Owner")), "API annotation as ancestor")
	assert.Equal(t, "io/pet/models", pr.Resolve(testutil.TypeNamed(t, api, "Inner")), "inline library without annotation")

	owner := testutil.TypeNamed(t, api, "Owner")
	p, ok := owner.Property("inline")
	require.True(t, ok)
	assert.Equal(t, "io/pet/models/root", pr.Resolve(p.Type))
}

func TestPackageResolverSubtypeWithoutAnnotation(t *testing.T) {
	// a type annotated package=foo and a subtype without its own annotation
	// resolve to the same package
	for _, name := range []string{"a", "foo", "deeply/nested"} {
		src := "types:\n  T:\n    (package): " + name + "\n    properties:\n      x: string\n  S: T\n  U: S\n"
		api := testutil.LoadAPI(t, src, nil)
		pr := NewPackageResolver(testPackages)
		want := testPackages.Model + "/" + name
		for _, tn := range []string{"T", "S", "U"} {
			assert.Equal(t, want, pr.Resolve(testutil.TypeNamed(t, api, tn)), tn)
		}
	}
}
