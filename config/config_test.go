package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/types"
)

const sample = `
api = "api.yaml"
output = "sdk"
languages = ["go", "typescript"]
base_package = "com/example/petstore"
client_package = "com/example/petstore/sdk"
dry_run = true
concurrency = 4
go_module = "example.com/petstore"

[custom_types.Money]
kind = "object"
package = "com/example/money"
name = "Money"

[custom_types.Tags]
kind = "array"
item = { kind = "scalar", name = "string" }

[base_types.datetime]
kind = "scalar"
name = "Instant"
primitive = "datetime"
`

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, sample)

	c, err := Load(dir)
	require.NoError(t, err)

	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, c.Dir)
	assert.Equal(t, filepath.Join(abs, "api.yaml"), c.APIPath())
	assert.Equal(t, filepath.Join(abs, "sdk"), c.OutputDir())
	assert.Equal(t, []string{"go", "typescript"}, c.Languages)
	assert.True(t, c.DryRun)
	assert.Equal(t, 4, c.Concurrency)
	assert.Equal(t, "example.com/petstore", c.GoModule)
	assert.Equal(t, types.Packages{Base: "com/example/petstore", Client: "com/example/petstore/sdk"}, c.Packages())
}

func TestTables(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)

	custom, err := c.CustomTypeTable()
	require.NoError(t, err)
	assert.Equal(t, map[string]types.Descriptor{
		"Money": types.Object{Package: "com/example/money", Name: "Money"},
		"Tags":  types.Array{Item: types.Scalar{Name: "string"}},
	}, custom)

	base, err := c.BaseTypeTable()
	require.NoError(t, err)
	assert.Equal(t, types.Scalar{Name: "Instant", Primitive: "datetime"}, base.DateTime)
	assert.Nil(t, base.String, "unset slots stay nil")

	opts, err := c.GeneratorOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 6)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		option string
	}{
		{"negative concurrency", "concurrency = -1", "concurrency"},
		{"unknown key", "colour = \"red\"", "colour"},
		{"unknown slot", "[base_types.decimal]\nkind = \"scalar\"\nname = \"Decimal\"", "base_types.decimal"},
		{"missing kind", "[custom_types.X]\nname = \"X\"", "custom_types.X"},
		{"missing name", "[custom_types.X]\nkind = \"object\"", "custom_types.X"},
		{"bad sub kind", "[custom_types.X]\nkind = \"datetime\"\nname = \"X\"\nsub_kind = \"week\"", "custom_types.X"},
		{"array without item", "[custom_types.X]\nkind = \"array\"", "custom_types.X"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.ErrorIs(t, err, cgerrors.ErrConfig)
			var ce *cgerrors.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.option, ce.Option)
		})
	}

	_, err := Parse([]byte("api = "))
	assert.Error(t, err, "syntax errors surface from the decoder")
}

func TestDescriptorKinds(t *testing.T) {
	tests := []struct {
		spec DescriptorSpec
		want types.Descriptor
	}{
		{DescriptorSpec{Kind: "enum", Package: "p", Name: "E"}, types.Enum{Package: "p", Name: "E"}},
		{DescriptorSpec{Kind: "library", Package: "p", Name: "L"}, types.Library{Package: "p", Name: "L"}},
		{DescriptorSpec{Kind: "datetime", Package: "p", Name: "D", SubKind: "date-only"}, types.DateTime{Package: "p", Name: "D", SubKind: types.DateKindDate}},
		{DescriptorSpec{Kind: "any", Name: "unknown"}, types.Any{BaseName: "unknown"}},
		{DescriptorSpec{Kind: "nil"}, types.Nil{}},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Kind, func(t *testing.T) {
			got, err := tt.spec.Descriptor()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `api = "api.yaml"`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	c, err := FindAndLoad(nested)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "api.yaml", c.API)

	abs, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, abs, c.Dir)
}

func TestFindAndLoadNone(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
