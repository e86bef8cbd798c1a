package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/plugins/golang"
	"github.com/markkovari/rmf-codegen/plugins/typescript"
)

func TestDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{golang.Name, typescript.Name}, r.Names())

	ps, err := r.Build("typescript")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, typescript.Name, ps[0].Name)

	_, err = r.Build("java")
	require.ErrorIs(t, err, cgerrors.ErrConfig)
	assert.Contains(t, err.Error(), "available: go, typescript")
}

func TestNewRegistryIsolated(t *testing.T) {
	a := NewRegistry(Options{GoModule: "example.com/a"})
	b := Default()
	pa, _ := a.Lookup(golang.Name)
	pb, _ := b.Lookup(golang.Name)
	assert.NotSame(t, pa, pb)
}
