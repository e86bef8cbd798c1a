package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markkovari/rmf-codegen/model"
)

func TestLoadPetstore(t *testing.T) {
	api := LoadPetstore(t)
	assert.Equal(t, "Petstore", api.Title)
	assert.Len(t, api.Types, 11)
	require.Len(t, api.Libraries(), 1)
	assert.Equal(t, model.TypeUnion, TypeNamed(t, api, "PetOrError").TypeKind)
	assert.Equal(t, "common", TypeNamed(t, api, "Money").Parent().(*model.Library).Name)
	assert.Len(t, ResourceAt(t, api, "/pets/{id}").Methods, 2)
}

func TestWritePetstore(t *testing.T) {
	path := WritePetstore(t)
	api, err := model.LoadWithOptions(model.WithFilePath(path))
	require.NoError(t, err)
	assert.Equal(t, path, api.Source)
	assert.Len(t, api.Resources, 2)
}
