package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markkovari/rmf-codegen/cgerrors"
	"github.com/markkovari/rmf-codegen/internal/testutil"
	"github.com/markkovari/rmf-codegen/model"
	"github.com/markkovari/rmf-codegen/types"
)

func petstoreResolver(custom map[string]types.Descriptor) *types.Resolver {
	pr := types.NewPackageResolver(types.Packages{Base: "b", Model: "b/models", Client: "b/client", Shared: "b/shared"})
	return types.NewResolver(pr, types.BaseTypes{}, custom, types.NewCache())
}

func TestGroupPetstore(t *testing.T) {
	api := testutil.LoadPetstore(t)
	s := New(api, nil)

	collections, err := Group(petstoreResolver(nil), s.Resources())
	require.NoError(t, err)
	require.Len(t, collections, 3)

	pets := collections[0]
	assert.Equal(t, types.Object{Package: "b/client", Name: "PetsRequestBuilder"}, pets.Type)
	require.Len(t, pets.Resources, 2)
	assert.Same(t, testutil.ResourceAt(t, api, "/pets"), pets.Sample())
	assert.Same(t, testutil.ResourceAt(t, api, "/pets/{id}"), pets.Resources[1])
	assert.Equal(t, "collection:PetsRequestBuilder", pets.ID())

	assert.Equal(t, "StoresRequestBuilder", collections[1].Type.Name)
	assert.Equal(t, "StoresByStoreIdRequestBuilder", collections[2].Type.Name)
}

func TestGroupPreservesEveryResource(t *testing.T) {
	api := testutil.LoadPetstore(t)
	all := New(api, nil).Resources()
	r := petstoreResolver(nil)

	inputs := [][]*model.Resource{
		all,
		{all[1], all[0]},
		{all[3]},
		{all[2], all[1], all[3], all[0]},
	}
	for _, in := range inputs {
		collections, err := Group(r, in)
		require.NoError(t, err)

		seen := make(map[*model.Resource]int)
		for _, c := range collections {
			assert.NotEmpty(t, c.Resources)
			for _, res := range c.Resources {
				seen[res]++
				assert.Equal(t, c.Type, r.Resolve(res))
			}
		}
		assert.Len(t, seen, len(in))
		for _, res := range in {
			assert.Equal(t, 1, seen[res], res.ID())
		}
	}

	reversed, err := Group(r, []*model.Resource{all[1], all[0]})
	require.NoError(t, err)
	assert.Same(t, all[1], reversed[0].Sample(), "sample follows input order")
}

func TestGroupEmptyInput(t *testing.T) {
	collections, err := Group(petstoreResolver(nil), nil)
	require.NoError(t, err)
	assert.Empty(t, collections)
}

func TestGroupTypeMismatch(t *testing.T) {
	api := testutil.LoadPetstore(t)
	r := petstoreResolver(map[string]types.Descriptor{
		"StoresRequestBuilder": types.Scalar{Name: "string", Primitive: "string"},
	})
	_, err := Group(r, New(api, nil).Resources())
	require.Error(t, err)
	assert.ErrorIs(t, err, cgerrors.ErrTypeMismatch)
	var tm *cgerrors.TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "resource:/stores", tm.Node)
}

func TestNewResourceCollection(t *testing.T) {
	t.Run("empty fails", func(t *testing.T) {
		_, err := NewResourceCollection(types.Object{Name: "X"}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, cgerrors.ErrInvariant)
	})

	t.Run("copies input", func(t *testing.T) {
		api := testutil.LoadPetstore(t)
		in := []*model.Resource{api.Resources[0]}
		c, err := NewResourceCollection(types.Object{Name: "X"}, in)
		require.NoError(t, err)
		in[0] = nil
		assert.NotNil(t, c.Sample())
	})
}
