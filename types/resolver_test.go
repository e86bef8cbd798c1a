package types

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markkovari/rmf-codegen/internal/testutil"
	"github.com/markkovari/rmf-codegen/model"
)

func newTestResolver(custom map[string]Descriptor) *Resolver {
	return NewResolver(NewPackageResolver(testPackages), BaseTypes{}, custom, NewCache())
}

func TestResolvePetstore(t *testing.T) {
	api := testutil.LoadPetstore(t)
	r := newTestResolver(nil)
	base := DefaultBaseTypes()

	tests := []struct {
		typeName string
		want     Descriptor
	}{
		{"Animal", Object{"io/pet/models/pets", "Animal"}},
		{"Pet", Object{"io/pet/models/pets", "Pet"}},
		{"Dog", Object{"io/pet/models/pets", "Dog"}},
		{"Status", Enum{"io/pet/models", "Status"}},
		{"Email", base.String},
		{"PetName", base.String},
		{"PetOrError", Object{"io/pet/models", "PetOrError"}},
		{"Pets", Array{Object{"io/pet/models/pets", "Pet"}}},
		{"Money", Object{"io/pet/models/common", "Money"}},
		{"Timestamp", DateTime{"io/pet/models/common", "Timestamp", DateKindDateTime}},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(testutil.TypeNamed(t, api, tt.typeName)))
		})
	}

	t.Run("properties", func(t *testing.T) {
		pet := testutil.TypeNamed(t, api, "Pet")
		prop := func(name string) Descriptor {
			p, ok := pet.Property(name)
			require.True(t, ok, name)
			return r.Resolve(p.Type)
		}
		assert.Equal(t, base.Integer, prop("id"))
		assert.Equal(t, Array{base.String}, prop("tags"))
		assert.Equal(t, base.DateOnly, prop("born"))
		assert.Equal(t, Enum{"io/pet/models", "Status"}, prop("status"))
	})

	t.Run("resources methods and roots", func(t *testing.T) {
		pets := testutil.ResourceAt(t, api, "/pets")
		byID := testutil.ResourceAt(t, api, "/pets/{id}")
		store := testutil.ResourceAt(t, api, "/stores/{storeId}")

		assert.Equal(t, Object{"io/pet/client", "PetsRequestBuilder"}, r.Resolve(pets))
		assert.Equal(t, Object{"io/pet/client", "PetsRequestBuilder"}, r.Resolve(byID), "resourceName annotation")
		assert.Equal(t, Object{"io/pet/client", "StoresByStoreIdRequestBuilder"}, r.Resolve(store))
		assert.Equal(t, Object{"io/pet/client", "PetsByIdGet"}, r.Resolve(byID.Methods[0]))
		assert.Equal(t, Object{"io/pet", "ApiRoot"}, r.Resolve(api))
		assert.Equal(t, Object{"io/pet", "Secured"}, r.Resolve(api.Traits[0]))
		assert.Equal(t, Library{"io/pet", "Common"}, r.Resolve(api.Libraries()[0]))
	})

	assert.Equal(t, Nil{}, r.Resolve(nil))
}

func TestResolveScalarsAndComposites(t *testing.T) {
	src := `
types:
  Count: integer
  Big:
    type: integer
    format: int64
  Ratio: number
  Small:
    type: number
    format: int32
  Flag: boolean
  Blob: file
  Nothing: nil
  Anything: any
  Matrix: integer[][]
  Loose:
    type: array
  Maybe: string | nil
  Either: string | integer
  Day: date-only
  Clock: time-only
  Holder:
    properties:
      maybe: Count | nil
      either: Count | Flag
      grid: (string | nil)[]
      sub:
        type: Holder
        properties:
          extra: string
      free:
        properties:
          x: string
`
	api := testutil.LoadAPI(t, src, nil)
	r := newTestResolver(nil)
	base := DefaultBaseTypes()
	res := func(name string) Descriptor { return r.Resolve(testutil.TypeNamed(t, api, name)) }

	assert.Equal(t, base.Integer, res("Count"))
	assert.Equal(t, base.Long, res("Big"))
	assert.Equal(t, base.Double, res("Ratio"))
	assert.Equal(t, base.Integer, res("Small"))
	assert.Equal(t, base.Boolean, res("Flag"))
	assert.Equal(t, base.File, res("Blob"))
	assert.Equal(t, Nil{}, res("Nothing"))
	assert.Equal(t, base.Any, res("Anything"))
	assert.Equal(t, Array{Array{base.Integer}}, res("Matrix"))
	assert.Equal(t, Array{base.Object}, res("Loose"))
	assert.Equal(t, Object{"io/pet/models", "Maybe"}, res("Maybe"), "named unions are objects")
	assert.Equal(t, DateTime{"io/pet/models", "Day", DateKindDate}, res("Day"))
	assert.Equal(t, DateTime{"io/pet/models", "Clock", DateKindTime}, res("Clock"))

	holder := testutil.TypeNamed(t, api, "Holder")
	prop := func(name string) Descriptor {
		p, ok := holder.Property(name)
		require.True(t, ok, name)
		return r.Resolve(p.Type)
	}
	assert.Equal(t, base.Integer, prop("maybe"), "single non-nil member")
	assert.Equal(t, base.Object, prop("either"), "several members")
	assert.Equal(t, Array{base.String}, prop("grid"))
	assert.Equal(t, Object{"io/pet/models", "Holder"}, prop("sub"), "inline object takes its declared supertype")
	assert.Equal(t, base.Object, prop("free"))
}

func TestResolveSelfReferentialArray(t *testing.T) {
	api := testutil.LoadAPI(t, "types:\n  Tree: (Tree | nil)[]\n", nil)
	r := newTestResolver(nil)
	d := r.Resolve(testutil.TypeNamed(t, api, "Tree"))
	assert.NotNil(t, d, "resolution terminates")
}

func TestResolveCustomTypes(t *testing.T) {
	api := testutil.LoadPetstore(t)
	custom := map[string]Descriptor{
		"Money":              Object{"com/acme/money", "MonetaryAmount"},
		"PetsRequestBuilder": Scalar{"string", "string"},
	}
	r := newTestResolver(custom)

	assert.True(t, r.IsCustom("Money"))
	assert.False(t, r.IsCustom("Pet"))
	assert.Equal(t, Object{"com/acme/money", "MonetaryAmount"}, r.Resolve(testutil.TypeNamed(t, api, "Money")))
	assert.Equal(t, Scalar{"string", "string"}, r.Resolve(testutil.ResourceAt(t, api, "/pets")))

	custom["Pet"] = Any{"changed"}
	assert.Equal(t, Object{"io/pet/models/pets", "Pet"}, r.Resolve(testutil.TypeNamed(t, api, "Pet")), "table is copied")
}

func TestResolveCustomBaseTypes(t *testing.T) {
	api := testutil.LoadPetstore(t)
	r := NewResolver(NewPackageResolver(testPackages), BaseTypes{String: Scalar{"String", "java.lang.String"}}, nil, nil)
	assert.Equal(t, Scalar{"String", "java.lang.String"}, r.Resolve(testutil.TypeNamed(t, api, "PetName")))
	assert.Equal(t, DefaultBaseTypes().Boolean, r.base.Boolean)
	assert.NotNil(t, r.Cache())
}

func TestResolveIsIdempotent(t *testing.T) {
	api := testutil.LoadPetstore(t)
	r := newTestResolver(nil)

	var nodes []model.Node
	for _, ty := range api.Types {
		nodes = append(nodes, ty)
	}
	model.Walk(api.Resources, func(res *model.Resource) {
		nodes = append(nodes, res)
		for _, m := range res.Methods {
			nodes = append(nodes, m)
		}
	})

	for _, n := range nodes {
		first := r.Resolve(n)
		assert.Equal(t, first, r.Resolve(n), n.ID())
		assert.True(t, first == r.Resolve(n), n.ID())
	}

	fresh := newTestResolver(nil)
	for _, n := range nodes {
		assert.Equal(t, r.Resolve(n), fresh.Resolve(n), "independent runs agree for %s", n.ID())
	}
}

func TestResolveSameTypeThroughTwoAliases(t *testing.T) {
	src := `
uses:
  a: common.yaml
  b: common.yaml
types:
  Order:
    properties:
      viaA: a.Money
      viaB: b.Money
      listA: a.Money[]
      listB: b.Money[]
`
	api := testutil.LoadAPI(t, src, map[string]string{"common.yaml": testutil.CommonLibrary})
	r := newTestResolver(nil)
	order := testutil.TypeNamed(t, api, "Order")

	d := func(i int) Descriptor { return r.Resolve(order.Properties[i].Type) }
	assert.Equal(t, d(0), d(1))
	assert.Equal(t, d(2), d(3))
	assert.Equal(t, Array{d(0)}, d(2))
}

func TestCacheComputesOncePerNode(t *testing.T) {
	api := testutil.LoadPetstore(t)
	cache := NewCache()
	r := NewResolver(NewPackageResolver(testPackages), BaseTypes{}, nil, cache)
	pet := testutil.TypeNamed(t, api, "Pet")

	const workers = 64
	results := make([]Descriptor, workers)
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = r.Resolve(pet)
		}()
	}
	close(start)
	wg.Wait()

	for _, d := range results {
		assert.Equal(t, results[0], d)
	}
	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Computed)
	assert.Equal(t, int64(workers-1), stats.Hits)
}

func TestCacheIsPerRun(t *testing.T) {
	api := testutil.LoadPetstore(t)
	pet := testutil.TypeNamed(t, api, "Pet")

	c1, c2 := NewCache(), NewCache()
	NewResolver(NewPackageResolver(testPackages), BaseTypes{}, nil, c1).Resolve(pet)
	assert.Equal(t, 1, c1.Stats().Entries)
	assert.Equal(t, 0, c2.Stats().Entries)
}
