// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/markkovari/rmf-codegen/model"
)

// CommonLibrary is a type library imported by Petstore under the alias "common".
const CommonLibrary = `
name: common
(package): common
traits:
  paged:
    description: Paged listing
types:
  Money:
    properties:
      amount: number
      currency: string
  Timestamp:
    type: datetime
`

// Petstore is an API description exercising every node and type kind.
//
// /pets and /pets/{id} share the canonical name PetsRequestBuilder through
// the resourceName annotation. Animal carries a package annotation that Pet
// and Dog inherit. LegacyPet and OldStatus are deprecated.
const Petstore = `
title: Petstore
baseUri: https://api.petstore.example.com/v1
uses:
  common: common.yaml
traits:
  secured:
    description: Requires a token
types:
  Animal:
    type: object
    (package): pets
    discriminator: kind
    properties:
      kind: string
      name: string
  Pet:
    type: Animal
    discriminatorValue: pet
    properties:
      id: integer
      status: Status
      tags?: string[]
      price?: common.Money
      born?: date-only
      updatedAt?: common.Timestamp
  Dog:
    type: Pet
    discriminatorValue: dog
    properties:
      breed: string
  LegacyPet:
    type: object
    (deprecated): true
    properties:
      id: string
  Status:
    type: string
    enum: [available, pending, sold]
  OldStatus:
    type: string
    (deprecated): true
    enum: [gone]
  Email:
    type: string
    pattern: ^.+@.+$
  PetName: string
  Error:
    properties:
      message: string
  PetOrError: Pet | Error
  Pets: Pet[]
/pets:
  get:
    is: [common.paged]
    response: Pets
  post:
    is: [secured]
    body: Pet
    response: Pet
  /{id}:
    (resourceName): Pets
    get:
      response: Pet
    delete:
/stores:
  /{storeId}:
    get:
      response: common.Money
`

// PetstoreFS returns the libraries Petstore imports.
func PetstoreFS() fstest.MapFS {
	return fstest.MapFS{
		"common.yaml": {Data: []byte(CommonLibrary)},
	}
}

// LoadPetstore loads the Petstore fixture.
func LoadPetstore(t testing.TB) *model.API {
	t.Helper()
	return LoadAPI(t, Petstore, map[string]string{"common.yaml": CommonLibrary})
}

// LoadAPI loads src with the given library files available to uses.
func LoadAPI(t testing.TB, src string, libs map[string]string) *model.API {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, data := range libs {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	api, err := model.LoadWithOptions(model.WithBytes([]byte(src)), model.WithFS(fsys))
	require.NoError(t, err)
	return api
}

// WritePetstore writes Petstore and its libraries into a temporary
// directory and returns the path of the description file.
func WritePetstore(t testing.TB) string {
	t.Helper()
	dir := WriteFiles(t, map[string]string{
		"api.yaml":    Petstore,
		"common.yaml": CommonLibrary,
	})
	return filepath.Join(dir, "api.yaml")
}

// WriteFiles writes files into a temporary directory and returns it.
func WriteFiles(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	}
	return dir
}

// TypeNamed returns the declared API type with the given name.
func TypeNamed(t testing.TB, api *model.API, name string) *model.Type {
	t.Helper()
	for _, ty := range api.Types {
		if ty.Name == name {
			return ty
		}
	}
	for _, lib := range api.Libraries() {
		for _, ty := range lib.Types {
			if ty.Name == name {
				return ty
			}
		}
	}
	require.Failf(t, "type not found", "no type %q", name)
	return nil
}

// ResourceAt returns the resource with the given full URI.
func ResourceAt(t testing.TB, api *model.API, uri string) *model.Resource {
	t.Helper()
	var found *model.Resource
	model.Walk(api.Resources, func(r *model.Resource) {
		if found == nil && r.FullURI() == uri {
			found = r
		}
	})
	require.NotNil(t, found, "no resource %q", uri)
	return found
}
