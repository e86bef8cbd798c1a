// Package model provides the parsed API graph that code generation runs over.
//
// Import path: github.com/markkovari/rmf-codegen/model
//
// An API description is a YAML document with a title, an optional baseUri,
// annotations, library imports (uses), declared types, traits and a tree of
// resources keyed by their relative URI:
//
//	title: Petstore
//	baseUri: https://api.example.com/v1
//	uses:
//	  common: common.yaml
//	types:
//	  Pet:
//	    type: object
//	    (package): pets
//	    properties:
//	      id: string
//	      tags?: string[]
//	      price: common.Money
//	/pets:
//	  get:
//	    response: Pet[]
//	  /{id}:
//	    get:
//	      response: Pet
//
// Annotations are written either in an "annotations" mapping or as
// parenthesized keys, e.g. (package): pets.
//
// Load a description with [LoadWithOptions]:
//
//	api, err := model.LoadWithOptions(model.WithFilePath("api.yaml"))
//
// Every node implements [Node]. Node identity is pointer identity: a declared
// type reached through different library aliases is the same *Type.
// The graph is read-only once loaded and safe for concurrent readers.
package model
