// Package types maps API model nodes onto canonical, language-neutral type
// descriptors and output packages.
//
// Import path: github.com/markkovari/rmf-codegen/types
//
// A [Descriptor] is one of a closed set of comparable value types: [Object],
// [Enum], [Scalar], [Array], [Nil], [Any], [DateTime] and [Library]. Two
// descriptors are equal exactly when == reports them equal.
//
// [PackageResolver] places nodes into the configured base, model, client and
// shared packages. Types inherit a package annotation from their supertypes
// and from their enclosing library.
//
// [Resolver] turns nodes into descriptors. Each generation run owns one
// [Cache]; concurrent first resolutions of the same node compute once.
//
//	packages := types.NewPackageResolver(types.Packages{Base: "io/vrap", Model: "io/vrap/models", Client: "io/vrap/client"})
//	resolver := types.NewResolver(packages, types.DefaultBaseTypes(), nil, types.NewCache())
//	d := resolver.Resolve(petType) // types.Object{Package: "io/vrap/models/pets", Name: "Pet"}
package types
