// Package cgerrors provides structured error types for rmf-codegen.
//
// Import path: github.com/markkovari/rmf-codegen/cgerrors
//
// The types enable programmatic error handling via [errors.Is] and [errors.As]
// so callers can tell an invalid model apart from a failed producer or an
// output path collision.
//
// # Error Types
//
//   - [ModelError]: the API description could not be read or is malformed
//   - [ReferenceError]: an unknown type, trait or library reference, a supertype
//     cycle, or a library path escaping the description directory
//   - [ConfigError]: invalid run configuration or options
//   - [InvariantError]: a construction-time invariant was violated (empty resource collection)
//   - [TypeMismatchError]: a node resolved to an unexpected descriptor variant
//   - [ProducerError]: a render plugin producer failed; aborts the run
//   - [CollisionError]: two or more producers emitted the same relative path
//   - [StateError]: an orchestrator was driven from the wrong state
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//	if errors.Is(err, cgerrors.ErrPathCollision) {
//	    var ce *cgerrors.CollisionError
//	    errors.As(err, &ce)
//	    for _, c := range ce.Collisions {
//	        fmt.Println(c.Path, c.Producers)
//	    }
//	}
//
// # Error Chaining
//
// Types with a Cause field support chaining through Unwrap(), so a producer's
// own error stays reachable from the ProducerError that reports it.
package cgerrors
