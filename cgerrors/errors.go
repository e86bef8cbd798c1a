package cgerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrModel indicates the API description could not be loaded.
	ErrModel = errors.New("model error")

	// ErrReference indicates an unresolvable or cyclic reference in the model.
	ErrReference = errors.New("reference error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrInvariant indicates a violated construction-time invariant.
	ErrInvariant = errors.New("invariant violation")

	// ErrTypeMismatch indicates a node resolved to an unexpected descriptor variant.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrProducer indicates a render plugin producer failed.
	ErrProducer = errors.New("producer failure")

	// ErrPathCollision indicates two generated files share a relative path.
	ErrPathCollision = errors.New("path collision")

	// ErrState indicates an orchestrator operation in the wrong state.
	ErrState = errors.New("invalid state")
)

// ModelError represents a failure to read or decode an API description.
type ModelError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ModelError) Error() string {
	msg := "model error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ModelError) Is(target error) bool {
	return target == ErrModel
}

// ReferenceError represents a reference inside the model that could not be resolved.
type ReferenceError struct {
	// Ref is the reference as written in the description (e.g., "common.Money")
	Ref string
	// From identifies the node holding the reference
	From string
	// IsCycle is true if the reference closes a supertype or library cycle
	IsCycle bool
	// IsPathTraversal is true if a library file escapes the description directory
	IsPathTraversal bool
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	switch {
	case e.IsCycle:
		msg = "cyclic reference"
	case e.IsPathTraversal:
		msg = "path traversal blocked"
	}
	if e.Ref != "" {
		msg += fmt.Sprintf(" %q", e.Ref)
	}
	if e.From != "" {
		msg += " in " + e.From
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// InvariantError reports a violated construction-time invariant.
type InvariantError struct {
	// Invariant names the broken rule (e.g., "resource collection is non-empty")
	Invariant string
	// Subject identifies what was being constructed
	Subject string
}

// Error returns a human-readable error message.
func (e *InvariantError) Error() string {
	msg := "invariant violation"
	if e.Subject != "" {
		msg += " constructing " + e.Subject
	}
	if e.Invariant != "" {
		msg += ": " + e.Invariant
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// TypeMismatchError reports a node whose resolved descriptor is not the expected variant.
type TypeMismatchError struct {
	// Node identifies the model node
	Node string
	// Expected is the expected descriptor variant (e.g., "object")
	Expected string
	// Actual is the descriptor that was resolved
	Actual string
}

// Error returns a human-readable error message.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for %s: expected %s descriptor, resolved %s", e.Node, e.Expected, e.Actual)
}

// Is reports whether target matches this error type.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ProducerError reports a render plugin producer failure.
type ProducerError struct {
	// Plugin is the name of the plugin owning the producer
	Plugin string
	// Producer is the name of the failing producer
	Producer string
	// Node identifies the model node being rendered
	Node string
	// Cause is the producer's error
	Cause error
}

// Error returns a human-readable error message.
func (e *ProducerError) Error() string {
	msg := fmt.Sprintf("producer %s/%s failed", e.Plugin, e.Producer)
	if e.Node != "" {
		msg += " for " + e.Node
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ProducerError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ProducerError) Is(target error) bool {
	return target == ErrProducer
}

// Collision describes one relative path emitted more than once.
type Collision struct {
	// Path is the shared relative path
	Path string
	// Producers lists every contributing producer as "plugin/producer(node)"
	Producers []string
}

// CollisionError reports every path collision found in a run.
type CollisionError struct {
	Collisions []Collision
}

// Error returns a human-readable error message.
func (e *CollisionError) Error() string {
	if len(e.Collisions) == 0 {
		return "path collision"
	}
	parts := make([]string, 0, len(e.Collisions))
	for _, c := range e.Collisions {
		parts = append(parts, fmt.Sprintf("%s (%s)", c.Path, strings.Join(c.Producers, ", ")))
	}
	noun := "collision"
	if len(e.Collisions) > 1 {
		noun = "collisions"
	}
	return fmt.Sprintf("%d path %s: %s", len(e.Collisions), noun, strings.Join(parts, "; "))
}

// Is reports whether target matches this error type.
func (e *CollisionError) Is(target error) bool {
	return target == ErrPathCollision
}

// StateError reports an orchestrator operation attempted in the wrong state.
type StateError struct {
	// Operation is the attempted operation
	Operation string
	// State is the state the orchestrator was in
	State string
}

// Error returns a human-readable error message.
func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: orchestrator is %s", e.Operation, e.State)
}

// Is reports whether target matches this error type.
func (e *StateError) Is(target error) bool {
	return target == ErrState
}
