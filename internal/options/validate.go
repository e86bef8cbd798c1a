// Package options provides shared utilities for option validation across packages.
package options

import (
	"github.com/markkovari/rmf-codegen/cgerrors"
)

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// The returned error is a *cgerrors.ConfigError for option.
func ValidateSingleInputSource(option, noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return &cgerrors.ConfigError{Option: option, Message: noSourceMsg}
	case count > 1:
		return &cgerrors.ConfigError{Option: option, Message: multiSourceMsg}
	}
	return nil
}

// ValidateNonNegative rejects negative numeric option values.
func ValidateNonNegative(option string, value int) error {
	if value < 0 {
		return &cgerrors.ConfigError{Option: option, Value: value, Message: "must not be negative"}
	}
	return nil
}
