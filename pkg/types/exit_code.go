// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Exit codes reported by the denv CLI. Each fatal error class maps to its
// own code so scripts can distinguish failures without parsing stderr.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess ExitCode = 0
	// ExitFailure is the generic failure code for errors outside the
	// resolution/compose/materialize taxonomy.
	ExitFailure ExitCode = 1
	// ExitResolution indicates a source resolution failure (unknown source,
	// unreachable locator, revision mismatch).
	ExitResolution ExitCode = 2
	// ExitCompose indicates a composition failure (missing overlay target,
	// dependency not found).
	ExitCompose ExitCode = 3
	// ExitMaterialize indicates the external engine failed to turn a
	// descriptor into a running session.
	ExitMaterialize ExitCode = 4
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
