// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
)

// ErrResolution is the sentinel error all registry failures wrap. The CLI
// maps it to its own exit code.
var ErrResolution = errors.New("source resolution failed")

type (
	// UnknownSourceError is returned when resolving a name that was never
	// declared.
	UnknownSourceError struct {
		Name string
	}

	// LocatorUnreachableError is returned when the declared locator cannot
	// be fetched (network or filesystem failure).
	LocatorUnreachableError struct {
		Name    string
		Locator string
		Cause   error
	}

	// RevisionMismatchError is returned when the locator serves a revision
	// other than the one the denvfile pins.
	RevisionMismatchError struct {
		Name   string
		Pinned string
		Actual string
	}
)

// Error implements the error interface for UnknownSourceError.
func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source %q: never declared", e.Name)
}

// Unwrap returns ErrResolution for errors.Is() compatibility.
func (e *UnknownSourceError) Unwrap() error { return ErrResolution }

// Error implements the error interface for LocatorUnreachableError.
func (e *LocatorUnreachableError) Error() string {
	return fmt.Sprintf("source %q: locator %s unreachable: %v", e.Name, e.Locator, e.Cause)
}

// Unwrap returns both ErrResolution and the underlying cause so callers can
// match either with errors.Is.
func (e *LocatorUnreachableError) Unwrap() []error { return []error{ErrResolution, e.Cause} }

// Error implements the error interface for RevisionMismatchError.
func (e *RevisionMismatchError) Error() string {
	return fmt.Sprintf("source %q: pinned revision %q not found at locator (got %q)", e.Name, e.Pinned, e.Actual)
}

// Unwrap returns ErrResolution for errors.Is() compatibility.
func (e *RevisionMismatchError) Unwrap() error { return ErrResolution }
