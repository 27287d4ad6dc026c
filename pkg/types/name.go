// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
var ErrInvalidName = errors.New("invalid name")

type (
	// SourceName identifies a declared package source within a denvfile.
	// A valid name is non-empty, contains no whitespace, and contains no
	// ':' (reserved as the source/package separator in dependency refs).
	SourceName string

	// PackageName identifies a package inside a resolved source snapshot.
	// Same syntactic rules as SourceName.
	PackageName string

	// OutputName identifies a named output (shell) within a denvfile.
	// Same syntactic rules as SourceName.
	OutputName string

	// InvalidNameError is returned when a name value violates the
	// syntactic rules for its kind.
	InvalidNameError struct {
		Kind  string // "source", "package", or "output"
		Value string
	}
)

// String returns the string representation of the SourceName.
func (n SourceName) String() string { return string(n) }

// IsValid returns whether the SourceName is valid.
func (n SourceName) IsValid() (bool, []error) { return nameValid("source", string(n)) }

// String returns the string representation of the PackageName.
func (n PackageName) String() string { return string(n) }

// IsValid returns whether the PackageName is valid.
func (n PackageName) IsValid() (bool, []error) { return nameValid("package", string(n)) }

// String returns the string representation of the OutputName.
func (n OutputName) String() string { return string(n) }

// IsValid returns whether the OutputName is valid.
func (n OutputName) IsValid() (bool, []error) { return nameValid("output", string(n)) }

func nameValid(kind, value string) (bool, []error) {
	if value == "" || strings.ContainsAny(value, ": \t\n") {
		return false, []error{&InvalidNameError{Kind: kind, Value: value}}
	}
	return true, nil
}

// Error implements the error interface for InvalidNameError.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid %s name %q: must be non-empty and contain no whitespace or ':'", e.Kind, e.Value)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }
