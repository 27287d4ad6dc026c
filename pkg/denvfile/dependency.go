// SPDX-License-Identifier: MPL-2.0

package denvfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDependencyRef is the sentinel error wrapped by InvalidDependencyRefError.
var ErrInvalidDependencyRef = errors.New("invalid dependency reference")

type (
	// DependencyRef is a reference to a package in an output's dependency
	// list: either "source:package" or a bare "package" resolved against
	// the document's default source.
	DependencyRef string

	// InvalidDependencyRefError is returned when a DependencyRef is
	// syntactically malformed.
	InvalidDependencyRefError struct {
		Value  DependencyRef
		Reason string
	}
)

// String returns the string representation of the DependencyRef.
func (r DependencyRef) String() string { return string(r) }

// Split returns the source and package components. The source component is
// "" for bare references.
func (r DependencyRef) Split() (source, pkg string) {
	if src, name, ok := strings.Cut(string(r), ":"); ok {
		return src, name
	}
	return "", string(r)
}

// IsValid returns whether the DependencyRef is valid. A valid reference is
// non-empty, has at most one ':', and has a non-empty package component.
func (r DependencyRef) IsValid() (bool, []error) {
	s := string(r)
	switch {
	case strings.TrimSpace(s) == "":
		return false, []error{&InvalidDependencyRefError{Value: r, Reason: "must be non-empty"}}
	case strings.Count(s, ":") > 1:
		return false, []error{&InvalidDependencyRefError{Value: r, Reason: "at most one ':' allowed"}}
	}
	src, pkg := r.Split()
	if pkg == "" {
		return false, []error{&InvalidDependencyRefError{Value: r, Reason: "package component must be non-empty"}}
	}
	if strings.Contains(s, ":") && src == "" {
		return false, []error{&InvalidDependencyRefError{Value: r, Reason: "source component must be non-empty"}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDependencyRefError.
func (e *InvalidDependencyRefError) Error() string {
	return fmt.Sprintf("invalid dependency reference %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidDependencyRef for errors.Is() compatibility.
func (e *InvalidDependencyRefError) Unwrap() error { return ErrInvalidDependencyRef }
