// SPDX-License-Identifier: MPL-2.0

// Package materialize turns environment descriptors into live developer
// environments. Materializers are the boundary where the pure composition
// pipeline meets the host: everything up to the descriptor is deterministic
// data, everything in here has side effects.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/denvtool/denv/internal/compose"
)

// ErrMaterialize is the sentinel error all materialization failures wrap.
var ErrMaterialize = errors.New("materialization failed")

type (
	// Materializer realizes a descriptor on the host.
	Materializer interface {
		// Name returns the materializer name ("shell", "virtual", "mock").
		Name() string
		// Available reports whether the materializer can run on this host.
		Available() bool
		// Materialize realizes the descriptor. The returned result is
		// never nil.
		Materialize(ctx context.Context, desc *compose.Descriptor, opts Options) *Result
	}

	// Options carries the host-side knobs a materializer needs.
	Options struct {
		// WorkDir is the directory the environment starts in. Empty means
		// the current directory.
		WorkDir string
		// Stdin, Stdout and Stderr are the environment's I/O streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Interactive requests an interactive session where the
		// materializer supports one.
		Interactive bool
	}

	// Result reports how materialization went. A non-zero exit code with a
	// nil Error means the environment itself exited non-zero; Error is
	// reserved for infrastructure failures.
	Result struct {
		ExitCode int
		Error    error
	}

	// Error wraps a materializer failure with the materializer's name.
	Error struct {
		Materializer string
		Cause        error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s materializer: %v", e.Materializer, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{ErrMaterialize, e.Cause}
}

// errorResult builds a failed Result wrapping the cause in an *Error.
func errorResult(name string, cause error) *Result {
	return &Result{ExitCode: 1, Error: &Error{Materializer: name, Cause: cause}}
}

// ForName returns the materializer registered under name.
func ForName(name string) (Materializer, error) {
	switch name {
	case "shell":
		return NewShellMaterializer(), nil
	case "virtual":
		return NewVirtualMaterializer(), nil
	case "mock":
		return NewMockMaterializer(), nil
	default:
		return nil, fmt.Errorf("%w: unknown materializer %q", ErrMaterialize, name)
	}
}
