// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"errors"
	"fmt"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/internal/materialize"
	"github.com/denvtool/denv/internal/overlay"
	"github.com/denvtool/denv/internal/registry"
	"github.com/denvtool/denv/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classify maps pipeline failures to the exit code taxonomy: resolution
// failures, composition failures (overlay included), materialization
// failures, then the generic failure code.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, registry.ErrResolution):
		return &ExitError{Code: types.ExitResolution, Err: err}
	case errors.Is(err, overlay.ErrOverlay), errors.Is(err, compose.ErrCompose):
		return &ExitError{Code: types.ExitCompose, Err: err}
	case errors.Is(err, materialize.ErrMaterialize):
		return &ExitError{Code: types.ExitMaterialize, Err: err}
	default:
		return &ExitError{Code: types.ExitFailure, Err: err}
	}
}
