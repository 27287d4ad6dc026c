// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/internal/issue"
	"github.com/denvtool/denv/internal/matrix"
	"github.com/denvtool/denv/internal/overlay"
	"github.com/denvtool/denv/internal/registry"
	"github.com/denvtool/denv/pkg/denvfile"
)

// guidanceFor maps a pipeline failure to its guidance id, or 0 when no
// dedicated guidance exists.
func guidanceFor(err error) issue.Id {
	var (
		validation       denvfile.ValidationErrors
		unknownSource    *registry.UnknownSourceError
		unreachable      *registry.LocatorUnreachableError
		revisionMismatch *registry.RevisionMismatchError
		targetMissing    *overlay.TargetMissingError
		depNotFound      *compose.DependencyNotFoundError
		unsupported      *matrix.UnsupportedPlatformError
	)
	switch {
	case errors.As(err, &validation):
		return issue.DenvfileParseErrorId
	case errors.As(err, &unknownSource):
		return issue.UnknownSourceId
	case errors.As(err, &unreachable):
		return issue.LocatorUnreachableId
	case errors.As(err, &revisionMismatch):
		return issue.RevisionMismatchId
	case errors.As(err, &targetMissing):
		return issue.OverlayTargetMissingId
	case errors.As(err, &depNotFound):
		return issue.DependencyNotFoundId
	case errors.As(err, &unsupported):
		return issue.UnsupportedPlatformId
	case errors.Is(err, errNoUsableShell):
		return issue.ShellNotFoundId
	default:
		return 0
	}
}

// printGuidance renders the guidance markdown for recognized failures and
// any suggestions the error carries. Rendering problems are swallowed;
// guidance is best-effort decoration.
func printGuidance(err error) {
	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		if details := actionable.Details(verbose); details != "" {
			fmt.Fprintln(os.Stderr, details)
		}
	}

	id := guidanceFor(err)
	if id == 0 {
		return
	}
	iss := issue.Lookup(id)
	if iss == nil {
		return
	}
	text, renderErr := iss.Render("auto")
	if renderErr != nil {
		return
	}
	fmt.Fprint(os.Stderr, text)
}
