// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a well-known failure class with dedicated guidance text.
type Id int

const (
	DenvfileNotFoundId Id = iota + 1
	DenvfileParseErrorId
	UnknownSourceId
	LocatorUnreachableId
	RevisionMismatchId
	OverlayTargetMissingId
	UnsupportedPlatformId
	DependencyNotFoundId
	EngineUnavailableId
	ShellNotFoundId
	ConfigLoadFailedId
)

// MarkdownMsg is guidance text in Markdown, rendered before display.
type MarkdownMsg string

// Issue pairs a failure class with its rendered guidance.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

// Id returns the issue's identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw guidance text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance for terminal display.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	// render is swapped in tests to avoid terminal detection.
	render = glamour.Render

	denvfileNotFoundIssue = &Issue{
		id: DenvfileNotFoundId,
		mdMsg: `
# No denvfile found!

We searched for a ` + "`denvfile.cue`" + ` but couldn't find one in the current
directory.

## Things you can try
- Run ` + "`denv init`" + ` to scaffold a starter denvfile
- Change into a directory that has one
- Pass the document path explicitly with ` + "`--file`",
	}

	unknownSourceIssue = &Issue{
		id: UnknownSourceId,
		mdMsg: `
# Unknown source

An output or overlay references a source that the denvfile never declares.

## Things you can try
- Check the ` + "`sources:`" + ` block for the expected name
- Qualified dependency references use ` + "`source:package`" + ` form`,
	}

	locatorUnreachableIssue = &Issue{
		id: LocatorUnreachableId,
		mdMsg: `
# Source locator unreachable

The registry could not fetch the source manifest from its declared locator.

## Things you can try
- Check your network connection
- Verify the locator URL in the ` + "`sources:`" + ` block
- For ` + "`file://`" + ` locators, verify the manifest path exists`,
	}

	revisionMismatchIssue = &Issue{
		id: RevisionMismatchId,
		mdMsg: `
# Pinned revision not found

The locator answered with a different revision than the one the denvfile
pins. Reproducibility would be broken, so resolution stops here.

## Things you can try
- Update the ` + "`revision:`" + ` pin to the revision the locator serves
- Point the locator at a snapshot that still carries the pinned revision`,
	}

	denvfileParseErrorIssue = &Issue{
		id: DenvfileParseErrorId,
		mdMsg: `
# Denvfile does not validate

The denvfile was found but failed schema or structural validation.

## Things you can try
- Run ` + "`denv validate`" + ` for a per-field breakdown
- Compare against the starter document from ` + "`denv init`",
	}

	overlayTargetMissingIssue = &Issue{
		id: OverlayTargetMissingId,
		mdMsg: `
# Overlay target missing

An overlay ` + "`replace`" + ` op names a package that its source snapshot does not
carry. Replacing nothing would silently diverge from the document's intent,
so composition stops here.

## Things you can try
- Check the package name against the source's manifest
- Use an ` + "`add`" + ` op when the package may be absent`,
	}

	dependencyNotFoundIssue = &Issue{
		id: DependencyNotFoundId,
		mdMsg: `
# Dependency not found

An output depends on a package that its resolved source snapshot does not
provide (or an overlay shadows it).

## Things you can try
- Check the dependency reference against the source's manifest
- Qualified references use ` + "`source:package`" + ` form
- Check whether an overlay ` + "`shadow`" + ` op hides the package`,
	}

	unsupportedPlatformIssue = &Issue{
		id: UnsupportedPlatformId,
		mdMsg: `
# Platform not supported

A dependency has no variant for one of the requested target platforms.
Other platforms are unaffected; their expansions proceed independently.

## Things you can try
- Drop the platform from the output's ` + "`platforms:`" + ` list
- Add a platform-specific variant via an overlay ` + "`add`" + ` op`,
	}

	engineUnavailableIssue = &Issue{
		id: EngineUnavailableId,
		mdMsg: `
# Package engine unavailable

The external package engine that materializes environments could not be
reached.

## Things you can try
- Verify the engine is installed and on PATH
- Check ` + "`denv config show`" + ` for the configured engine settings`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# No usable shell

No shell was found to host the composed environment.

## Things you can try
- Set the ` + "`SHELL`" + ` environment variable to your shell's path
- Use ` + "`--materializer virtual`" + ` for an in-process POSIX shell`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration failed to load

The denv configuration file exists but could not be parsed or validated.

## Things you can try
- Run ` + "`denv config path`" + ` to find the file
- Delete it and regenerate with ` + "`denv config init`",
	}

	issues = map[Id]*Issue{
		DenvfileNotFoundId:     denvfileNotFoundIssue,
		DenvfileParseErrorId:   denvfileParseErrorIssue,
		UnknownSourceId:        unknownSourceIssue,
		LocatorUnreachableId:   locatorUnreachableIssue,
		RevisionMismatchId:     revisionMismatchIssue,
		OverlayTargetMissingId: overlayTargetMissingIssue,
		UnsupportedPlatformId:  unsupportedPlatformIssue,
		DependencyNotFoundId:   dependencyNotFoundIssue,
		EngineUnavailableId:    engineUnavailableIssue,
		ShellNotFoundId:        shellNotFoundIssue,
		ConfigLoadFailedId:     configLoadFailedIssue,
	}
)

// Lookup returns the Issue for the given id, or nil if no guidance exists.
func Lookup(id Id) *Issue {
	return issues[id]
}

// Ids returns the identifiers of all registered issues in ascending order.
func Ids() []Id {
	ids := maps.Keys(issues)
	slices.Sort(ids)
	return ids
}
