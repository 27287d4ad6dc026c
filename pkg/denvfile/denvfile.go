// SPDX-License-Identifier: MPL-2.0

package denvfile

import (
	"github.com/denvtool/denv/pkg/types"
)

// OpKind identifies the effect of a single overlay operation.
type OpKind string

const (
	// OpAdd introduces a package entry. Adding a name that already exists
	// replaces it (later overlays win).
	OpAdd OpKind = "add"
	// OpReplace replaces an existing entry and fails if the entry is absent.
	OpReplace OpKind = "replace"
	// OpShadow hides an entry from dependency resolution without deleting it.
	OpShadow OpKind = "shadow"
)

// DeriveRule identifies how a derived environment variable is computed.
type DeriveRule string

const (
	// DeriveLiteral binds the variable to a literal value.
	DeriveLiteral DeriveRule = "literal"
	// DeriveJoinLibDirs joins every dependency's library directories with
	// the platform path-list separator, in dependency order.
	DeriveJoinLibDirs DeriveRule = "join-lib-dirs"
	// DeriveJoinBinDirs joins every dependency's binary directories with
	// the platform path-list separator, in dependency order.
	DeriveJoinBinDirs DeriveRule = "join-bin-dirs"
	// DeriveJoinIncludeDirs joins every dependency's include directories
	// with the platform path-list separator, in dependency order.
	DeriveJoinIncludeDirs DeriveRule = "join-include-dirs"
)

type (
	// Denvfile is the root of a parsed denvfile.cue document.
	Denvfile struct {
		// Version is the optional document format version.
		Version string `json:"version,omitempty"`
		// Sources maps source names to their locator declarations.
		Sources map[string]Source `json:"sources"`
		// Overlays is the ordered list of overlays. Order is evaluation
		// order: overlay i+1 sees the package set as modified by overlay i.
		Overlays []Overlay `json:"overlays,omitempty"`
		// Outputs maps output names to their shell declarations.
		Outputs map[string]Output `json:"outputs"`

		// FilePath is the path this document was parsed from (not part of
		// the document itself).
		FilePath types.FilesystemPath `json:"-"`
	}

	// Source declares a package source: where to find it and, optionally,
	// which revision to pin. A given (locator, revision) pair always
	// resolves to the same snapshot.
	Source struct {
		// Locator is the manifest location: an https:// URL or a file://
		// path understood by the registry's fetcher.
		Locator string `json:"locator"`
		// Revision optionally pins the source to an exact revision. When
		// set, resolution fails if the locator serves a different revision.
		Revision string `json:"revision,omitempty"`
	}

	// Overlay is an ordered, named transformation attached to exactly one
	// base source.
	Overlay struct {
		// Name identifies the overlay in error messages.
		Name string `json:"name"`
		// Source names the base source this overlay applies to.
		Source string `json:"source"`
		// Ops is the ordered list of operations; applied as a fold.
		Ops []OverlayOp `json:"ops"`
	}

	// OverlayOp is a single tagged operation over a package set.
	OverlayOp struct {
		// Op selects add, replace, or shadow semantics.
		Op OpKind `json:"op"`
		// Package is the package entry the operation targets.
		Package string `json:"package"`
		// Version is the package version for add/replace.
		Version string `json:"version,omitempty"`
		// StorePath is the engine store path for add/replace (optional;
		// the engine fills it in during materialization when empty).
		StorePath string `json:"store_path,omitempty"`
		// LibDirs are the package's library directories.
		LibDirs []string `json:"lib_dirs,omitempty"`
		// BinDirs are the package's binary directories.
		BinDirs []string `json:"bin_dirs,omitempty"`
		// IncludeDirs are the package's header directories.
		IncludeDirs []string `json:"include_dirs,omitempty"`
		// Platforms optionally restricts the entry to the listed
		// "os/arch" platforms. Empty means all platforms.
		Platforms []string `json:"platforms,omitempty"`
	}

	// Output declares one materializable shell.
	Output struct {
		// Description is a human-readable summary shown in listings.
		Description string `json:"description,omitempty"`
		// Dependencies is the ordered list of requested packages, as
		// "source:package" references or bare package names resolved
		// against the default source.
		Dependencies []DependencyRef `json:"dependencies"`
		// EnvVars are the derived environment variable specs, applied in
		// declaration order.
		EnvVars []EnvVarSpec `json:"env_vars,omitempty"`
		// StartupActions are opaque shell snippets (usually aliases)
		// installed verbatim at session start, in declaration order.
		StartupActions []StartupAction `json:"startup_actions,omitempty"`
		// Platforms optionally restricts the output to the listed
		// "os/arch" platforms. Empty means all platforms.
		Platforms []string `json:"platforms,omitempty"`
	}

	// EnvVarSpec declares one derived environment variable.
	EnvVarSpec struct {
		// Name is the variable name (e.g. "LD_LIBRARY_PATH").
		Name string `json:"name"`
		// Derive selects the derivation rule. Defaults to "literal".
		Derive DeriveRule `json:"derive,omitempty"`
		// Value is the literal value; only meaningful for DeriveLiteral.
		Value string `json:"value,omitempty"`
	}

	// StartupAction is a named, opaque shell snippet. The text is passed
	// through to the session verbatim; no semantic validation is applied.
	StartupAction struct {
		// Name identifies the action in listings and error messages.
		Name string `json:"name"`
		// Text is the literal shell text.
		Text string `json:"text"`
	}
)

// DefaultSourceName returns the source bare dependency references resolve
// against: the single declared source if there is exactly one, otherwise the
// source named "default" if declared, otherwise "".
func (d *Denvfile) DefaultSourceName() string {
	if len(d.Sources) == 1 {
		for name := range d.Sources {
			return name
		}
	}
	if _, ok := d.Sources["default"]; ok {
		return "default"
	}
	return ""
}

// OverlaysFor returns the overlays attached to the named source, preserving
// declaration order.
func (d *Denvfile) OverlaysFor(source string) []Overlay {
	var out []Overlay
	for _, o := range d.Overlays {
		if o.Source == source {
			out = append(out, o)
		}
	}
	return out
}

// SupportsPlatform reports whether the output is declared for the given
// "os/arch" platform string. An empty restriction list means all platforms.
func (o *Output) SupportsPlatform(p string) bool {
	if len(o.Platforms) == 0 {
		return true
	}
	for _, candidate := range o.Platforms {
		if candidate == p {
			return true
		}
	}
	return false
}
