// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"errors"
	"fmt"
	"path"

	"github.com/denvtool/denv/internal/registry"
	"github.com/denvtool/denv/pkg/denvfile"
	"github.com/denvtool/denv/pkg/platform"
)

// ErrCompose is the sentinel error all composition failures wrap. The CLI
// maps it to its own exit code.
var ErrCompose = errors.New("composition failed")

type (
	// SnapshotSet holds the overlaid snapshots composition resolves
	// dependency references against, keyed by source name. Bare references
	// resolve against Default.
	SnapshotSet struct {
		// Default is the source name bare references resolve against.
		Default string
		// Snapshots maps source names to their overlaid snapshots.
		Snapshots map[string]*registry.Snapshot
	}

	// DependencyNotFoundError is returned when a requested dependency is
	// absent from the overlaid snapshot. Composition aborts; no partial
	// descriptor is returned.
	DependencyNotFoundError struct {
		Ref    denvfile.DependencyRef
		Source string
	}

	// UnsupportedPlatformError is returned when the requested platform
	// cannot be composed: either the output restricts its platforms and
	// the requested one is excluded, or a dependency exists but carries no
	// variant for it (Ref names that dependency). Other platforms in the
	// same expansion are unaffected.
	UnsupportedPlatformError struct {
		Output   string
		Platform platform.Platform
		Ref      denvfile.DependencyRef
	}
)

// Error implements the error interface for DependencyNotFoundError.
func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("dependency %q not found in source %q", e.Ref, e.Source)
}

// Unwrap returns ErrCompose for errors.Is() compatibility.
func (e *DependencyNotFoundError) Unwrap() error { return ErrCompose }

// Error implements the error interface for UnsupportedPlatformError.
func (e *UnsupportedPlatformError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("output %q: dependency %q has no variant for platform %q",
			e.Output, e.Ref, e.Platform)
	}
	return fmt.Sprintf("output %q does not support platform %q", e.Output, e.Platform)
}

// Unwrap returns ErrCompose so platform failures map to the composition
// exit code.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrCompose }

// Compose builds the environment descriptor for the named output on the
// given platform.
//
// Steps: resolve each dependency reference in caller order, de-duplicating
// by package identity (the same package reachable via a bare and a qualified
// reference appears once); derive each declared environment variable, with
// join rules concatenating per-dependency directories in dependency-list
// order using the platform's path-list separator; attach the startup actions
// verbatim, preserving declaration order.
//
// Compose is deterministic: identical inputs yield byte-identical
// descriptors (see Descriptor.Encode). The first unresolvable reference
// aborts the whole composition.
func Compose(name string, out denvfile.Output, set SnapshotSet, p platform.Platform) (*Descriptor, error) {
	deps := make([]Dependency, 0, len(out.Dependencies))
	seen := make(map[string]bool, len(out.Dependencies))

	for _, ref := range out.Dependencies {
		srcName, pkgName := ref.Split()
		if srcName == "" {
			srcName = set.Default
		}

		snapshot, ok := set.Snapshots[srcName]
		if !ok {
			return nil, &DependencyNotFoundError{Ref: ref, Source: srcName}
		}
		pkg, ok := snapshot.Lookup(pkgName)
		if !ok {
			return nil, &DependencyNotFoundError{Ref: ref, Source: srcName}
		}
		// The package exists; lacking a variant for this platform is a
		// platform failure, not a missing dependency.
		if !pkg.AppliesTo(p.String()) {
			return nil, &UnsupportedPlatformError{Output: name, Platform: p, Ref: ref}
		}

		// Duplicates collapse by identity, not by spelling: "tool" and
		// "base:tool" are one dependency.
		identity := srcName + "\x00" + pkg.Name
		if seen[identity] {
			continue
		}
		seen[identity] = true

		deps = append(deps, Dependency{
			Source:      srcName,
			Name:        pkg.Name,
			Version:     pkg.Version,
			StorePath:   pkg.StorePath,
			LibDirs:     absoluteDirs(pkg.StorePath, pkg.LibDirs),
			BinDirs:     absoluteDirs(pkg.StorePath, pkg.BinDirs),
			IncludeDirs: absoluteDirs(pkg.StorePath, pkg.IncludeDirs),
		})
	}

	envVars := make([]Binding, 0, len(out.EnvVars))
	for _, spec := range out.EnvVars {
		envVars = append(envVars, Binding{Name: spec.Name, Value: deriveValue(spec, deps, p)})
	}

	actions := make([]Action, 0, len(out.StartupActions))
	for _, a := range out.StartupActions {
		actions = append(actions, Action{Name: a.Name, Text: a.Text})
	}

	digests := make(map[string]string, len(set.Snapshots))
	for srcName, snapshot := range set.Snapshots {
		digests[srcName] = snapshot.Digest()
	}

	return &Descriptor{
		Output:         name,
		Platform:       p.String(),
		SourceDigests:  digests,
		Dependencies:   deps,
		EnvVars:        envVars,
		StartupActions: actions,
	}, nil
}

// deriveValue computes one variable's value. Join rules concatenate the
// selected directory kind across all dependencies, in dependency-list order,
// separated by the platform's path-list separator.
func deriveValue(spec denvfile.EnvVarSpec, deps []Dependency, p platform.Platform) string {
	var pick func(Dependency) []string
	switch spec.Derive {
	case denvfile.DeriveJoinLibDirs:
		pick = func(d Dependency) []string { return d.LibDirs }
	case denvfile.DeriveJoinBinDirs:
		pick = func(d Dependency) []string { return d.BinDirs }
	case denvfile.DeriveJoinIncludeDirs:
		pick = func(d Dependency) []string { return d.IncludeDirs }
	default:
		return spec.Value
	}

	value := ""
	sep := p.ListSeparator()
	for _, dep := range deps {
		for _, dir := range pick(dep) {
			if value != "" {
				value += sep
			}
			value += dir
		}
	}
	return value
}

// absoluteDirs anchors store-relative directories at the package's store
// path. Already-absolute entries and entries of packages without a store
// path pass through unchanged. Engine store paths are slash-separated on
// every platform.
func absoluteDirs(storePath string, dirs []string) []string {
	if len(dirs) == 0 {
		return nil
	}
	out := make([]string, len(dirs))
	for i, dir := range dirs {
		if storePath == "" || path.IsAbs(dir) {
			out[i] = dir
			continue
		}
		out[i] = path.Join(storePath, dir)
	}
	return out
}
