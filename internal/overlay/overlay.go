// SPDX-License-Identifier: MPL-2.0

// Package overlay applies ordered overlay transformations to a resolved
// source snapshot.
//
// Overlays are pure functions over the package set. Application is an
// explicit fold: strictly sequential, order-sensitive, and free of side
// effects on the base snapshot. Overlay i+1 sees the package set as modified
// by overlay i; later overlays win when two touch the same entry.
package overlay

import (
	"errors"
	"fmt"

	"github.com/denvtool/denv/internal/registry"
	"github.com/denvtool/denv/pkg/denvfile"
)

// ErrOverlay is the sentinel error all overlay failures wrap.
var ErrOverlay = errors.New("overlay application failed")

// TargetMissingError is returned when a replace op targets an entry absent
// from the package set. The failure is fatal to the composition that
// triggered it; the registry's cached base snapshot is untouched.
type TargetMissingError struct {
	Overlay string
	Package string
}

// Error implements the error interface for TargetMissingError.
func (e *TargetMissingError) Error() string {
	return fmt.Sprintf("overlay %q: replace target %q does not exist in the package set", e.Overlay, e.Package)
}

// Unwrap returns ErrOverlay for errors.Is() compatibility.
func (e *TargetMissingError) Unwrap() error { return ErrOverlay }

// Apply folds the overlays over the base snapshot in declaration order and
// returns the resulting snapshot. The base is never mutated; the result is a
// new immutable snapshot carrying the same source name and revision.
//
// Op semantics:
//   - add: insert the entry, replacing any existing entry of the same name
//   - replace: overwrite an existing entry; fails if the entry is absent
//   - shadow: hide an existing entry from lookup without deleting it
//
// A shadow of an absent entry is a no-op: overlays only ever add, replace,
// or hide entries, never delete ones they do not know about.
func Apply(base *registry.Snapshot, overlays []denvfile.Overlay) (*registry.Snapshot, error) {
	if len(overlays) == 0 {
		return base, nil
	}

	set := make(map[string]registry.Package)
	for _, p := range base.Packages() {
		set[p.Name] = p
	}

	for _, o := range overlays {
		for _, op := range o.Ops {
			switch op.Op {
			case denvfile.OpAdd:
				set[op.Package] = packageFromOp(op)

			case denvfile.OpReplace:
				prev, exists := set[op.Package]
				if !exists {
					return nil, &TargetMissingError{Overlay: o.Name, Package: op.Package}
				}
				set[op.Package] = mergeReplace(prev, op)

			case denvfile.OpShadow:
				if p, exists := set[op.Package]; exists {
					p.Hidden = true
					set[op.Package] = p
				}

			default:
				// Unreachable for schema-validated documents.
				return nil, fmt.Errorf("%w: overlay %q: unknown op %q", ErrOverlay, o.Name, op.Op)
			}
		}
	}

	pkgs := make([]registry.Package, 0, len(set))
	for _, p := range set {
		pkgs = append(pkgs, p)
	}
	return registry.NewSnapshot(base.Source(), base.Revision(), pkgs), nil
}

// packageFromOp builds a fresh package entry from an add op.
func packageFromOp(op denvfile.OverlayOp) registry.Package {
	return registry.Package{
		Name:        op.Package,
		Version:     op.Version,
		StorePath:   op.StorePath,
		LibDirs:     op.LibDirs,
		BinDirs:     op.BinDirs,
		IncludeDirs: op.IncludeDirs,
		Platforms:   op.Platforms,
	}
}

// mergeReplace overwrites prev with the op's fields. Fields the op leaves
// empty are retained from the previous entry, so a replace can bump a
// version without respecifying every directory. Replacing a shadowed entry
// unshadows it.
func mergeReplace(prev registry.Package, op denvfile.OverlayOp) registry.Package {
	next := packageFromOp(op)
	if next.Version == "" {
		next.Version = prev.Version
	}
	if next.StorePath == "" {
		next.StorePath = prev.StorePath
	}
	if next.LibDirs == nil {
		next.LibDirs = prev.LibDirs
	}
	if next.BinDirs == nil {
		next.BinDirs = prev.BinDirs
	}
	if next.IncludeDirs == nil {
		next.IncludeDirs = prev.IncludeDirs
	}
	if next.Platforms == nil {
		next.Platforms = prev.Platforms
	}
	return next
}
