// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// Package is one entry in a resolved package set. It carries the
	// directories the composer derives search paths from, plus the opaque
	// store path assigned by the external engine.
	Package struct {
		// Name is the package name, unique within its snapshot.
		Name string `json:"name"`
		// Version is the package version string.
		Version string `json:"version"`
		// StorePath is the engine's content-addressed location for the
		// package. Opaque to the composer.
		StorePath string `json:"store_path,omitempty"`
		// LibDirs are library directories, relative to StorePath when it
		// is set.
		LibDirs []string `json:"lib_dirs,omitempty"`
		// BinDirs are binary directories.
		BinDirs []string `json:"bin_dirs,omitempty"`
		// IncludeDirs are header directories.
		IncludeDirs []string `json:"include_dirs,omitempty"`
		// Platforms optionally restricts the entry to the listed
		// "os/arch" platforms. Empty means all platforms.
		Platforms []string `json:"platforms,omitempty"`
		// Hidden marks an entry shadowed by an overlay. Hidden entries
		// stay in the set but are invisible to Lookup.
		Hidden bool `json:"-"`
	}

	// Snapshot is an immutable, resolved package set. Snapshots are
	// constructed once and never modified; overlays produce new snapshots.
	Snapshot struct {
		source   string
		revision string
		packages map[string]Package
		digest   string
	}
)

// NewSnapshot freezes the given packages into a snapshot. The digest is
// computed over a canonical serialization, so two snapshots built from equal
// inputs carry equal digests regardless of input order.
func NewSnapshot(source, revision string, pkgs []Package) *Snapshot {
	packages := make(map[string]Package, len(pkgs))
	for _, p := range pkgs {
		packages[p.Name] = p
	}
	return &Snapshot{
		source:   source,
		revision: revision,
		packages: packages,
		digest:   computeDigest(source, revision, packages),
	}
}

// Source returns the name of the source this snapshot was resolved from.
func (s *Snapshot) Source() string { return s.source }

// Revision returns the revision the snapshot was resolved at.
func (s *Snapshot) Revision() string { return s.revision }

// Digest returns the snapshot's content digest in hex form.
func (s *Snapshot) Digest() string { return s.digest }

// Lookup returns the named package. Hidden (shadowed) entries are not found.
func (s *Snapshot) Lookup(name string) (Package, bool) {
	p, ok := s.packages[name]
	if !ok || p.Hidden {
		return Package{}, false
	}
	return p, true
}

// Contains reports whether the named entry exists in the set, hidden or not.
// Overlay replace semantics check existence with Contains, not Lookup, so a
// shadowed entry can still be replaced (and thereby unshadowed).
func (s *Snapshot) Contains(name string) bool {
	_, ok := s.packages[name]
	return ok
}

// Packages returns every entry in the set, including hidden ones, sorted by
// name. The returned slice is a copy; mutating it does not affect the
// snapshot.
func (s *Snapshot) Packages() []Package {
	names := maps.Keys(s.packages)
	slices.Sort(names)
	out := make([]Package, 0, len(names))
	for _, name := range names {
		out = append(out, s.packages[name])
	}
	return out
}

// Len returns the number of visible (non-hidden) entries.
func (s *Snapshot) Len() int {
	n := 0
	for _, p := range s.packages {
		if !p.Hidden {
			n++
		}
	}
	return n
}

// computeDigest hashes the canonical serialization of the package set.
// Names are visited in sorted order and every field participates, so the
// digest is independent of map iteration order.
func computeDigest(source, revision string, packages map[string]Package) string {
	h := xxhash.New()
	writeField := func(parts ...string) {
		for _, part := range parts {
			_, _ = h.WriteString(part)
			_, _ = h.WriteString("\x00")
		}
	}
	writeField(source, revision)

	names := maps.Keys(packages)
	slices.Sort(names)
	for _, name := range names {
		p := packages[name]
		writeField(p.Name, p.Version, p.StorePath)
		writeField(strings.Join(p.LibDirs, "\x01"))
		writeField(strings.Join(p.BinDirs, "\x01"))
		writeField(strings.Join(p.IncludeDirs, "\x01"))
		writeField(strings.Join(p.Platforms, "\x01"))
		if p.Hidden {
			writeField("hidden")
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// AppliesTo reports whether the package is available on the given "os/arch"
// platform string.
func (p *Package) AppliesTo(platform string) bool {
	if len(p.Platforms) == 0 {
		return true
	}
	for _, candidate := range p.Platforms {
		if candidate == platform {
			return true
		}
	}
	return false
}
