// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/denvtool/denv/pkg/denvfile"
)

type (
	// Registry holds declared sources and resolves names to snapshots.
	// The resolution cache lives inside the Registry: construct one at
	// process start and pass it down, rather than relying on any implicit
	// process-global state.
	Registry struct {
		sources map[string]denvfile.Source
		fetcher Fetcher
		logger  *log.Logger

		group singleflight.Group

		mu    sync.RWMutex
		cache map[string]*Snapshot
	}

	// Option configures a Registry.
	Option func(*Registry)
)

// WithLogger sets the logger used for resolution progress.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// New creates a Registry over the given declared sources.
func New(sources map[string]denvfile.Source, fetcher Fetcher, opts ...Option) *Registry {
	r := &Registry{
		sources: sources,
		fetcher: fetcher,
		logger:  log.Default(),
		cache:   make(map[string]*Snapshot, len(sources)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve resolves a declared source name to its snapshot.
//
// Resolution is idempotent and reference-stable: the first call for a name
// fetches the manifest and caches the snapshot; every later call (and every
// concurrent call awaiting the first) returns the identical *Snapshot.
func (r *Registry) Resolve(ctx context.Context, name string) (*Snapshot, error) {
	src, declared := r.sources[name]
	if !declared {
		return nil, &UnknownSourceError{Name: name}
	}

	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	// Single writer per name: concurrent callers share the first fetch.
	result, err, _ := r.group.Do(name, func() (any, error) {
		// A racing caller may have populated the cache between the fast
		// path and entering the group.
		r.mu.RLock()
		cached, ok := r.cache[name]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		snapshot, err := r.resolve(ctx, name, src)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[name] = snapshot
		r.mu.Unlock()
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

func (r *Registry) resolve(ctx context.Context, name string, src denvfile.Source) (*Snapshot, error) {
	r.logger.Debug("resolving source", "source", name, "locator", src.Locator)

	manifest, err := r.fetcher.Fetch(ctx, src.Locator)
	if err != nil {
		return nil, &LocatorUnreachableError{Name: name, Locator: src.Locator, Cause: err}
	}

	if src.Revision != "" && manifest.Revision != src.Revision {
		return nil, &RevisionMismatchError{Name: name, Pinned: src.Revision, Actual: manifest.Revision}
	}

	snapshot := NewSnapshot(name, manifest.Revision, manifest.Packages)
	r.logger.Debug("resolved source",
		"source", name,
		"revision", snapshot.Revision(),
		"packages", snapshot.Len(),
		"digest", snapshot.Digest())
	return snapshot, nil
}

// Declared returns whether the given source name is declared.
func (r *Registry) Declared(name string) bool {
	_, ok := r.sources[name]
	return ok
}
