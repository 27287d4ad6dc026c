// SPDX-License-Identifier: MPL-2.0

// Package engine drives the composition pipeline end to end: resolve every
// declared source, apply its overlays, and hand the overlaid snapshots to
// the composer. It is the only package that sees the pipeline whole; each
// stage below it stays independently testable.
package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/internal/matrix"
	"github.com/denvtool/denv/internal/overlay"
	"github.com/denvtool/denv/internal/registry"
	"github.com/denvtool/denv/pkg/denvfile"
	"github.com/denvtool/denv/pkg/platform"
)

// Engine binds a parsed denvfile to a source registry.
type Engine struct {
	doc    *denvfile.Denvfile
	reg    *registry.Registry
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an engine for the document, resolving sources through fetcher.
func New(doc *denvfile.Denvfile, fetcher registry.Fetcher, opts ...Option) *Engine {
	e := &Engine{
		doc:    doc,
		reg:    registry.New(doc.Sources, fetcher),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outputs returns the document's output names, sorted.
func (e *Engine) Outputs() []string {
	names := maps.Keys(e.doc.Outputs)
	slices.Sort(names)
	return names
}

// Output looks up the named output, falling back to the document's sole
// output when name is empty.
func (e *Engine) Output(name string) (string, denvfile.Output, error) {
	if name == "" {
		if len(e.doc.Outputs) == 1 {
			for n, out := range e.doc.Outputs {
				return n, out, nil
			}
		}
		return "", denvfile.Output{}, fmt.Errorf("%w: no output named and the denvfile declares %d",
			compose.ErrCompose, len(e.doc.Outputs))
	}
	out, ok := e.doc.Outputs[name]
	if !ok {
		return "", denvfile.Output{}, fmt.Errorf("%w: unknown output %q", compose.ErrCompose, name)
	}
	return name, out, nil
}

// SnapshotSet resolves every declared source concurrently and applies each
// source's overlays. Resolution failures surface as registry errors; overlay
// failures as overlay errors.
func (e *Engine) SnapshotSet(ctx context.Context) (compose.SnapshotSet, error) {
	set := compose.SnapshotSet{
		Default:   e.doc.DefaultSourceName(),
		Snapshots: make(map[string]*registry.Snapshot, len(e.doc.Sources)),
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make([]*registry.Snapshot, 0, len(e.doc.Sources))
	names := make([]string, 0, len(e.doc.Sources))
	for name := range e.doc.Sources {
		names = append(names, name)
		results = append(results, nil)
	}
	for i, name := range names {
		g.Go(func() error {
			snap, err := e.reg.Resolve(ctx, name)
			if err != nil {
				return err
			}
			overlaid, err := overlay.Apply(snap, e.doc.OverlaysFor(name))
			if err != nil {
				return err
			}
			results[i] = overlaid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return compose.SnapshotSet{}, err
	}

	for i, name := range names {
		set.Snapshots[name] = results[i]
		e.logger.Debug("source ready",
			"source", name,
			"revision", results[i].Revision(),
			"packages", results[i].Len(),
			"digest", results[i].Digest())
	}
	return set, nil
}

// ComposeOutput resolves, overlays and composes one output for one platform.
func (e *Engine) ComposeOutput(ctx context.Context, name string, p platform.Platform) (*compose.Descriptor, error) {
	name, out, err := e.Output(name)
	if err != nil {
		return nil, err
	}
	if !out.SupportsPlatform(p.String()) {
		return nil, &matrix.UnsupportedPlatformError{Output: name, Platform: p}
	}
	set, err := e.SnapshotSet(ctx)
	if err != nil {
		return nil, err
	}
	return compose.Compose(name, out, set, p)
}

// ExpandOutput composes one output across several target platforms. Sources
// are resolved once and shared by every target.
func (e *Engine) ExpandOutput(ctx context.Context, name string, targets []platform.Platform) ([]matrix.Result, error) {
	name, out, err := e.Output(name)
	if err != nil {
		return nil, err
	}
	set, err := e.SnapshotSet(ctx)
	if err != nil {
		return nil, err
	}
	return matrix.Expand(ctx, name, out, set, targets)
}
