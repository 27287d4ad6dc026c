// SPDX-License-Identifier: MPL-2.0

// Package matrix expands one output declaration across a set of target
// platforms, producing an independent environment descriptor per platform.
// Expansion is fan-out only: platforms that fail report their own error
// while the remaining platforms still produce descriptors.
package matrix

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/pkg/denvfile"
	"github.com/denvtool/denv/pkg/platform"
)

// UnsupportedPlatformError reports one platform the output cannot be
// composed for, whether excluded by the output's own platform restriction
// or by a dependency with no variant for it. Siblings in the same
// expansion are unaffected.
type UnsupportedPlatformError = compose.UnsupportedPlatformError

// Result pairs one target platform with its expansion outcome. Exactly one
// of Descriptor and Err is set.
type Result struct {
	Platform   platform.Platform
	Descriptor *compose.Descriptor
	Err        error
}

// Expand composes the named output for every target platform concurrently.
// Results come back sorted by platform string so expansion output is stable.
//
// A platform whose composition fails contributes a Result with Err set; the
// other platforms are composed regardless. The returned error is non-nil
// when at least one platform failed and wraps every per-platform error.
func Expand(ctx context.Context, name string, out denvfile.Output, set compose.SnapshotSet, targets []platform.Platform) ([]Result, error) {
	results := make([]Result, len(targets))

	// Composition is pure, so the only group error we care about is
	// context cancellation; per-platform failures land in their Result.
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := Result{Platform: target}
			if !out.SupportsPlatform(target.String()) {
				r.Err = &UnsupportedPlatformError{Output: name, Platform: target}
			} else {
				r.Descriptor, r.Err = compose.Compose(name, out, set, target)
			}
			mu.Lock()
			results[i] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Platform.String() < results[j].Platform.String()
	})

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}
