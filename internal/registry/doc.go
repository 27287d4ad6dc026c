// SPDX-License-Identifier: MPL-2.0

// Package registry resolves declared package sources to immutable snapshots.
//
// Resolution is the only blocking point in the composer core: the registry
// fetches a source manifest from its declared locator (HTTP or local file),
// verifies the optional revision pin, and freezes the result into a Snapshot.
// A given (locator, revision) pair always resolves to the same snapshot, and
// repeated resolution of the same name within one process returns the
// identical snapshot pointer. The first caller performs the fetch; concurrent
// callers for the same name await that result instead of re-resolving.
//
// The registry performs no retries and applies no timeout of its own beyond
// the fetcher's HTTP client; callers wrap Resolve with a cancellable context.
package registry
