// SPDX-License-Identifier: MPL-2.0

// Package compose builds the environment descriptor for one output: the
// ordered dependency list, the derived environment variable bindings, and
// the startup actions.
//
// Composition is a pure function of its inputs. Identical snapshots,
// dependency lists, and startup actions always yield a byte-identical
// descriptor; reproducibility depends on it. A descriptor is consumed once
// by the materializer boundary and then discarded.
package compose
