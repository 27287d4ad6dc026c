// SPDX-License-Identifier: MPL-2.0

// Package denvfile defines the schema and parsing for denvfile CUE documents.
//
// A denvfile declares three things: package sources (a locator plus an
// optional pinned revision), overlays (ordered transformations over one
// source's package set), and outputs (named shells listing the dependencies,
// derived environment variables, and startup actions that make up a
// development environment).
//
// The document is pure data. Everything it implies — resolving locators,
// building packages, caching — happens elsewhere: resolution in
// internal/registry, composition in internal/compose, and actual
// materialization behind the internal/materialize boundary.
package denvfile
