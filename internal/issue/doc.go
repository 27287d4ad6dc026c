// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error presentation: structured
// actionable errors with suggestions, and markdown guidance for well-known
// failure classes rendered with glamour.
package issue
