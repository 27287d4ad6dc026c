// SPDX-License-Identifier: MPL-2.0

// Package platform identifies target platforms (operating system and
// architecture pairs) and provides the platform-specific conventions the
// composer depends on, such as the path-list separator used when joining
// library directories into a search-path variable.
package platform
