// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists denv's own configuration. The config
// file is CUE, validated against an embedded #Config schema before its
// values are merged over defaults with Viper. Configuration controls tool
// behavior only; environment definitions live in denvfiles and are handled
// by pkg/denvfile.
package config
