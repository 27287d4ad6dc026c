// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	goruntime "runtime"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ErrInvalidPlatform is the sentinel error wrapped by InvalidPlatformError.
var ErrInvalidPlatform = errors.New("invalid platform")

type (
	// Platform is a target platform in "os/arch" form (e.g. "linux/amd64").
	// The zero value is invalid; construct via Parse or Current.
	Platform struct {
		// OS is the operating system name, following runtime.GOOS.
		OS string
		// Arch is the architecture name, following runtime.GOARCH.
		Arch string
	}

	// InvalidPlatformError is returned when a platform string cannot be
	// parsed or names an unknown os/arch pair.
	InvalidPlatformError struct {
		Value string
	}
)

// tripleArch maps runtime.GOARCH values to the architecture component of the
// engine's system triple (the convention used by the external package engine).
var tripleArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "aarch64",
	"386":   "i686",
}

// tripleOS maps runtime.GOOS values to the OS component of the engine triple.
var tripleOS = map[string]string{
	Linux:   "linux",
	Darwin:  "darwin",
	Windows: "windows",
}

// Current returns the platform the process is running on.
func Current() Platform {
	return Platform{OS: goruntime.GOOS, Arch: goruntime.GOARCH}
}

// Parse parses a platform from "os/arch" form.
func Parse(s string) (Platform, error) {
	osName, arch, ok := strings.Cut(s, "/")
	if !ok || osName == "" || arch == "" {
		return Platform{}, &InvalidPlatformError{Value: s}
	}
	if _, known := tripleOS[osName]; !known {
		return Platform{}, &InvalidPlatformError{Value: s}
	}
	return Platform{OS: osName, Arch: arch}, nil
}

// String returns the "os/arch" form.
func (p Platform) String() string { return p.OS + "/" + p.Arch }

// IsZero reports whether the platform is the (invalid) zero value.
func (p Platform) IsZero() bool { return p.OS == "" && p.Arch == "" }

// Triple returns the platform in the external engine's system-triple form,
// e.g. "x86_64-linux" or "aarch64-darwin". Architectures without a known
// triple mapping are passed through unchanged.
func (p Platform) Triple() string {
	arch := p.Arch
	if mapped, ok := tripleArch[arch]; ok {
		arch = mapped
	}
	osName := p.OS
	if mapped, ok := tripleOS[osName]; ok {
		osName = mapped
	}
	return arch + "-" + osName
}

// ListSeparator returns the path-list separator for the platform: ";" on
// Windows and ":" everywhere else. The composer uses it when joining
// per-dependency directories into a single search-path variable.
func (p Platform) ListSeparator() string {
	if p.OS == Windows {
		return ";"
	}
	return ":"
}

// Error implements the error interface for InvalidPlatformError.
func (e *InvalidPlatformError) Error() string {
	return fmt.Sprintf("invalid platform %q: expected \"os/arch\" with a known operating system", e.Value)
}

// Unwrap returns ErrInvalidPlatform for errors.Is() compatibility.
func (e *InvalidPlatformError) Unwrap() error { return ErrInvalidPlatform }
