// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"bytes"
	"encoding/json"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
)

type (
	// Descriptor is the composer's output: everything the materializer
	// needs to turn an output declaration into a running session.
	// All lists preserve their declaration order.
	Descriptor struct {
		// Output is the name of the output this descriptor was composed for.
		Output string `json:"output" toml:"output"`
		// Platform is the target platform in "os/arch" form.
		Platform string `json:"platform" toml:"platform"`
		// SourceDigests maps each contributing source name to the digest
		// of its (overlaid) snapshot.
		SourceDigests map[string]string `json:"source_digests" toml:"source_digests"`
		// Dependencies is the ordered, de-duplicated dependency list.
		Dependencies []Dependency `json:"dependencies" toml:"dependencies"`
		// EnvVars is the ordered list of derived variable bindings.
		EnvVars []Binding `json:"env_vars,omitempty" toml:"env_vars,omitempty"`
		// StartupActions is the ordered list of startup actions, verbatim
		// from the document.
		StartupActions []Action `json:"startup_actions,omitempty" toml:"startup_actions,omitempty"`
	}

	// Dependency is one resolved entry in the descriptor's dependency list.
	Dependency struct {
		// Source is the source the package was resolved from.
		Source string `json:"source" toml:"source"`
		// Name is the package name.
		Name string `json:"name" toml:"name"`
		// Version is the resolved package version.
		Version string `json:"version" toml:"version"`
		// StorePath is the engine's store location, when known.
		StorePath string `json:"store_path,omitempty" toml:"store_path,omitempty"`
		// LibDirs are the package's absolute library directories.
		LibDirs []string `json:"lib_dirs,omitempty" toml:"lib_dirs,omitempty"`
		// BinDirs are the package's absolute binary directories.
		BinDirs []string `json:"bin_dirs,omitempty" toml:"bin_dirs,omitempty"`
		// IncludeDirs are the package's absolute header directories.
		IncludeDirs []string `json:"include_dirs,omitempty" toml:"include_dirs,omitempty"`
	}

	// Binding is one environment variable binding.
	Binding struct {
		Name  string `json:"name" toml:"name"`
		Value string `json:"value" toml:"value"`
	}

	// Action is one startup action. Text is opaque shell text.
	Action struct {
		Name string `json:"name" toml:"name"`
		Text string `json:"text" toml:"text"`
	}
)

// Encode renders the descriptor in its canonical TOML form. Field and list
// order are fixed, and source digests are emitted as a sorted table, so equal
// descriptors encode to equal bytes.
func (d *Descriptor) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders the descriptor as indented JSON, for callers that feed
// the descriptor to other tooling.
func (d *Descriptor) EncodeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return append(data, '\n'), nil
}

// Env returns the variable bindings as a name→value map.
func (d *Descriptor) Env() map[string]string {
	env := make(map[string]string, len(d.EnvVars))
	for _, b := range d.EnvVars {
		env[b.Name] = b.Value
	}
	return env
}
