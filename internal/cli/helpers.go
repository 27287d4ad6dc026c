// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/denvtool/denv/internal/engine"
	"github.com/denvtool/denv/internal/issue"
	"github.com/denvtool/denv/internal/registry"
	"github.com/denvtool/denv/pkg/denvfile"
	"github.com/denvtool/denv/pkg/platform"
	"github.com/denvtool/denv/pkg/types"
)

// DefaultDenvfileName is the file loaded when --file is not given.
const DefaultDenvfileName = "denvfile.cue"

var errNoUsableShell = errors.New("no usable shell found on this host")

// loadDenvfile parses the denvfile named by --file or the default name in
// the working directory.
func loadDenvfile() (*denvfile.Denvfile, error) {
	path := denvPath
	if path == "" {
		path = DefaultDenvfileName
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, issue.NewErrorContext().
			WithOperation("load denvfile").
			WithResource(path).
			WithSuggestion("Run 'denv init' to create a starter denvfile").
			WithSuggestion("Use --file to point at a denvfile elsewhere").
			Wrap(fmt.Errorf("denvfile not found: %s", path)).
			BuildError()
	}
	return denvfile.Parse(types.FilesystemPath(path))
}

// buildEngine loads the denvfile and wires it to the HTTP/file fetcher.
func buildEngine() (*engine.Engine, error) {
	doc, err := loadDenvfile()
	if err != nil {
		return nil, err
	}
	fetcher := registry.NewHTTPFetcher()
	if d := cfg.ManifestTimeoutDuration(); d > 0 {
		fetcher.Client.Timeout = d
	}
	return engine.New(doc, fetcher, engine.WithLogger(logger)), nil
}

// targetPlatforms returns the expansion targets: explicit flag values win,
// then configured defaults, then the host platform.
func targetPlatforms(flagValues []string) ([]platform.Platform, error) {
	specs := flagValues
	if len(specs) == 0 {
		specs = cfg.Platforms
	}
	if len(specs) == 0 {
		return []platform.Platform{platform.Current()}, nil
	}
	targets := make([]platform.Platform, 0, len(specs))
	for _, spec := range specs {
		p, err := platform.Parse(spec)
		if err != nil {
			return nil, err
		}
		targets = append(targets, p)
	}
	return targets, nil
}
