// SPDX-License-Identifier: MPL-2.0

package denvfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/denvtool/denv/pkg/denvfile"
	"github.com/denvtool/denv/pkg/types"
)

const validDoc = `
sources: {
	base: {
		locator:  "https://pkgs.example.org/base/manifest.json"
		revision: "a1b2c3d4"
	}
}

overlays: [{
	name:   "extra-tools"
	source: "base"
	ops: [{
		op:      "add"
		package: "tool"
		version: "1.2.0"
		lib_dirs: ["lib"]
	}]
}]

outputs: {
	dev: {
		description:  "default development shell"
		dependencies: ["base:compiler", "tool"]
		env_vars: [{
			name:   "LD_LIBRARY_PATH"
			derive: "join-lib-dirs"
		}]
		startup_actions: [{
			name: "ll"
			text: "alias ll='ls -la'"
		}]
	}
}
`

func TestParseBytes(t *testing.T) {
	t.Parallel()

	doc, err := denvfile.ParseBytes([]byte(validDoc), "denvfile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	if len(doc.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(doc.Sources))
	}
	base, ok := doc.Sources["base"]
	if !ok {
		t.Fatal("source \"base\" not found")
	}
	if base.Revision != "a1b2c3d4" {
		t.Errorf("base revision = %q, want %q", base.Revision, "a1b2c3d4")
	}

	if len(doc.Overlays) != 1 {
		t.Fatalf("expected 1 overlay, got %d", len(doc.Overlays))
	}
	if doc.Overlays[0].Ops[0].Op != denvfile.OpAdd {
		t.Errorf("overlay op = %q, want %q", doc.Overlays[0].Ops[0].Op, denvfile.OpAdd)
	}

	dev, ok := doc.Outputs["dev"]
	if !ok {
		t.Fatal("output \"dev\" not found")
	}
	if len(dev.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies, got %d", len(dev.Dependencies))
	}
	if dev.Dependencies[0] != "base:compiler" || dev.Dependencies[1] != "tool" {
		t.Errorf("dependencies = %v, want [base:compiler tool]", dev.Dependencies)
	}
	if dev.EnvVars[0].Derive != denvfile.DeriveJoinLibDirs {
		t.Errorf("env var derive = %q, want %q", dev.EnvVars[0].Derive, denvfile.DeriveJoinLibDirs)
	}
	if dev.StartupActions[0].Text != "alias ll='ls -la'" {
		t.Errorf("startup action text not preserved verbatim: %q", dev.StartupActions[0].Text)
	}
}

func TestParseBytes_DefaultDeriveIsLiteral(t *testing.T) {
	t.Parallel()

	doc := `
sources: base: locator: "file:///srv/pkgs/manifest.json"
outputs: dev: {
	dependencies: ["compiler"]
	env_vars: [{name: "CC", value: "gcc"}]
}
`
	parsed, err := denvfile.ParseBytes([]byte(doc), "denvfile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if got := parsed.Outputs["dev"].EnvVars[0].Derive; got != denvfile.DeriveLiteral {
		t.Errorf("default derive = %q, want %q", got, denvfile.DeriveLiteral)
	}
}

func TestParseBytes_SchemaRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown overlay op",
			doc: `
sources: base: locator: "file:///m.json"
overlays: [{name: "o", source: "base", ops: [{op: "delete", package: "p"}]}]
outputs: dev: dependencies: ["p"]
`,
		},
		{
			name: "empty locator",
			doc: `
sources: base: locator: ""
outputs: dev: dependencies: ["p"]
`,
		},
		{
			name: "empty dependency list",
			doc: `
sources: base: locator: "file:///m.json"
outputs: dev: dependencies: []
`,
		},
		{
			name: "overlay with no ops",
			doc: `
sources: base: locator: "file:///m.json"
overlays: [{name: "o", source: "base", ops: []}]
outputs: dev: dependencies: ["p"]
`,
		},
		{
			name: "unknown derive rule",
			doc: `
sources: base: locator: "file:///m.json"
outputs: dev: {
	dependencies: ["p"]
	env_vars: [{name: "X", derive: "join-man-dirs"}]
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := denvfile.ParseBytes([]byte(tt.doc), "denvfile.cue"); err == nil {
				t.Error("expected schema rejection, got nil error")
			}
		})
	}
}

func TestParse_FromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, denvfile.DefaultFileName)
	if err := os.WriteFile(path, []byte(validDoc), 0o600); err != nil {
		t.Fatalf("failed to write denvfile: %v", err)
	}

	doc, err := denvfile.Parse(types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.FilePath != types.FilesystemPath(path) {
		t.Errorf("FilePath = %q, want %q", doc.FilePath, path)
	}
}

func TestParse_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := denvfile.Parse(types.FilesystemPath(filepath.Join(t.TempDir(), "missing.cue")))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read denvfile") {
		t.Errorf("unexpected error message: %v", err)
	}
}
