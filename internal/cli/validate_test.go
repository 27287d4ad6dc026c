// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const brokenActionDenvfile = `
sources: {
	base: locator: "https://example.com/manifests/base.json"
}

outputs: {
	dev: {
		dependencies: ["compiler"]
		startup_actions: [
			{name: "broken", text: "if then fi ((("},
		]
	}
}
`

func writeDenvfile(t *testing.T, content string) func() {
	t.Helper()
	path := filepath.Join(t.TempDir(), "denvfile.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write denvfile: %v", err)
	}
	prev := denvPath
	denvPath = path
	return func() { denvPath = prev }
}

func TestValidate_OpaqueActionTextPassesByDefault(t *testing.T) {
	restore := writeDenvfile(t, brokenActionDenvfile)
	defer restore()
	validateCheckActions = false

	if err := runValidate(validateCmd, nil); err != nil {
		t.Fatalf("action text is opaque without --check-actions: %v", err)
	}
}

func TestValidate_CheckActionsRejectsBadSyntax(t *testing.T) {
	restore := writeDenvfile(t, brokenActionDenvfile)
	defer restore()
	validateCheckActions = true
	defer func() { validateCheckActions = false }()

	if err := runValidate(validateCmd, nil); err == nil {
		t.Fatal("--check-actions should reject unparsable startup actions")
	}
}

func TestValidate_CheckActionsAcceptsGoodSyntax(t *testing.T) {
	restore := writeDenvfile(t, `
sources: {
	base: locator: "https://example.com/manifests/base.json"
}

outputs: {
	dev: {
		dependencies: ["compiler"]
		startup_actions: [
			{name: "greet", text: "echo \"environment ready\""},
		]
	}
}
`)
	defer restore()
	validateCheckActions = true
	defer func() { validateCheckActions = false }()

	if err := runValidate(validateCmd, nil); err != nil {
		t.Fatalf("well-formed actions should pass --check-actions: %v", err)
	}
}
