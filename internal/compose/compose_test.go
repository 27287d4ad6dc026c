// SPDX-License-Identifier: MPL-2.0

package compose_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/internal/registry"
	"github.com/denvtool/denv/pkg/denvfile"
	"github.com/denvtool/denv/pkg/platform"
)

var linuxAMD64 = platform.Platform{OS: "linux", Arch: "amd64"}

func testSnapshotSet(t *testing.T) compose.SnapshotSet {
	t.Helper()

	base := registry.NewSnapshot("base", "v1", []registry.Package{
		{Name: "compiler", Version: "14.1", StorePath: "/store/compiler-14.1", LibDirs: []string{"lib"}, BinDirs: []string{"bin"}},
		{Name: "tool", Version: "2.0", StorePath: "/store/tool-2.0", LibDirs: []string{"lib"}, BinDirs: []string{"bin"}},
		{Name: "hidden-one", Version: "1.0", Hidden: true},
	})
	extras := registry.NewSnapshot("extras", "v7", []registry.Package{
		{Name: "debugger", Version: "9.3", StorePath: "/store/debugger-9.3", BinDirs: []string{"bin"}},
		{Name: "linux-tracer", Version: "0.4", Platforms: []string{"linux/amd64"}},
	})
	return compose.SnapshotSet{
		Default:   "base",
		Snapshots: map[string]*registry.Snapshot{"base": base, "extras": extras},
	}
}

func TestCompose_JoinsLibDirsInDependencyOrder(t *testing.T) {
	t.Parallel()

	out := denvfile.Output{
		Dependencies: []denvfile.DependencyRef{"compiler", "tool"},
		EnvVars: []denvfile.EnvVarSpec{
			{Name: "LD_LIBRARY_PATH", Derive: denvfile.DeriveJoinLibDirs},
		},
	}
	desc, err := compose.Compose("dev", out, testSnapshotSet(t), linuxAMD64)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	want := "/store/compiler-14.1/lib:/store/tool-2.0/lib"
	if got := desc.Env()["LD_LIBRARY_PATH"]; got != want {
		t.Errorf("LD_LIBRARY_PATH = %q, want %q", got, want)
	}
}

func TestCompose_DedupesByPackageIdentity(t *testing.T) {
	t.Parallel()

	out := denvfile.Output{
		// Bare and qualified spellings of the same package.
		Dependencies: []denvfile.DependencyRef{"tool", "base:tool", "extras:debugger", "tool"},
	}
	desc, err := compose.Compose("dev", out, testSnapshotSet(t), linuxAMD64)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if len(desc.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies after dedup, got %d", len(desc.Dependencies))
	}
	if desc.Dependencies[0].Name != "tool" || desc.Dependencies[1].Name != "debugger" {
		t.Errorf("unexpected dependency order: %q then %q",
			desc.Dependencies[0].Name, desc.Dependencies[1].Name)
	}
}

func TestCompose_UnknownDependencyAborts(t *testing.T) {
	t.Parallel()

	out := denvfile.Output{
		Dependencies: []denvfile.DependencyRef{"compiler", "no-such-package"},
	}
	desc, err := compose.Compose("dev", out, testSnapshotSet(t), linuxAMD64)
	if desc != nil {
		t.Error("expected no partial descriptor on failure")
	}
	if !errors.Is(err, compose.ErrCompose) {
		t.Fatalf("expected ErrCompose, got %v", err)
	}
	var notFound *compose.DependencyNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DependencyNotFoundError, got %T", err)
	}
	if notFound.Ref != "no-such-package" {
		t.Errorf("Ref = %q, want %q", notFound.Ref, "no-such-package")
	}
}

func TestCompose_HiddenPackageIsNotResolvable(t *testing.T) {
	t.Parallel()

	out := denvfile.Output{Dependencies: []denvfile.DependencyRef{"hidden-one"}}
	_, err := compose.Compose("dev", out, testSnapshotSet(t), linuxAMD64)
	if !errors.Is(err, compose.ErrCompose) {
		t.Fatalf("expected ErrCompose for shadowed package, got %v", err)
	}
}

func TestCompose_PlatformRestrictedPackage(t *testing.T) {
	t.Parallel()

	out := denvfile.Output{Dependencies: []denvfile.DependencyRef{"extras:linux-tracer"}}

	if _, err := compose.Compose("dev", out, testSnapshotSet(t), linuxAMD64); err != nil {
		t.Fatalf("Compose on supported platform: %v", err)
	}

	// The package exists, so the failure is an unsupported platform, not a
	// missing dependency.
	darwin := platform.Platform{OS: "darwin", Arch: "arm64"}
	_, err := compose.Compose("dev", out, testSnapshotSet(t), darwin)
	if !errors.Is(err, compose.ErrCompose) {
		t.Fatalf("expected ErrCompose on unsupported platform, got %v", err)
	}
	var unsupported *compose.UnsupportedPlatformError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedPlatformError, got %T: %v", err, err)
	}
	if unsupported.Ref != "extras:linux-tracer" || unsupported.Platform != darwin {
		t.Errorf("error detail = (%q, %v)", unsupported.Ref, unsupported.Platform)
	}
	var notFound *compose.DependencyNotFoundError
	if errors.As(err, &notFound) {
		t.Error("platform-variant failure must not report a missing dependency")
	}
}

func TestCompose_LiteralAndActionOrder(t *testing.T) {
	t.Parallel()

	out := denvfile.Output{
		Dependencies: []denvfile.DependencyRef{"compiler"},
		EnvVars: []denvfile.EnvVarSpec{
			{Name: "CC", Value: "gcc"},
			{Name: "PATH_EXTRA", Derive: denvfile.DeriveJoinBinDirs},
		},
		StartupActions: []denvfile.StartupAction{
			{Name: "greet", Text: "echo hello"},
			{Name: "version", Text: "gcc --version"},
		},
	}
	desc, err := compose.Compose("dev", out, testSnapshotSet(t), linuxAMD64)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if got := desc.Env()["CC"]; got != "gcc" {
		t.Errorf("CC = %q, want %q", got, "gcc")
	}
	if got := desc.Env()["PATH_EXTRA"]; got != "/store/compiler-14.1/bin" {
		t.Errorf("PATH_EXTRA = %q", got)
	}
	if len(desc.StartupActions) != 2 || desc.StartupActions[0].Name != "greet" || desc.StartupActions[1].Text != "gcc --version" {
		t.Errorf("startup actions not preserved in order: %+v", desc.StartupActions)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	t.Parallel()

	out := denvfile.Output{
		Dependencies: []denvfile.DependencyRef{"compiler", "extras:debugger", "tool"},
		EnvVars: []denvfile.EnvVarSpec{
			{Name: "LD_LIBRARY_PATH", Derive: denvfile.DeriveJoinLibDirs},
			{Name: "EXTRA_BIN", Derive: denvfile.DeriveJoinBinDirs},
		},
		StartupActions: []denvfile.StartupAction{{Name: "motd", Text: "echo ready"}},
	}
	set := testSnapshotSet(t)

	first, err := compose.Compose("dev", out, set, linuxAMD64)
	if err != nil {
		t.Fatalf("first Compose: %v", err)
	}
	second, err := compose.Compose("dev", out, set, linuxAMD64)
	if err != nil {
		t.Fatalf("second Compose: %v", err)
	}

	a, err := first.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := second.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs must encode to byte-identical descriptors")
	}
}

func TestCompose_RecordsSourceDigests(t *testing.T) {
	t.Parallel()

	set := testSnapshotSet(t)
	out := denvfile.Output{Dependencies: []denvfile.DependencyRef{"compiler"}}
	desc, err := compose.Compose("dev", out, set, linuxAMD64)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if len(desc.SourceDigests) != 2 {
		t.Fatalf("expected digests for both sources, got %v", desc.SourceDigests)
	}
	if desc.SourceDigests["base"] != set.Snapshots["base"].Digest() {
		t.Error("base digest mismatch")
	}
}
