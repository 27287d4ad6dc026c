// SPDX-License-Identifier: MPL-2.0

package overlay_test

import (
	"errors"
	"testing"

	"github.com/denvtool/denv/internal/overlay"
	"github.com/denvtool/denv/internal/registry"
	"github.com/denvtool/denv/pkg/denvfile"
)

func baseSnapshot() *registry.Snapshot {
	return registry.NewSnapshot("base", "rev1", []registry.Package{
		{Name: "compiler", Version: "14.1", LibDirs: []string{"lib"}},
		{Name: "linker", Version: "2.42", LibDirs: []string{"lib"}},
	})
}

func TestApply_Add(t *testing.T) {
	t.Parallel()

	result, err := overlay.Apply(baseSnapshot(), []denvfile.Overlay{{
		Name:   "extra",
		Source: "base",
		Ops: []denvfile.OverlayOp{
			{Op: denvfile.OpAdd, Package: "tool", Version: "1.2.0", LibDirs: []string{"lib"}},
		},
	}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	tool, ok := result.Lookup("tool")
	if !ok {
		t.Fatal("added package not found")
	}
	if tool.Version != "1.2.0" {
		t.Errorf("tool version = %q, want 1.2.0", tool.Version)
	}
	if result.Len() != 3 {
		t.Errorf("Len() = %d, want 3", result.Len())
	}
}

func TestApply_BaseNotMutated(t *testing.T) {
	t.Parallel()

	base := baseSnapshot()
	digestBefore := base.Digest()

	result, err := overlay.Apply(base, []denvfile.Overlay{{
		Name:   "o",
		Source: "base",
		Ops:    []denvfile.OverlayOp{{Op: denvfile.OpAdd, Package: "tool", Version: "1"}},
	}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if base.Digest() != digestBefore {
		t.Error("base snapshot digest changed after Apply")
	}
	if _, ok := base.Lookup("tool"); ok {
		t.Error("base snapshot gained an entry after Apply")
	}
	if result == base {
		t.Error("Apply with ops must return a new snapshot")
	}
}

func TestApply_NoOverlaysReturnsBase(t *testing.T) {
	t.Parallel()

	base := baseSnapshot()
	result, err := overlay.Apply(base, nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result != base {
		t.Error("Apply with no overlays should return the base snapshot unchanged")
	}
}

func TestApply_ReplaceRetainsUnsetFields(t *testing.T) {
	t.Parallel()

	result, err := overlay.Apply(baseSnapshot(), []denvfile.Overlay{{
		Name:   "bump",
		Source: "base",
		Ops:    []denvfile.OverlayOp{{Op: denvfile.OpReplace, Package: "compiler", Version: "15.0"}},
	}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	compiler, ok := result.Lookup("compiler")
	if !ok {
		t.Fatal("replaced package not found")
	}
	if compiler.Version != "15.0" {
		t.Errorf("version = %q, want 15.0", compiler.Version)
	}
	if len(compiler.LibDirs) != 1 || compiler.LibDirs[0] != "lib" {
		t.Errorf("lib dirs not retained from previous entry: %v", compiler.LibDirs)
	}
}

func TestApply_ReplaceMissingTarget(t *testing.T) {
	t.Parallel()

	_, err := overlay.Apply(baseSnapshot(), []denvfile.Overlay{{
		Name:   "bad",
		Source: "base",
		Ops:    []denvfile.OverlayOp{{Op: denvfile.OpReplace, Package: "ghost", Version: "1"}},
	}})

	var missingErr *overlay.TargetMissingError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected TargetMissingError, got %T: %v", err, err)
	}
	if missingErr.Overlay != "bad" || missingErr.Package != "ghost" {
		t.Errorf("error detail = (%q, %q)", missingErr.Overlay, missingErr.Package)
	}
	if !errors.Is(err, overlay.ErrOverlay) {
		t.Error("error does not wrap ErrOverlay")
	}
}

func TestApply_Shadow(t *testing.T) {
	t.Parallel()

	result, err := overlay.Apply(baseSnapshot(), []denvfile.Overlay{{
		Name:   "hide",
		Source: "base",
		Ops:    []denvfile.OverlayOp{{Op: denvfile.OpShadow, Package: "linker"}},
	}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if _, ok := result.Lookup("linker"); ok {
		t.Error("shadowed entry still visible")
	}
	if !result.Contains("linker") {
		t.Error("shadowed entry deleted instead of hidden")
	}
}

func TestApply_ShadowMissingIsNoop(t *testing.T) {
	t.Parallel()

	base := baseSnapshot()
	result, err := overlay.Apply(base, []denvfile.Overlay{{
		Name:   "hide",
		Source: "base",
		Ops:    []denvfile.OverlayOp{{Op: denvfile.OpShadow, Package: "ghost"}},
	}})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.Len() != base.Len() {
		t.Errorf("shadow of absent entry changed the set size: %d vs %d", result.Len(), base.Len())
	}
}

func TestApply_OrderSensitivity(t *testing.T) {
	t.Parallel()

	addV1 := denvfile.Overlay{
		Name: "v1", Source: "base",
		Ops: []denvfile.OverlayOp{{Op: denvfile.OpAdd, Package: "tool", Version: "1.0"}},
	}
	addV2 := denvfile.Overlay{
		Name: "v2", Source: "base",
		Ops: []denvfile.OverlayOp{{Op: denvfile.OpAdd, Package: "tool", Version: "2.0"}},
	}

	firstThenSecond, err := overlay.Apply(baseSnapshot(), []denvfile.Overlay{addV1, addV2})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	secondThenFirst, err := overlay.Apply(baseSnapshot(), []denvfile.Overlay{addV2, addV1})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	tool, _ := firstThenSecond.Lookup("tool")
	if tool.Version != "2.0" {
		t.Errorf("last-applied overlay should win, got version %q", tool.Version)
	}
	tool, _ = secondThenFirst.Lookup("tool")
	if tool.Version != "1.0" {
		t.Errorf("last-applied overlay should win, got version %q", tool.Version)
	}
}

func TestApply_DisjointOverlaysCommute(t *testing.T) {
	t.Parallel()

	addTool := denvfile.Overlay{
		Name: "tool", Source: "base",
		Ops: []denvfile.OverlayOp{{Op: denvfile.OpAdd, Package: "tool", Version: "1.0"}},
	}
	addDebugger := denvfile.Overlay{
		Name: "debugger", Source: "base",
		Ops: []denvfile.OverlayOp{{Op: denvfile.OpAdd, Package: "debugger", Version: "9.1"}},
	}

	ab, err := overlay.Apply(baseSnapshot(), []denvfile.Overlay{addTool, addDebugger})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	ba, err := overlay.Apply(baseSnapshot(), []denvfile.Overlay{addDebugger, addTool})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if ab.Digest() != ba.Digest() {
		t.Error("overlays touching disjoint names must commute")
	}
}
