// SPDX-License-Identifier: MPL-2.0

package types_test

import (
	"errors"
	"testing"

	"github.com/denvtool/denv/pkg/types"
)

func TestSourceName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value types.SourceName
		want  bool
	}{
		{name: "simple name", value: "nixpkgs", want: true},
		{name: "name with dash", value: "rust-overlay", want: true},
		{name: "name with dot", value: "pkgs.unstable", want: true},
		{name: "empty", value: "", want: false},
		{name: "contains colon", value: "base:compiler", want: false},
		{name: "contains space", value: "my source", want: false},
		{name: "contains tab", value: "a\tb", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.value.IsValid()
			if ok != tt.want {
				t.Errorf("SourceName(%q).IsValid() = %v, want %v", tt.value, ok, tt.want)
			}
			if !ok {
				if len(errs) != 1 {
					t.Fatalf("expected exactly one error, got %d", len(errs))
				}
				if !errors.Is(errs[0], types.ErrInvalidName) {
					t.Errorf("error does not wrap ErrInvalidName: %v", errs[0])
				}
			}
		})
	}
}

func TestPackageName_IsValid(t *testing.T) {
	t.Parallel()

	if ok, _ := types.PackageName("gcc").IsValid(); !ok {
		t.Error("expected gcc to be a valid package name")
	}
	if ok, _ := types.PackageName("").IsValid(); ok {
		t.Error("expected empty package name to be invalid")
	}
}

func TestInvalidNameError_Message(t *testing.T) {
	t.Parallel()

	_, errs := types.OutputName("dev shell").IsValid()
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %d", len(errs))
	}
	var nameErr *types.InvalidNameError
	if !errors.As(errs[0], &nameErr) {
		t.Fatalf("expected InvalidNameError, got %T", errs[0])
	}
	if nameErr.Kind != "output" {
		t.Errorf("Kind = %q, want %q", nameErr.Kind, "output")
	}
}
