// SPDX-License-Identifier: MPL-2.0

package denvfile_test

import (
	"errors"
	"testing"

	"github.com/denvtool/denv/pkg/denvfile"
)

func TestDependencyRef_Split(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref        denvfile.DependencyRef
		wantSource string
		wantPkg    string
	}{
		{ref: "base:compiler", wantSource: "base", wantPkg: "compiler"},
		{ref: "tool", wantSource: "", wantPkg: "tool"},
		{ref: "base:", wantSource: "base", wantPkg: ""},
	}

	for _, tt := range tests {
		src, pkg := tt.ref.Split()
		if src != tt.wantSource || pkg != tt.wantPkg {
			t.Errorf("DependencyRef(%q).Split() = (%q, %q), want (%q, %q)",
				tt.ref, src, pkg, tt.wantSource, tt.wantPkg)
		}
	}
}

func TestDependencyRef_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  denvfile.DependencyRef
		want bool
	}{
		{name: "qualified", ref: "base:compiler", want: true},
		{name: "bare", ref: "tool", want: true},
		{name: "empty", ref: "", want: false},
		{name: "whitespace", ref: "   ", want: false},
		{name: "missing package", ref: "base:", want: false},
		{name: "missing source", ref: ":compiler", want: false},
		{name: "double separator", ref: "a:b:c", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.ref.IsValid()
			if ok != tt.want {
				t.Errorf("DependencyRef(%q).IsValid() = %v, want %v", tt.ref, ok, tt.want)
			}
			if !ok && !errors.Is(errs[0], denvfile.ErrInvalidDependencyRef) {
				t.Errorf("error does not wrap ErrInvalidDependencyRef: %v", errs[0])
			}
		})
	}
}
