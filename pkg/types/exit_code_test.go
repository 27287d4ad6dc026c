// SPDX-License-Identifier: MPL-2.0

package types_test

import (
	"errors"
	"testing"

	"github.com/denvtool/denv/pkg/types"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    types.ExitCode
		wantErr bool
	}{
		{name: "success", code: 0, wantErr: false},
		{name: "generic failure", code: 1, wantErr: false},
		{name: "max valid", code: 255, wantErr: false},
		{name: "negative", code: -1, wantErr: true},
		{name: "too large", code: 256, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.code.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ExitCode(%d).Validate() error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, types.ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCode_TaxonomyIsDistinct(t *testing.T) {
	t.Parallel()

	codes := []types.ExitCode{
		types.ExitSuccess,
		types.ExitFailure,
		types.ExitResolution,
		types.ExitCompose,
		types.ExitMaterialize,
	}
	seen := make(map[types.ExitCode]bool, len(codes))
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d assigned to more than one error class", c)
		}
		seen[c] = true
		if err := c.Validate(); err != nil {
			t.Errorf("exit code %d failed validation: %v", c, err)
		}
	}
	if !types.ExitSuccess.IsSuccess() {
		t.Error("ExitSuccess.IsSuccess() = false")
	}
	if types.ExitResolution.IsSuccess() {
		t.Error("ExitResolution.IsSuccess() = true")
	}
}
