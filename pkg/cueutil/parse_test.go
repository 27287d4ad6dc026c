// SPDX-License-Identifier: MPL-2.0

package cueutil_test

import (
	"strings"
	"testing"

	"github.com/denvtool/denv/pkg/cueutil"
)

const testSchema = `
#Thing: {
	name:    string & !=""
	count:   int & >=0
	comment?: string
}
`

type thing struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Comment string `json:"comment,omitempty"`
}

func TestParseAndDecodeString(t *testing.T) {
	t.Parallel()

	result, err := cueutil.ParseAndDecodeString[thing](
		testSchema,
		[]byte(`name: "gcc", count: 2`),
		"#Thing",
		cueutil.WithFilename("thing.cue"),
	)
	if err != nil {
		t.Fatalf("ParseAndDecodeString() error = %v", err)
	}
	if result.Value.Name != "gcc" {
		t.Errorf("Name = %q, want %q", result.Value.Name, "gcc")
	}
	if result.Value.Count != 2 {
		t.Errorf("Count = %d, want 2", result.Value.Count)
	}
}

func TestParseAndDecodeString_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := cueutil.ParseAndDecodeString[thing](
		testSchema,
		[]byte(`name: "gcc", count: -1`),
		"#Thing",
		cueutil.WithFilename("thing.cue"),
	)
	if err == nil {
		t.Fatal("expected error for negative count, got nil")
	}
	if !strings.Contains(err.Error(), "thing.cue") {
		t.Errorf("error %q does not mention the filename", err)
	}
}

func TestParseAndDecodeString_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := cueutil.ParseAndDecodeString[thing](
		testSchema,
		[]byte(`name: "gcc", {{{`),
		"#Thing",
	)
	if err == nil {
		t.Fatal("expected error for malformed CUE, got nil")
	}
}

func TestParseAndDecodeString_UnknownDefinition(t *testing.T) {
	t.Parallel()

	_, err := cueutil.ParseAndDecodeString[thing](
		testSchema,
		[]byte(`name: "gcc", count: 0`),
		"#Missing",
	)
	if err == nil {
		t.Fatal("expected error for unknown schema definition, got nil")
	}
	if !strings.Contains(err.Error(), "internal error") {
		t.Errorf("error %q should be reported as internal", err)
	}
}

func TestParseAndDecodeString_FileSizeLimit(t *testing.T) {
	t.Parallel()

	_, err := cueutil.ParseAndDecodeString[thing](
		testSchema,
		[]byte(`name: "gcc", count: 0`),
		"#Thing",
		cueutil.WithMaxFileSize(4),
	)
	if err == nil {
		t.Fatal("expected error when document exceeds size limit, got nil")
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := cueutil.CheckFileSize(make([]byte, 100), 100, "test.cue"); err != nil {
		t.Errorf("exact-size data should pass: %v", err)
	}
	if err := cueutil.CheckFileSize(make([]byte, 101), 100, "test.cue"); err == nil {
		t.Error("oversized data should fail")
	}
	if err := cueutil.CheckFileSize(nil, 100, "test.cue"); err != nil {
		t.Errorf("empty data should pass: %v", err)
	}
}
