// SPDX-License-Identifier: MPL-2.0

package denvfile

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/denvtool/denv/pkg/cueutil"
	"github.com/denvtool/denv/pkg/types"
)

// DefaultFileName is the document file name looked up in a project directory.
const DefaultFileName = "denvfile.cue"

//go:embed denvfile_schema.cue
var denvfileSchema string

// Parse reads and parses a denvfile from the given path.
func Parse(path types.FilesystemPath) (*Denvfile, error) {
	pathStr := string(path)
	data, err := os.ReadFile(pathStr)
	if err != nil {
		return nil, fmt.Errorf("failed to read denvfile at %s: %w", path, err)
	}
	return ParseBytes(data, pathStr)
}

// ParseBytes parses denvfile content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Denvfile, error) {
	result, err := cueutil.ParseAndDecodeString[Denvfile](
		denvfileSchema,
		data,
		"#Denvfile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	doc := result.Value
	doc.FilePath = types.FilesystemPath(path)

	if errs := doc.Validate(); len(errs) > 0 {
		return nil, errs
	}

	return doc, nil
}
