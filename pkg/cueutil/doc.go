// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The package consolidates the 3-step CUE parsing pattern used by the
// denvfile and config packages:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to Go struct
//
// # Usage
//
//	result, err := cueutil.ParseAndDecodeString[denvfile.Denvfile](
//	    schema,
//	    data,
//	    "#Denvfile",
//	    cueutil.WithFilename("denvfile.cue"),
//	)
package cueutil
