// SPDX-License-Identifier: MPL-2.0

package denvfile

import (
	"fmt"
	"strings"

	"github.com/denvtool/denv/pkg/platform"
	"github.com/denvtool/denv/pkg/types"
)

type (
	// ValidationError represents a single validation issue found during
	// denvfile validation.
	ValidationError struct {
		// Field is the field path where the error occurred
		// (e.g., "overlays[0].source").
		Field string
		// Message is the human-readable error message.
		Message string
	}

	// ValidationErrors is a collection of validation errors that implements
	// the error interface. A validation pass collects ALL errors rather
	// than stopping at the first, so users can fix a document in one round.
	ValidationErrors []ValidationError
)

// Error implements the error interface for a single ValidationError.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Error implements the error interface by joining all messages.
func (errs ValidationErrors) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d errors:\n", len(errs))
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Validate checks the document's structural correctness beyond what the CUE
// schema enforces: cross-references between overlays/outputs and sources,
// name syntax, dependency reference syntax, and platform strings. It returns
// all issues found; an empty (nil) result means the document is valid.
func (d *Denvfile) Validate() ValidationErrors {
	var errs ValidationErrors

	if len(d.Sources) == 0 {
		errs = append(errs, ValidationError{Field: "sources", Message: "at least one source must be declared"})
	}
	for name := range d.Sources {
		if ok, nameErrs := types.SourceName(name).IsValid(); !ok {
			errs = append(errs, ValidationError{Field: "sources." + name, Message: nameErrs[0].Error()})
		}
	}

	errs = append(errs, d.validateOverlays()...)
	errs = append(errs, d.validateOutputs()...)

	return errs
}

func (d *Denvfile) validateOverlays() ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(d.Overlays))

	for i, o := range d.Overlays {
		field := fmt.Sprintf("overlays[%d]", i)
		if seen[o.Name] {
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate overlay name %q", o.Name)})
		}
		seen[o.Name] = true

		if _, ok := d.Sources[o.Source]; !ok {
			errs = append(errs, ValidationError{
				Field:   field + ".source",
				Message: fmt.Sprintf("overlay %q references undeclared source %q", o.Name, o.Source),
			})
		}

		for j, op := range o.Ops {
			opField := fmt.Sprintf("%s.ops[%d]", field, j)
			if ok, nameErrs := types.PackageName(op.Package).IsValid(); !ok {
				errs = append(errs, ValidationError{Field: opField + ".package", Message: nameErrs[0].Error()})
			}
			errs = append(errs, validatePlatformList(opField+".platforms", op.Platforms)...)
		}
	}
	return errs
}

func (d *Denvfile) validateOutputs() ValidationErrors {
	var errs ValidationErrors
	defaultSource := d.DefaultSourceName()

	if len(d.Outputs) == 0 {
		errs = append(errs, ValidationError{Field: "outputs", Message: "at least one output must be declared"})
	}

	for name, out := range d.Outputs {
		field := "outputs." + name
		if ok, nameErrs := types.OutputName(name).IsValid(); !ok {
			errs = append(errs, ValidationError{Field: field, Message: nameErrs[0].Error()})
		}

		for i, ref := range out.Dependencies {
			depField := fmt.Sprintf("%s.dependencies[%d]", field, i)
			if ok, refErrs := ref.IsValid(); !ok {
				errs = append(errs, ValidationError{Field: depField, Message: refErrs[0].Error()})
				continue
			}
			src, _ := ref.Split()
			switch {
			case src == "" && defaultSource == "":
				errs = append(errs, ValidationError{
					Field:   depField,
					Message: fmt.Sprintf("bare reference %q requires a single source or one named \"default\"", ref),
				})
			case src != "":
				if _, ok := d.Sources[src]; !ok {
					errs = append(errs, ValidationError{
						Field:   depField,
						Message: fmt.Sprintf("reference %q names undeclared source %q", ref, src),
					})
				}
			}
		}

		for i, spec := range out.EnvVars {
			envField := fmt.Sprintf("%s.env_vars[%d]", field, i)
			if spec.Derive == DeriveLiteral || spec.Derive == "" {
				if spec.Value == "" {
					errs = append(errs, ValidationError{
						Field:   envField,
						Message: fmt.Sprintf("literal variable %q must declare a value", spec.Name),
					})
				}
			} else if spec.Value != "" {
				errs = append(errs, ValidationError{
					Field:   envField,
					Message: fmt.Sprintf("derived variable %q must not declare a literal value", spec.Name),
				})
			}
		}

		actionNames := make(map[string]bool, len(out.StartupActions))
		for i, action := range out.StartupActions {
			if actionNames[action.Name] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.startup_actions[%d]", field, i),
					Message: fmt.Sprintf("duplicate startup action name %q", action.Name),
				})
			}
			actionNames[action.Name] = true
		}

		errs = append(errs, validatePlatformList(field+".platforms", out.Platforms)...)
	}
	return errs
}

func validatePlatformList(field string, platforms []string) ValidationErrors {
	var errs ValidationErrors
	for i, p := range platforms {
		if _, err := platform.Parse(p); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: err.Error(),
			})
		}
	}
	return errs
}
