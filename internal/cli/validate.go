// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/internal/materialize"
	"github.com/denvtool/denv/pkg/denvfile"
)

var (
	validateCheckActions bool

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Check the denvfile without composing anything",
		Long: `Parse the denvfile, validate it against the schema and check
cross-references: every dependency names a declared source, overlay
targets exist, environment variable rules hold.

Startup action text is normally opaque; --check-actions additionally
parses each output's actions as POSIX shell syntax.

Validation is purely local; no source is fetched.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
)

func init() {
	validateCmd.Flags().BoolVar(&validateCheckActions, "check-actions", false, "parse startup actions as POSIX shell syntax")
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := loadDenvfile()
	if err != nil {
		var verrs denvfile.ValidationErrors
		if errors.As(err, &verrs) {
			fmt.Println(ErrorStyle.Render("✗ denvfile is invalid"))
			for _, v := range verrs {
				fmt.Printf("  %s %s\n", NameStyle.Render(v.Field+":"), v.Message)
			}
		}
		return classify(err)
	}

	if validateCheckActions {
		if err := checkStartupActions(doc); err != nil {
			return classify(err)
		}
	}

	fmt.Println(SuccessStyle.Render("✓ denvfile is valid"))
	fmt.Printf("  %s %d\n", SubtitleStyle.Render("sources: "), len(doc.Sources))
	fmt.Printf("  %s %d\n", SubtitleStyle.Render("overlays:"), len(doc.Overlays))
	fmt.Printf("  %s %d\n", SubtitleStyle.Render("outputs: "), len(doc.Outputs))
	return nil
}

// checkStartupActions parses each output's startup prologue with the
// embedded shell interpreter. No source is resolved; derived variables
// render as empty exports, which is enough for a syntax check.
func checkStartupActions(doc *denvfile.Denvfile) error {
	names := make([]string, 0, len(doc.Outputs))
	for name := range doc.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	vm := materialize.NewVirtualMaterializer()
	var broken []string
	for _, name := range names {
		out := doc.Outputs[name]
		desc := &compose.Descriptor{Output: name}
		for _, spec := range out.EnvVars {
			desc.EnvVars = append(desc.EnvVars, compose.Binding{Name: spec.Name, Value: spec.Value})
		}
		for _, a := range out.StartupActions {
			desc.StartupActions = append(desc.StartupActions, compose.Action{Name: a.Name, Text: a.Text})
		}
		if err := vm.Validate(desc); err != nil {
			fmt.Println(ErrorStyle.Render(fmt.Sprintf("✗ output %q: %v", name, err)))
			broken = append(broken, name)
		}
	}
	if len(broken) > 0 {
		return fmt.Errorf("startup actions do not parse in %d output(s)", len(broken))
	}
	return nil
}
