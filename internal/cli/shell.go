// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/denvtool/denv/internal/materialize"
	"github.com/denvtool/denv/pkg/platform"
	"github.com/denvtool/denv/pkg/types"
)

var (
	shellMaterializer string
	shellWorkDir      string

	shellCmd = &cobra.Command{
		Use:   "shell [output]",
		Short: "Enter a composed environment",
		Long: `Compose the named output for the current platform and step into it.

The environment's variables are derived from the resolved dependency
set, its startup actions run first, and the shell you land in sees
exactly what the denvfile declares. With no argument the configured
default output is used, falling back to the denvfile's only output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShell,
	}
)

func init() {
	shellCmd.Flags().StringVarP(&shellMaterializer, "materializer", "m", "", "materializer to use (shell, virtual, mock)")
	shellCmd.Flags().StringVarP(&shellWorkDir, "workdir", "w", "", "directory the environment starts in")
}

func runShell(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return classify(err)
	}

	output := cfg.DefaultOutput
	if len(args) > 0 {
		output = args[0]
	}

	desc, err := eng.ComposeOutput(cmd.Context(), output, platform.Current())
	if err != nil {
		return classify(err)
	}
	logger.Debug("composed",
		"output", desc.Output,
		"platform", desc.Platform,
		"dependencies", len(desc.Dependencies))

	name := shellMaterializer
	if name == "" {
		name = cfg.Materializer
	}
	m, err := materialize.ForName(name)
	if err != nil {
		return classify(err)
	}
	if !m.Available() {
		return classify(&materialize.Error{
			Materializer: m.Name(),
			Cause:        errNoUsableShell,
		})
	}

	result := m.Materialize(cmd.Context(), desc, materialize.Options{
		WorkDir:     shellWorkDir,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: true,
	})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.ExitCode != 0 {
		// The environment exited non-zero on its own; pass it through.
		return &ExitError{Code: types.ExitCode(result.ExitCode)}
	}
	return nil
}
