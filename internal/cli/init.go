// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	initForce bool

	initCmd = &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a starter denvfile in the current directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing denvfile")
}

const starterDenvfile = `// denv environment definition.
version: "1"

sources: {
	base: {
		locator:  "https://example.com/manifests/base.json"
		revision: "2024.05"
	}
}

outputs: {
	dev: {
		description: "Day-to-day development environment"
		dependencies: ["compiler", "formatter"]
		env_vars: [
			{name: "LD_LIBRARY_PATH", derive: "join-lib-dirs"},
			{name: "PROJECT_ENV", value: "dev"},
		]
		startup_actions: [
			{name: "greet", text: "echo \"environment ready\""},
		]
	}
}
`

func runInit(cmd *cobra.Command, args []string) error {
	filename := DefaultDenvfileName
	if len(args) > 0 {
		filename = args[0]
	}

	if _, err := os.Stat(filename); err == nil && !initForce {
		return classify(fmt.Errorf("%s already exists (use --force to overwrite)", filename))
	}
	if err := os.WriteFile(filename, []byte(starterDenvfile), 0o644); err != nil {
		return classify(fmt.Errorf("write %s: %w", filename, err))
	}

	fmt.Println(SuccessStyle.Render("✓ created ") + NameStyle.Render(filename))
	fmt.Println(SubtitleStyle.Render("  edit the sources, then try: denv validate && denv shell"))
	return nil
}
