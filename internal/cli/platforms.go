// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/denvtool/denv/pkg/platform"
)

var (
	platformsTargets []string

	platformsCmd = &cobra.Command{
		Use:   "platforms [output]",
		Short: "Show platform support and expand the target matrix",
		Long: `Without an argument, show the host platform and which outputs
support it. With an output name, expand the output across the target
platforms and report each target's result. Unsupported targets are
warnings; the command fails only when no target succeeds.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlatforms,
	}
)

func init() {
	platformsCmd.Flags().StringArrayVarP(&platformsTargets, "platform", "p", nil, `target platform as "os/arch" (repeatable)`)
}

func runPlatforms(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return runPlatformsExpand(cmd, args[0])
	}

	host := platform.Current()
	fmt.Printf("%s %s (%s)\n\n",
		SubtitleStyle.Render("host:"), NameStyle.Render(host.String()), host.Triple())

	doc, err := loadDenvfile()
	if err != nil {
		return classify(err)
	}

	names := maps.Keys(doc.Outputs)
	slices.Sort(names)
	for _, name := range names {
		out := doc.Outputs[name]
		support := "all platforms"
		if len(out.Platforms) > 0 {
			support = strings.Join(out.Platforms, ", ")
		}
		marker := SuccessStyle.Render("✓")
		if !out.SupportsPlatform(host.String()) {
			marker = ErrorStyle.Render("✗")
		}
		fmt.Printf("%s %s  %s\n", marker, NameStyle.Render(name), SubtitleStyle.Render(support))
	}
	return nil
}

// runPlatformsExpand composes the output for every target and reports each
// result. Per-target failures are warnings; only a clean sweep of failures
// fails the command.
func runPlatformsExpand(cmd *cobra.Command, output string) error {
	eng, err := buildEngine()
	if err != nil {
		return classify(err)
	}
	targets, err := targetPlatforms(platformsTargets)
	if err != nil {
		return classify(err)
	}

	results, err := eng.ExpandOutput(cmd.Context(), output, targets)
	if results == nil && err != nil {
		return classify(err)
	}

	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s %s  %s\n",
				WarningStyle.Render("!"), NameStyle.Render(r.Platform.String()),
				SubtitleStyle.Render(r.Err.Error()))
			continue
		}
		succeeded++
		fmt.Printf("%s %s  %s\n",
			SuccessStyle.Render("✓"), NameStyle.Render(r.Platform.String()),
			SubtitleStyle.Render(fmt.Sprintf("%d dependencies, digest-stable", len(r.Descriptor.Dependencies))))
	}

	if succeeded == 0 {
		return classify(fmt.Errorf("output %q composed for none of %d target(s): %w",
			output, len(targets), err))
	}
	return nil
}
