// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/internal/matrix"
)

var (
	resolvePlatforms []string
	resolveAll       bool
	resolveFormat    string
	resolveOutDir    string

	resolveCmd = &cobra.Command{
		Use:   "resolve [output]",
		Short: "Compose outputs into environment descriptors",
		Long: `Compose outputs into canonical environment descriptors without
materializing anything.

Each requested output is expanded across the target platforms and the
resulting descriptors are printed (or written with --out-dir). Identical
inputs always produce byte-identical descriptors, so the output is safe
to commit, diff and cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResolve,
	}
)

func init() {
	resolveCmd.Flags().StringArrayVarP(&resolvePlatforms, "platform", "p", nil, `target platform as "os/arch" (repeatable)`)
	resolveCmd.Flags().BoolVarP(&resolveAll, "all", "a", false, "compose every output in the denvfile")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "toml", "descriptor encoding (toml, json)")
	resolveCmd.Flags().StringVarP(&resolveOutDir, "out-dir", "o", "", "write descriptors to this directory instead of stdout")
}

func runResolve(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine()
	if err != nil {
		return classify(err)
	}
	targets, err := targetPlatforms(resolvePlatforms)
	if err != nil {
		return classify(err)
	}

	if resolveFormat != "toml" && resolveFormat != "json" {
		return classify(fmt.Errorf("unknown format %q (want toml or json)", resolveFormat))
	}

	var outputs []string
	switch {
	case resolveAll:
		outputs = eng.Outputs()
	case len(args) > 0:
		outputs = []string{args[0]}
	default:
		outputs = []string{cfg.DefaultOutput}
	}

	var failures int
	for _, output := range outputs {
		results, expandErr := eng.ExpandOutput(cmd.Context(), output, targets)
		if results == nil && expandErr != nil {
			return classify(expandErr)
		}
		for _, r := range results {
			if r.Err != nil {
				failures++
				fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+r.Err.Error())
				continue
			}
			if err := emitDescriptor(r); err != nil {
				return classify(err)
			}
		}
	}
	if failures > 0 {
		return classify(fmt.Errorf("%w: %d target(s) failed", compose.ErrCompose, failures))
	}
	return nil
}

func emitDescriptor(r matrix.Result) error {
	var data []byte
	var err error
	if resolveFormat == "json" {
		data, err = r.Descriptor.EncodeJSON()
	} else {
		data, err = r.Descriptor.Encode()
	}
	if err != nil {
		return err
	}

	if resolveOutDir == "" {
		header := fmt.Sprintf("# %s @ %s\n", r.Descriptor.Output, r.Descriptor.Platform)
		fmt.Print(SubtitleStyle.Render(header))
		fmt.Println(string(data))
		return nil
	}

	if err := os.MkdirAll(resolveOutDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s-%s.%s", r.Descriptor.Output,
		strings.ReplaceAll(r.Descriptor.Platform, "/", "-"), resolveFormat)
	return os.WriteFile(filepath.Join(resolveOutDir, name), data, 0o644)
}
