// SPDX-License-Identifier: MPL-2.0

// Package cli contains all denv commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/denvtool/denv/internal/config"
	"github.com/denvtool/denv/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	verbose  bool
	cfgFile  string
	denvPath string

	// cfg holds the loaded tool configuration for command handlers.
	cfg = config.DefaultConfig()

	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	rootCmd = &cobra.Command{
		Use:   "denv",
		Short: "A declarative development environment composer",
		Long: TitleStyle.Render("denv") + SubtitleStyle.Render(" - A declarative development environment composer") + `

denv turns a declarative denvfile into reproducible developer
environments. Sources pin package sets at exact revisions, overlays
rewrite them without mutation, and named outputs compose dependencies,
environment variables and startup actions into a shell you can step
into - identically on every machine and platform.

Environment definitions live in 'denvfile.cue' files using CUE format.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Create a denvfile.cue in your project directory
  2. Declare sources, outputs and overlays
  3. Enter an environment with: denv shell [output]

` + SubtitleStyle.Render("Examples:") + `
  denv shell                Enter the default output's environment
  denv shell backend        Enter the 'backend' environment
  denv resolve --all        Compose every output for every platform
  denv validate             Check the denvfile without composing
  denv init                 Create a starter denvfile.cue`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/denv/config.cue)")
	rootCmd.PersistentFlags().StringVarP(&denvPath, "file", "f", "", "denvfile to use (default is ./denvfile.cue)")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		printGuidance(err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// initRootConfig loads the tool configuration before any command runs.
func initRootConfig() {
	loaded, _, err := config.Load(context.Background(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		return
	}
	cfg = loaded

	if cfg.UI.Verbose {
		verbose = true
	}
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}
