// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/internal/remote"
	"github.com/denvtool/denv/pkg/platform"
)

var (
	serveAddress string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve composed environments over SSH",
		Long: `Start an SSH server that composes environments on demand.

Clients with a terminal land in a live materialized shell; plain
sessions receive the canonical descriptor, so
'ssh -p 2222 host backend > env.toml' works for scripting. The server
re-composes on every connection, picking up denvfile changes without a
restart.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Fail early on an unloadable denvfile; later edits are picked up
	// per-session.
	if _, err := loadDenvfile(); err != nil {
		return classify(err)
	}

	provider := func(ctx context.Context, output string, p platform.Platform) (*compose.Descriptor, error) {
		eng, err := buildEngine()
		if err != nil {
			return nil, err
		}
		return eng.ComposeOutput(ctx, output, p)
	}

	address := serveAddress
	if address == "" {
		address = cfg.Serve.Address
	}
	srv, err := remote.NewServer(remote.Config{
		Address:       address,
		HostKeyPath:   cfg.Serve.HostKeyPath,
		DefaultOutput: cfg.DefaultOutput,
	}, provider, logger)
	if err != nil {
		return classify(err)
	}

	if err := srv.Start(cmd.Context()); err != nil {
		return classify(err)
	}
	fmt.Println(SuccessStyle.Render("✓ serving on ") + NameStyle.Render(srv.Addr()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	<-ctx.Done()

	return classify(srv.Stop())
}
