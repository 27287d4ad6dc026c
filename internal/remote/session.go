// SPDX-License-Identifier: MPL-2.0

package remote

import (
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/internal/materialize"
	"github.com/denvtool/denv/pkg/platform"
)

// sessionMiddleware handles one client session. The first command argument
// names the output; absent, the server's default applies. Terminal sessions
// get a live shell, plain ones the canonical descriptor text.
func (s *Server) sessionMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			output := s.cfg.DefaultOutput
			if args := sess.Command(); len(args) > 0 {
				output = args[0]
			}
			if output == "" {
				wish.Errorln(sess, "no output requested and no default configured")
				_ = sess.Exit(1)
				return
			}

			// Environments run on the server host, so composition targets
			// the host platform regardless of what the client runs.
			desc, err := s.provider(sess.Context(), output, platform.Current())
			if err != nil {
				s.logger.Warn("compose failed", "output", output, "error", err)
				wish.Errorf(sess, "compose %q: %v\n", output, err)
				_ = sess.Exit(1)
				return
			}

			if _, _, isPty := sess.Pty(); !isPty {
				s.writeDescriptor(sess, desc)
				return
			}
			s.serveShell(sess, desc)
		}
	}
}

// writeDescriptor sends the canonical encoding for scripted consumers
// (`ssh host backend > env.toml`).
func (s *Server) writeDescriptor(sess ssh.Session, desc *compose.Descriptor) {
	data, err := desc.Encode()
	if err != nil {
		wish.Errorf(sess, "encode descriptor: %v\n", err)
		_ = sess.Exit(1)
		return
	}
	_, _ = sess.Write(data)
}

// serveShell materializes the environment with the session as its terminal.
func (s *Server) serveShell(sess ssh.Session, desc *compose.Descriptor) {
	m := materialize.NewShellMaterializer()
	result := m.Materialize(sess.Context(), desc, materialize.Options{
		Stdin:       sess,
		Stdout:      sess,
		Stderr:      sess.Stderr(),
		Interactive: true,
	})
	if result.Error != nil {
		s.logger.Error("materialize failed", "output", desc.Output, "error", result.Error)
		wish.Errorf(sess, "materialize: %v\n", result.Error)
	}
	_ = sess.Exit(result.ExitCode)
}
