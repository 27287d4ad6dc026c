// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package materialize

import (
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// runPTY runs the shell under a pseudo-terminal so interactive programs
// inside the environment see a real tty.
func (m *ShellMaterializer) runPTY(cmd *exec.Cmd, opts Options) *Result {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return errorResult(m.Name(), err)
	}
	defer func() { _ = ptmx.Close() }()

	// Terminal -> shell. The copy ends when the shell exits and the pty
	// read side closes.
	go func() { _, _ = io.Copy(ptmx, opts.Stdin) }()
	_, _ = io.Copy(opts.Stdout, ptmx)

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &Result{ExitCode: exitErr.ExitCode()}
		}
		return errorResult(m.Name(), err)
	}
	return &Result{}
}
