// SPDX-License-Identifier: MPL-2.0

//go:build windows

package materialize

import "os/exec"

// runPTY falls back to plain pipes; conpty support is not wired up.
func (m *ShellMaterializer) runPTY(cmd *exec.Cmd, opts Options) *Result {
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &Result{ExitCode: exitErr.ExitCode()}
		}
		return errorResult(m.Name(), err)
	}
	return &Result{}
}
