// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/denvtool/denv/internal/compose"
)

// ShellMaterializer spawns a system shell with the descriptor's environment
// applied and its startup actions run as the shell's rc prologue.
type ShellMaterializer struct {
	// Shell overrides the detected shell binary.
	Shell string
}

// NewShellMaterializer creates a shell materializer using the host's
// default shell.
func NewShellMaterializer() *ShellMaterializer {
	return &ShellMaterializer{}
}

// Name returns "shell".
func (m *ShellMaterializer) Name() string { return "shell" }

// Available reports whether a usable shell exists on this host.
func (m *ShellMaterializer) Available() bool {
	_, err := m.shellPath()
	return err == nil
}

// Materialize spawns the shell. Interactive sessions get the startup
// prologue as an rc file and hand the terminal to the user; non-interactive
// sessions run the prologue and exit, which is what scripted callers want.
func (m *ShellMaterializer) Materialize(ctx context.Context, desc *compose.Descriptor, opts Options) *Result {
	shell, err := m.shellPath()
	if err != nil {
		return errorResult(m.Name(), err)
	}

	rcFile, cleanup, err := writeRCFile(desc)
	if err != nil {
		return errorResult(m.Name(), err)
	}
	defer cleanup()

	var (
		cmd      *exec.Cmd
		extraEnv []string
	)
	switch {
	case opts.Interactive && shellBase(shell) == "bash":
		cmd = exec.CommandContext(ctx, shell, "--rcfile", rcFile, "-i")
	case opts.Interactive && shellBase(shell) == "zsh":
		// zsh has no --rcfile; point ZDOTDIR at a directory whose .zshrc
		// chains the user's own rc file and then the prologue.
		zdot, zcleanup, zerr := writeZshDotDir(rcFile)
		if zerr != nil {
			return errorResult(m.Name(), zerr)
		}
		defer zcleanup()
		cmd = exec.CommandContext(ctx, shell, "-i")
		extraEnv = []string{"ZDOTDIR=" + zdot}
	default:
		args := []string{rcFile}
		if flag := shellArgs(shell); flag != "" {
			args = append([]string{flag}, args...)
		}
		cmd = exec.CommandContext(ctx, shell, args...)
	}
	cmd.Env = append(EnvSlice(os.Environ(), desc), extraEnv...)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}

	if opts.Interactive && stdinIsTerminal(opts) {
		return m.runPTY(cmd, opts)
	}

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

// shellPath determines which shell to spawn. On Unix the SHELL variable
// wins, then bash, then sh; on Windows pwsh, powershell, then cmd.
func (m *ShellMaterializer) shellPath() (string, error) {
	if m.Shell != "" {
		return m.Shell, nil
	}
	if runtime.GOOS == "windows" {
		for _, candidate := range []string{"pwsh", "powershell", "cmd"} {
			if p, err := exec.LookPath(candidate); err == nil {
				return p, nil
			}
		}
		return "", fmt.Errorf("no shell found")
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell, nil
	}
	for _, candidate := range []string{"bash", "sh"} {
		if p, err := exec.LookPath(candidate); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no shell found")
}

// writeRCFile persists the descriptor's startup prologue to a temp file.
// The returned cleanup removes it.
func writeRCFile(desc *compose.Descriptor) (string, func(), error) {
	f, err := os.CreateTemp("", "denv-rc-*.sh")
	if err != nil {
		return "", nil, fmt.Errorf("create rc file: %w", err)
	}
	if _, err := f.WriteString(RenderScript(desc)); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("write rc file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", nil, fmt.Errorf("close rc file: %w", err)
	}
	name := f.Name()
	return name, func() { _ = os.Remove(name) }, nil
}

// writeZshDotDir builds a throwaway ZDOTDIR whose .zshrc sources the user's
// real ~/.zshrc before the startup prologue, so the prologue's exports win.
// The returned cleanup removes the directory.
func writeZshDotDir(rcFile string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "denv-zdot-*")
	if err != nil {
		return "", nil, fmt.Errorf("create zsh rc dir: %w", err)
	}
	zshrc := "[ -f \"$HOME/.zshrc\" ] && . \"$HOME/.zshrc\"\n. " + quote(rcFile) + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".zshrc"), []byte(zshrc), 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return "", nil, fmt.Errorf("write zsh rc file: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

// shellArgs returns the flag that makes the shell run a script file.
func shellArgs(shell string) string {
	switch shellBase(shell) {
	case "cmd":
		return "/C"
	case "powershell", "pwsh":
		return "-File"
	default:
		return "" // POSIX shells take the script path directly
	}
}

// shellBase is the shell's bare name, without directory or .exe suffix.
func shellBase(shell string) string {
	return strings.TrimSuffix(filepath.Base(shell), ".exe")
}

// stdinIsTerminal reports whether the session's stdin is the process
// terminal, which is the only case a PTY helps.
func stdinIsTerminal(opts Options) bool {
	f, ok := opts.Stdin.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
