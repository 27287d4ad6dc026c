// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/denvtool/denv/internal/compose"
)

// VirtualMaterializer runs the descriptor's startup prologue in an embedded
// POSIX shell interpreter. No system shell is involved, so behavior is the
// same on every host, including Windows.
type VirtualMaterializer struct{}

// NewVirtualMaterializer creates a virtual materializer.
func NewVirtualMaterializer() *VirtualMaterializer {
	return &VirtualMaterializer{}
}

// Name returns "virtual".
func (m *VirtualMaterializer) Name() string { return "virtual" }

// Available always returns true; the interpreter is built in.
func (m *VirtualMaterializer) Available() bool { return true }

// Validate parses the descriptor's prologue without running it.
func (m *VirtualMaterializer) Validate(desc *compose.Descriptor) error {
	script := RenderScript(desc)
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "startup"); err != nil {
		return fmt.Errorf("startup script syntax error: %w", err)
	}
	return nil
}

// Materialize parses and runs the startup prologue in-process. The
// environment the interpreter sees is the host environment with the
// descriptor's bindings layered on top.
func (m *VirtualMaterializer) Materialize(ctx context.Context, desc *compose.Descriptor, opts Options) *Result {
	script := RenderScript(desc)
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "startup")
	if err != nil {
		return errorResult(m.Name(), fmt.Errorf("parse startup script: %w", err))
	}

	runnerOpts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(EnvSlice(os.Environ(), desc)...)),
		interp.StdIO(opts.Stdin, opts.Stdout, opts.Stderr),
	}
	if opts.WorkDir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.WorkDir))
	}

	runner, err := interp.New(runnerOpts...)
	if err != nil {
		return errorResult(m.Name(), fmt.Errorf("create interpreter: %w", err))
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &Result{ExitCode: int(exitStatus)}
		}
		return errorResult(m.Name(), fmt.Errorf("run startup script: %w", err))
	}
	return &Result{}
}
