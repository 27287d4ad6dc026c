// SPDX-License-Identifier: MPL-2.0

package materialize

import (
	"strings"

	"github.com/denvtool/denv/internal/compose"
)

// RenderScript renders the descriptor as a POSIX shell prologue: one export
// per environment binding followed by the startup actions, in declaration
// order. The shell materializer feeds this to the spawned shell as its rc
// file; the virtual materializer interprets it in-process.
func RenderScript(desc *compose.Descriptor) string {
	var b strings.Builder
	for _, binding := range desc.EnvVars {
		b.WriteString("export ")
		b.WriteString(binding.Name)
		b.WriteString("=")
		b.WriteString(quote(binding.Value))
		b.WriteString("\n")
	}
	for _, action := range desc.StartupActions {
		if action.Name != "" {
			b.WriteString("# ")
			b.WriteString(action.Name)
			b.WriteString("\n")
		}
		b.WriteString(action.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// EnvSlice merges the descriptor's bindings over a base environment in
// KEY=VALUE form. Descriptor bindings win over base entries of the same name.
func EnvSlice(base []string, desc *compose.Descriptor) []string {
	override := desc.Env()
	out := make([]string, 0, len(base)+len(override))
	for _, kv := range base {
		name, _, ok := strings.Cut(kv, "=")
		if _, shadowed := override[name]; ok && shadowed {
			continue
		}
		out = append(out, kv)
	}
	for _, binding := range desc.EnvVars {
		out = append(out, binding.Name+"="+binding.Value)
	}
	return out
}

// quote single-quotes a value for POSIX shells, escaping embedded quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
