// SPDX-License-Identifier: MPL-2.0

// denv composes declarative development environments.
package main

import "github.com/denvtool/denv/internal/cli"

func main() {
	cli.Execute()
}
