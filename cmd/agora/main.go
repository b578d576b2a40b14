// SPDX-License-Identifier: MIT

// Command agora runs the conversation analysis engine against a SQLite
// vote store.
package main

import (
	"os"

	"github.com/katalvlaran/agora/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
