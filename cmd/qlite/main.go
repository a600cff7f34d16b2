// Command qlite compiles, decomposes, simulates and transpiles quantum
// circuit programs.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/qlite/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
