package main

import (
	"os"

	"github.com/roach88/selva/internal/cli"
)

func main() {
	// Commands report their own errors through the output formatter;
	// main only translates the error into a process exit code.
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
