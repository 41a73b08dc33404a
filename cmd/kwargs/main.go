package main

import (
	"fmt"
	"os"

	"github.com/roach88/kwargs/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands that already reported through the formatter return an
		// ExitError; anything else is a usage or flag error.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
