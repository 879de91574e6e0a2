// Command colorgraph compiles CUE color tables and canonicalizes their
// colors into dense graph nodes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/colorgraph/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands print their own structured errors; only flag and
		// argument errors reach here unreported.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
