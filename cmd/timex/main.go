// Command timex tags temporal expressions in part-of-speech tagged text.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/timex/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
