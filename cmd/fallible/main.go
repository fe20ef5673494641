// Command fallible runs sequence scenarios and replays their journals.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/fallible/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
