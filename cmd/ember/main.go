// Command ember is the run-configuration front end for the
// optimization engine: it validates config files, expands sweep
// blocks into scenario queues, and converts relational model
// snapshots into flat DAT datasets.
package main

import (
	"fmt"
	"os"

	"github.com/emberproject/ember/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
