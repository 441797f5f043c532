// Command kgq queries a knowledge graph stored in SQLite.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/kgraph/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
