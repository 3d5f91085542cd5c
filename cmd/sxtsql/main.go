package main

import (
	"fmt"
	"os"

	"github.com/Ramirodiegolandscape/sxt-proof-of-sql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sxtsql:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
