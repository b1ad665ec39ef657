package main

import (
	"fmt"
	"os"

	"github.com/rsjslint/rsjslint/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rsjslint: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
