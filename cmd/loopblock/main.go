// Package main provides the entry point for the loopblock server.
package main

import (
	"fmt"
	"os"

	"github.com/loopblock/loopblock/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
