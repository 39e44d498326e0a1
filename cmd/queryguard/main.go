// Package main is the queryguard command-line entry point.
package main

import (
	"os"

	"github.com/veldt-labs/queryguard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
