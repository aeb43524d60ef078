// Package main is the entry point for the spd CLI tool.
package main

import (
	"os"

	"github.com/schemapad/schemapad/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
