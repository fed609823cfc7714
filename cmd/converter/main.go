// Package main is the entry point for the statement converter CLI.
package main

import (
	"os"

	"github.com/FACorreiaa/statement-converter/cmd/converter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
