// Package main is the entry point for the gocommitlint CLI.
//
// All logic lives in the commands package.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/JNZader/gocommitlint/cmd/gocommitlint/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
