// Package main is the entry point for inboxdot, the follow-up marker engine
// for inbox thread lists.
package main

import (
	"fmt"
	"os"

	"github.com/inboxdot/inboxdot/internal/cli"
)

// Version information (set by goreleaser)
var (
	version = "dev"
)

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
