// ABOUTME: Entry point for the shipit CLI application.
// ABOUTME: Delegates execution to the cli package.
package main

import (
	"os"

	"github.com/harper/shipit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
