// cmd/spawnhook/main.go
//
// Entry point for the spawnhook CLI.
//
// With no subcommand, spawnhook is a filter: it reads a whole command file
// from stdin, appends AUTO-SPAWNED AGENTS instructions for every
// `**Spawn @alias with mission:**` block it finds, and writes the result to
// stdout. Subcommands inspect, view, and serve the same pipeline.

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		die("%v", err)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "spawnhook: "+format+"\n", args...)
	os.Exit(1)
}
