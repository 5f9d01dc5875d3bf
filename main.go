// Package main is the entry point for the Lineforge assembly line simulator.
package main

import (
	"fmt"
	"os"

	"github.com/lineforge/assembly-line-sim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
