// Package main is the entry point for the needles CLI, a terminal client for
// the boutique management backend.
package main

import (
	"needles/cli/cmd"
)

func main() {
	cmd.Execute()
}
