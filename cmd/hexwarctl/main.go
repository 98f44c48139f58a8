// Command hexwarctl is the operator-facing CLI: run an episode, replay
// an action log, or drop into an interactive shell against a running
// engine.
package main

import (
	"fmt"
	"os"

	"github.com/castellan-labs/hexwar40k/cmd/hexwarctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
