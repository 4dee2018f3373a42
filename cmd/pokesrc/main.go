// pokesrc looks up creatures by Latin name, Hangul name or lead-consonant
// abbreviation and prints type matchups and battle usage.
package main

import (
	"fmt"
	"os"

	"github.com/corey/pokesrc/cmd/pokesrc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}
