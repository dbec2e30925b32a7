// Command minilang analyzes programs in a small teaching language.
package main

import (
	"os"

	"github.com/leapstack-labs/minilang/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
