// skipscan finds every occurrence of a pattern using Boyer-Moore.
package main

import (
	"fmt"
	"os"

	"github.com/mhr3/skipscan/cmd/skipscan/cmd"
)

func main() {
	err := cmd.Execute()
	if cmd.Reportable(err) {
		fmt.Fprintf(os.Stderr, "skipscan: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
