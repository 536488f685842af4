// occur finds every occurrence of a set of patterns in a text in one pass.
package main

import (
	"fmt"
	"os"

	"github.com/corey/occur/cmd/occur/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		code := cmd.ExitCode(err)
		if code < 0 {
			code = 2
		}
		if code >= 2 {
			fmt.Fprintf(os.Stderr, "occur: %v\n", err)
		}
		os.Exit(code)
	}
}
