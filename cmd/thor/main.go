package main

import (
	"fmt"
	"os"

	"github.com/thorscript/thor/cmd/thor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if err != cmd.ErrAlreadyReported {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
