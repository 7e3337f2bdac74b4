package main

import (
	"fmt"
	"os"

	"github.com/thiagokokada/relpick/cmd"
	"github.com/thiagokokada/relpick/internal/failure"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "relpick: %v\n", err)
		os.Exit(failure.ExitCode(err))
	}
}
