package main

import (
	"fmt"
	"os"

	"github.com/MikeSquared-Agency/Arbiter/internal/scoring"
)

const (
	ExitSuccess = 0
	ExitInvalid = 1 // input rejected by the engine
	ExitError   = 2 // I/O or usage error
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if scoring.IsValidation(err) {
			os.Exit(ExitInvalid)
		}
		os.Exit(ExitError)
	}
}
