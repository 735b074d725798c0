package main

import (
	"errors"
	"fmt"
	"os"

	"dcat-launcher/internal/cli"

	"github.com/joho/godotenv"
)

// exitCoder is implemented by errors that carry the process exit code:
// build failures propagate the daemon's status code, container exits
// propagate the container's own code.
type exitCoder interface {
	ExitCode() int
}

func main() {
	// Load .env if present; a missing file is fine.
	godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dcat-launcher:", err)

		var coder exitCoder
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}
