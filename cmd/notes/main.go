package main

import (
	"os"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
